// Package client implements a read-side consumer of the booking API: it
// keeps a local snapshot of one field's day availability fresh by listening
// to the server's change stream and refetching on every signal.
package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Slot is the client-side view of a time slot. Status is already effective:
// the server reports lapsed holds as available.
type Slot struct {
	ID        string    `json:"id"`
	FieldID   string    `json:"field_id"`
	FieldName string    `json:"field_name"`
	StartAt   time.Time `json:"start_at"`
	Price     float64   `json:"price"`
	Status    string    `json:"status"`
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// WatcherConfig controls one field/date watch.
type WatcherConfig struct {
	BaseURL string
	FieldID string
	Date    string

	// PollInterval drives the fallback refresh used while the event stream
	// is down. Zero means 30s.
	PollInterval time.Duration

	// OnUpdate receives every fresh snapshot. Called from the watcher
	// goroutine; must not block for long.
	OnUpdate func(slots []Slot)
}

// Watcher mirrors a field's availability. Event signals carry no payload,
// so every signal triggers a full refetch; a missed signal is repaired by
// the next poll tick.
type Watcher struct {
	config WatcherConfig
	log    *zap.Logger

	// fetchClient bounds snapshot requests; streamClient must not time out
	// while an event stream idles between heartbeats.
	fetchClient  *http.Client
	streamClient *http.Client

	mu    sync.RWMutex
	slots []Slot
}

func NewWatcher(config WatcherConfig, log *zap.Logger) *Watcher {
	if config.PollInterval <= 0 {
		config.PollInterval = 30 * time.Second
	}

	return &Watcher{
		config:       config,
		log:          log.With(zap.String("component", "watcher"), zap.String("field_id", config.FieldID)),
		fetchClient:  &http.Client{Timeout: 10 * time.Second},
		streamClient: &http.Client{},
	}
}

// Slots returns the last snapshot.
func (w *Watcher) Slots() []Slot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]Slot, len(w.slots))
	copy(out, w.slots)
	return out
}

// Run blocks until ctx is cancelled. It maintains the event stream with
// capped exponential backoff and polls as a safety net in between.
func (w *Watcher) Run(ctx context.Context) {
	signals := make(chan struct{}, 1)
	go w.streamLoop(ctx, signals)

	if err := w.Refresh(ctx); err != nil {
		w.log.Warn("Initial snapshot failed", zap.Error(err))
	}

	poll := time.NewTicker(w.config.PollInterval)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-signals:
		case <-poll.C:
		}

		if err := w.Refresh(ctx); err != nil {
			w.log.Warn("Snapshot refresh failed", zap.Error(err))
		}
	}
}

// Refresh fetches the current availability snapshot once.
func (w *Watcher) Refresh(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/api/timeslots/available?%s", w.config.BaseURL, url.Values{
		"field_id": {w.config.FieldID},
		"date":     {w.config.Date},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := w.fetchClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch snapshot: unexpected status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	var slots []Slot
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &slots); err != nil {
			return fmt.Errorf("decode slots: %w", err)
		}
	}

	w.mu.Lock()
	w.slots = slots
	w.mu.Unlock()

	if w.config.OnUpdate != nil {
		w.config.OnUpdate(slots)
	}

	return nil
}

func (w *Watcher) streamLoop(ctx context.Context, signals chan<- struct{}) {
	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		if ctx.Err() != nil {
			return
		}

		err := w.consumeStream(ctx, signals)
		if ctx.Err() != nil {
			return
		}

		w.log.Warn("Event stream lost, reconnecting",
			zap.Error(err),
			zap.Duration("backoff", backoff),
		)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// consumeStream holds one event stream connection open and forwards change
// signals. Returns when the connection drops or ctx is cancelled.
func (w *Watcher) consumeStream(ctx context.Context, signals chan<- struct{}) error {
	endpoint := fmt.Sprintf("%s/api/fields/%s/events", w.config.BaseURL, w.config.FieldID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := w.streamClient.Do(req)
	if err != nil {
		return fmt.Errorf("connect stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("connect stream: unexpected status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// "connected" re-syncs after a gap; "slots_changed" means refetch.
		// Heartbeat comments and data lines are ignored.
		if line == "event: connected" || line == "event: slots_changed" {
			select {
			case signals <- struct{}{}:
			default:
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return fmt.Errorf("stream closed")
}
