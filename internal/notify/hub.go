package notify

import (
	"sync"

	"github.com/google/uuid"
)

// Hub is an in-process broadcast channel keyed by field ID. A publish means
// "slots changed for this field" and carries nothing else; subscribers
// re-fetch authoritative state themselves.
//
// Each subscriber owns a buffered(1) channel. Publishes never block: if a
// signal is already pending it is coalesced, which is fine because the
// handler response is always a full re-fetch.
type Hub struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]map[chan struct{}]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uuid.UUID]map[chan struct{}]struct{})}
}

// Subscribe registers interest in one field's slot changes. The returned
// cancel func must be called when the subscriber goes away.
func (h *Hub) Subscribe(fieldID uuid.UUID) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	if h.subs[fieldID] == nil {
		h.subs[fieldID] = make(map[chan struct{}]struct{})
	}
	h.subs[fieldID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[fieldID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, fieldID)
			}
		}
		h.mu.Unlock()
	}

	return ch, cancel
}

// Publish signals every subscriber of the field. Best-effort, at-least-once
// for live subscribers; a pending signal absorbs new ones.
func (h *Hub) Publish(fieldID uuid.UUID) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[fieldID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers reports how many subscribers a field currently has.
func (h *Hub) Subscribers(fieldID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[fieldID])
}
