package adaptor

import (
	"fmt"
	"net/http"
	"time"

	"field-booking/internal/notify"
	"field-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const heartbeatInterval = 15 * time.Second

type EventsHandler struct {
	hub *notify.Hub
	log *zap.Logger
}

func NewEventsHandler(hub *notify.Hub, log *zap.Logger) *EventsHandler {
	return &EventsHandler{
		hub: hub,
		log: log.With(zap.String("handler", "events")),
	}
}

// StreamFieldEvents handles GET /api/fields/{fieldId}/events (public).
// Server-sent events: one "slots_changed" event per coalesced batch of slot
// transitions on the field. Events carry no payload; clients refetch.
func (h *EventsHandler) StreamFieldEvents(w http.ResponseWriter, r *http.Request) {
	fieldID, err := uuid.Parse(chi.URLParam(r, "fieldId"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid field ID format", nil)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.ResponseInternalError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Tell the client it is connected before any change happens, so it can
	// refetch once and then trust the stream.
	fmt.Fprint(w, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	changes, cancel := h.hub.Subscribe(fieldID)
	defer cancel()

	h.log.Info("Event stream opened", zap.String("field_id", fieldID.String()))

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.log.Info("Event stream closed", zap.String("field_id", fieldID.String()))
			return
		case <-changes:
			fmt.Fprint(w, "event: slots_changed\ndata: {}\n\n")
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		}
	}
}
