package wire

import (
	"field-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireEvents(r chi.Router, eventsHandler *adaptor.EventsHandler, log *zap.Logger) {
	// GET /api/fields/{fieldId}/events - slot change stream (public)
	r.Get("/api/fields/{fieldId}/events", eventsHandler.StreamFieldEvents)
}
