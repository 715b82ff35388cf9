package wire

import (
	"field-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireSlots(r chi.Router, slotHandler *adaptor.SlotHandler, log *zap.Logger) {
	// GET /api/timeslots/available - day availability for a field (public)
	r.Get("/api/timeslots/available", slotHandler.GetAvailable)

	// GET /api/timeslots/{id} - single slot snapshot (public)
	r.Get("/api/timeslots/{id}", slotHandler.GetSlot)
}
