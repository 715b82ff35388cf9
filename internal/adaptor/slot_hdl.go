package adaptor

import (
	"net/http"

	"field-booking/internal/usecase"
	"field-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SlotHandler struct {
	service usecase.AvailabilityService
	log     *zap.Logger
}

func NewSlotHandler(service usecase.AvailabilityService, log *zap.Logger) *SlotHandler {
	return &SlotHandler{
		service: service,
		log:     log.With(zap.String("handler", "slot")),
	}
}

// GetAvailable handles GET /api/timeslots/available?field_id=...&date=... (public)
func (h *SlotHandler) GetAvailable(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	fieldID := query.Get("field_id")
	date := query.Get("date")

	slots, err := h.service.GetDaySlots(r.Context(), fieldID, date)
	if err != nil {
		handleServiceError(h.log, w, err, "get available slots")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

// GetSlot handles GET /api/timeslots/{id} (public)
func (h *SlotHandler) GetSlot(w http.ResponseWriter, r *http.Request) {
	slotID := chi.URLParam(r, "id")
	if slotID == "" {
		utils.ResponseBadRequest(w, "Time slot ID is required", nil)
		return
	}

	slot, err := h.service.GetSlot(r.Context(), slotID)
	if err != nil {
		handleServiceError(h.log, w, err, "get time slot")
		return
	}

	utils.ResponseSuccess(w, "success", slot)
}
