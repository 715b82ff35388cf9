package adaptor

import (
	"errors"
	"net/http"
	"strings"

	"field-booking/internal/data/entity"
	"field-booking/internal/notify"
	"field-booking/internal/usecase"
	"field-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Slot   *SlotHandler
	Cart   *CartHandler
	Events *EventsHandler
}

func NewHandler(service *usecase.Service, hub *notify.Hub, log *zap.Logger) *Handler {
	return &Handler{
		Slot:   NewSlotHandler(service.Availability, log),
		Cart:   NewCartHandler(service.Cart, service.Checkout, log),
		Events: NewEventsHandler(hub, log),
	}
}

// handleServiceError maps service errors onto HTTP status codes. Slot state
// races are client-visible outcomes, not server faults, so they log at Warn.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, entity.ErrUnauthenticated):
		log.Warn(operation+" failed - unauthenticated", zap.Error(err))
		utils.ResponseUnauthorized(w, "Authentication required")

	case errors.Is(err, entity.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, entity.ErrNotHolder):
		log.Warn(operation+" failed - not holder", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, entity.ErrHoldExpired):
		log.Warn(operation+" failed - hold expired", zap.Error(err))
		utils.ResponseGone(w, err.Error())

	case errors.Is(err, entity.ErrSlotConflict):
		log.Warn(operation+" failed - slot conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), nil)

	case strings.Contains(err.Error(), "validation failed"),
		strings.Contains(err.Error(), "invalid"):
		log.Warn(operation+" failed - bad input", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
