package adaptor

import (
	"net/http"

	"field-booking/internal/dto/request"
	"field-booking/internal/usecase"
	"field-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CartHandler struct {
	cart     usecase.CartService
	checkout usecase.CheckoutService
	log      *zap.Logger
}

func NewCartHandler(cart usecase.CartService, checkout usecase.CheckoutService, log *zap.Logger) *CartHandler {
	return &CartHandler{
		cart:     cart,
		checkout: checkout,
		log:      log.With(zap.String("handler", "cart")),
	}
}

// GetCart handles GET /api/cart (protected)
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	cart, err := h.cart.GetCart(r.Context(), userID)
	if err != nil {
		handleServiceError(h.log, w, err, "get cart")
		return
	}

	utils.ResponseSuccess(w, "success", cart)
}

// AddItem handles POST /api/cart/add/{slotId} (protected)
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	req := request.AddCartItemRequest{TimeSlotID: chi.URLParam(r, "slotId")}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	cart, err := h.cart.AddItem(r.Context(), userID, req.TimeSlotID)
	if err != nil {
		handleServiceError(h.log, w, err, "add cart item")
		return
	}

	utils.ResponseCreated(w, "success", cart)
}

// RemoveItem handles DELETE /api/cart/remove/{slotId} (protected)
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	slotID := chi.URLParam(r, "slotId")
	if slotID == "" {
		utils.ResponseBadRequest(w, "Time slot ID is required", nil)
		return
	}

	cart, err := h.cart.RemoveItem(r.Context(), userID, slotID)
	if err != nil {
		handleServiceError(h.log, w, err, "remove cart item")
		return
	}

	utils.ResponseSuccess(w, "success", cart)
}

// Clear handles DELETE /api/cart/clear (protected)
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.cart.Clear(r.Context(), userID); err != nil {
		handleServiceError(h.log, w, err, "clear cart")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// Checkout handles POST /api/cart/checkout (protected)
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	result, err := h.checkout.Checkout(r.Context(), userID)
	if err != nil {
		handleServiceError(h.log, w, err, "checkout")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// GetUserReservations handles GET /api/user/reservations (protected)
func (h *CartHandler) GetUserReservations(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	reservations, err := h.checkout.GetUserReservations(r.Context(), userID)
	if err != nil {
		handleServiceError(h.log, w, err, "get user reservations")
		return
	}

	utils.ResponseSuccess(w, "success", reservations)
}
