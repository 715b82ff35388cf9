package wire

import (
	"field-booking/internal/adaptor"
	"field-booking/internal/data/repository"
	"field-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCart(r chi.Router, cartHandler *adaptor.CartHandler, repo *repository.Repository, log *zap.Logger) {
	// All cart and checkout routes require a valid session.
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// GET /api/cart - current cart with live holds
		r.Get("/api/cart", cartHandler.GetCart)

		// POST /api/cart/add/{slotId} - hold a slot and add it to the cart
		r.Post("/api/cart/add/{slotId}", cartHandler.AddItem)

		// DELETE /api/cart/remove/{slotId} - release a hold and drop the entry
		r.Delete("/api/cart/remove/{slotId}", cartHandler.RemoveItem)

		// DELETE /api/cart/clear - release everything
		r.Delete("/api/cart/clear", cartHandler.Clear)

		// POST /api/cart/checkout - commit held slots to reservations
		r.Post("/api/cart/checkout", cartHandler.Checkout)

		// GET /api/user/reservations - booking history
		r.Get("/api/user/reservations", cartHandler.GetUserReservations)
	})
}
