package usecase

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

// PaymentGateway hands a committed checkout off to the external payment
// flow. This service's contract ends at producing the redirect URL; payment
// success is adjudicated elsewhere.
type PaymentGateway interface {
	CheckoutURL(userID uuid.UUID, reservationIDs []uuid.UUID, total float64) string
}

type redirectGateway struct {
	baseURL string
}

// NewRedirectGateway builds checkout redirect URLs from a configured base.
// An empty base disables the handoff.
func NewRedirectGateway(baseURL string) PaymentGateway {
	return &redirectGateway{baseURL: baseURL}
}

func (g *redirectGateway) CheckoutURL(userID uuid.UUID, reservationIDs []uuid.UUID, total float64) string {
	if g.baseURL == "" || len(reservationIDs) == 0 {
		return ""
	}

	params := url.Values{}
	params.Set("user_id", userID.String())
	params.Set("amount", fmt.Sprintf("%.2f", total))
	for _, id := range reservationIDs {
		params.Add("reservation_id", id.String())
	}

	return g.baseURL + "?" + params.Encode()
}
