package usecase

import (
	"field-booking/internal/data/repository"
	"field-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier receives a "slots changed" signal for a field after every
// successful slot state transition. Implemented by notify.Hub.
type Notifier interface {
	Publish(fieldID uuid.UUID)
}

type Service struct {
	Availability AvailabilityService
	Cart         CartService
	Checkout     CheckoutService
}

func NewService(repo *repository.Repository, config *utils.Config, notifier Notifier, log *zap.Logger) *Service {
	clk := NewSystemClock()
	payments := NewRedirectGateway(config.Payment.RedirectURL)

	return &Service{
		Availability: NewAvailabilityService(repo, clk, log),
		Cart:         NewCartService(repo, config, notifier, clk, log),
		Checkout:     NewCheckoutService(repo, notifier, payments, clk, log),
	}
}
