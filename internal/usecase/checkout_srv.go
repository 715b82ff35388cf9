package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"field-booking/internal/data/entity"
	"field-booking/internal/data/repository"
	"field-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Checkout failure reasons reported per slot. Clients branch on these to
// decide whether to refresh, re-add or drop an item.
const (
	ReasonNotFound    = "not_found"
	ReasonNotHolder   = "not_holder"
	ReasonHoldExpired = "hold_expired"
	ReasonConflict    = "conflict"
)

// CheckoutService converts held cart items into reservations. Commit is per
// item: each slot succeeds or fails on its own, and one dead hold never
// blocks the rest of the cart.
type CheckoutService interface {
	Checkout(ctx context.Context, userID uuid.UUID) (*response.CheckoutResponse, error)
	GetUserReservations(ctx context.Context, userID uuid.UUID) ([]response.ReservationResponse, error)
}

type checkoutService struct {
	repo     *repository.Repository
	notifier Notifier
	payments PaymentGateway
	clock    Clock
	log      *zap.Logger
}

func NewCheckoutService(repo *repository.Repository, notifier Notifier, payments PaymentGateway, clk Clock, log *zap.Logger) CheckoutService {
	return &checkoutService{
		repo:     repo,
		notifier: notifier,
		payments: payments,
		clock:    clk,
		log:      log.With(zap.String("service", "checkout")),
	}
}

func (s *checkoutService) Checkout(ctx context.Context, userID uuid.UUID) (*response.CheckoutResponse, error) {
	if userID == uuid.Nil {
		return nil, entity.ErrUnauthenticated
	}

	items, err := s.repo.Cart.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find cart items: %w", err)
	}

	result := &response.CheckoutResponse{
		Committed: []response.ReservationResponse{},
		Failed:    []response.SlotRefResponse{},
	}

	// An empty cart is a successful no-op checkout.
	if len(items) == 0 {
		return result, nil
	}

	var (
		reservationIDs []uuid.UUID
		total          float64
		touched        = make(map[uuid.UUID]struct{})
	)

	for _, item := range items {
		res, reason, err := s.commitItem(ctx, userID, item)
		if err != nil {
			return nil, err
		}

		// The cart entry is consumed whether the slot booked or not; a
		// failed item must not resurrect on the next cart read.
		if _, err := s.repo.Cart.Delete(ctx, userID, item.TimeSlotID); err != nil {
			return nil, fmt.Errorf("delete cart item: %w", err)
		}

		if reason != "" {
			result.Failed = append(result.Failed, response.SlotRefResponse{
				TimeSlotID: item.TimeSlotID.String(),
				FieldID:    item.FieldID.String(),
				FieldName:  item.FieldName,
				SlotStart:  item.SlotStart,
				Reason:     reason,
			})
			continue
		}

		result.Committed = append(result.Committed, response.ReservationToResponse(res, item.FieldName, item.SlotStart))
		reservationIDs = append(reservationIDs, res.ID)
		total += res.AmountPaid
		touched[item.FieldID] = struct{}{}
	}

	for fieldID := range touched {
		s.notifier.Publish(fieldID)
	}

	if len(result.Committed) > 0 {
		result.PaymentURL = s.payments.CheckoutURL(userID, reservationIDs, total)
	}

	s.log.Info("Checkout finished",
		zap.String("user_id", userID.String()),
		zap.Int("committed", len(result.Committed)),
		zap.Int("failed", len(result.Failed)),
	)

	return result, nil
}

// commitItem books a single cart item. A non-empty reason means the item was
// classified as a business failure; an error means infrastructure broke and
// the whole checkout should abort.
func (s *checkoutService) commitItem(ctx context.Context, userID uuid.UUID, item *entity.CartItem) (*entity.Reservation, string, error) {
	now := s.clock.Now()

	slot, err := s.repo.TimeSlot.FindByID(ctx, item.TimeSlotID)
	if err != nil {
		return nil, "", fmt.Errorf("find time slot: %w", err)
	}
	if slot == nil {
		return nil, ReasonNotFound, nil
	}
	if reason := classifyHold(slot, userID, now); reason != "" {
		return nil, reason, nil
	}

	res := &entity.Reservation{
		UserID:     userID,
		TimeSlotID: item.TimeSlotID,
		FieldID:    item.FieldID,
		AmountPaid: item.Price,
	}
	res.ID = uuid.New()
	res.CreatedAt = now
	if err := s.repo.Reservation.Create(ctx, res); err != nil {
		return nil, "", fmt.Errorf("create reservation: %w", err)
	}

	if err := s.repo.TimeSlot.Book(ctx, item.TimeSlotID, userID, res.ID, now, slot.Revision); err != nil {
		// The booking lost its race after the reservation row went in; the
		// row must not survive as a reservation for a slot we never got.
		if delErr := s.repo.Reservation.Delete(ctx, res.ID); delErr != nil {
			s.log.Error("Failed to roll back reservation after booking race",
				zap.Error(delErr),
				zap.String("reservation_id", res.ID.String()),
			)
		}

		if errors.Is(err, entity.ErrSlotConflict) {
			fresh, ferr := s.repo.TimeSlot.FindByID(ctx, item.TimeSlotID)
			if ferr != nil || fresh == nil {
				return nil, ReasonConflict, nil
			}
			if reason := classifyHold(fresh, userID, now); reason != "" {
				return nil, reason, nil
			}
			return nil, ReasonConflict, nil
		}
		return nil, "", fmt.Errorf("book time slot: %w", err)
	}

	return res, "", nil
}

// classifyHold explains why a slot is not bookable by this user right now.
// Returns "" when the user holds a live hold on it.
func classifyHold(slot *entity.TimeSlot, userID uuid.UUID, now time.Time) string {
	switch {
	case slot.Status == entity.SlotStatusBooked:
		return ReasonConflict
	case slot.Status != entity.SlotStatusHeld || slot.HolderID == nil:
		return ReasonNotHolder
	case *slot.HolderID != userID:
		return ReasonNotHolder
	case slot.HoldExpired(now):
		return ReasonHoldExpired
	default:
		return ""
	}
}

func (s *checkoutService) GetUserReservations(ctx context.Context, userID uuid.UUID) ([]response.ReservationResponse, error) {
	if userID == uuid.Nil {
		return nil, entity.ErrUnauthenticated
	}

	reservations, err := s.repo.Reservation.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find reservations: %w", err)
	}

	result := make([]response.ReservationResponse, 0, len(reservations))
	for _, res := range reservations {
		var (
			fieldName string
			slotStart = res.CreatedAt
		)
		if slot, err := s.repo.TimeSlot.FindByID(ctx, res.TimeSlotID); err == nil && slot != nil {
			slotStart = slot.StartAt
		}
		if field, err := s.repo.Field.FindByID(ctx, res.FieldID); err == nil && field != nil {
			fieldName = field.Name
		}
		result = append(result, response.ReservationToResponse(res, fieldName, slotStart))
	}

	return result, nil
}
