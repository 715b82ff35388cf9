package usecase

import (
	"context"
	"errors"
	"fmt"

	"field-booking/internal/data/entity"
	"field-booking/internal/data/repository"
	"field-booking/internal/dto/response"
	"field-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartService mediates holds between users and the slot store. It never
// caches slot state: every operation reads current state, attempts the
// transition and trusts the store's verdict. A lost race surfaces as
// entity.ErrSlotConflict; the service does not retry.
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*response.CartResponse, error)
	AddItem(ctx context.Context, userID uuid.UUID, slotID string) (*response.CartResponse, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, slotID string) (*response.CartResponse, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	repo     *repository.Repository
	config   *utils.Config
	notifier Notifier
	clock    Clock
	log      *zap.Logger
}

func NewCartService(repo *repository.Repository, config *utils.Config, notifier Notifier, clk Clock, log *zap.Logger) CartService {
	return &cartService{
		repo:     repo,
		config:   config,
		notifier: notifier,
		clock:    clk,
		log:      log.With(zap.String("service", "cart")),
	}
}

func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, slotID string) (*response.CartResponse, error) {
	if userID == uuid.Nil {
		return nil, entity.ErrUnauthenticated
	}

	slotUUID, err := uuid.Parse(slotID)
	if err != nil {
		return nil, fmt.Errorf("invalid time slot ID format %s: %w", slotID, err)
	}

	slot, err := s.repo.TimeSlot.FindByID(ctx, slotUUID)
	if err != nil {
		return nil, fmt.Errorf("find time slot: %w", err)
	}
	if slot == nil {
		return nil, fmt.Errorf("time slot %s: %w", slotID, entity.ErrNotFound)
	}

	now := s.clock.Now()
	if slot.EffectiveStatus(now) != entity.SlotStatusAvailable {
		return nil, fmt.Errorf("time slot %s: %w", slotID, entity.ErrSlotConflict)
	}

	var fieldName string
	field, err := s.repo.Field.FindByID(ctx, slot.FieldID)
	if err != nil {
		return nil, fmt.Errorf("find field: %w", err)
	}
	if field != nil {
		fieldName = field.Name
	}

	heldUntil := now.Add(s.config.Hold.Expiry())
	if err := s.repo.TimeSlot.Hold(ctx, slotUUID, userID, heldUntil, now, slot.Revision); err != nil {
		if errors.Is(err, entity.ErrSlotConflict) {
			s.log.Info("Add item lost hold race",
				zap.String("slot_id", slotID),
				zap.String("user_id", userID.String()),
			)
			return nil, fmt.Errorf("time slot %s: %w", slotID, entity.ErrSlotConflict)
		}
		return nil, fmt.Errorf("hold time slot: %w", err)
	}

	item := &entity.CartItem{
		UserID:     userID,
		TimeSlotID: slotUUID,
		FieldID:    slot.FieldID,
		FieldName:  fieldName,
		Price:      slot.Price,
		SlotStart:  slot.StartAt,
		AddedAt:    now,
	}

	if err := s.repo.Cart.Insert(ctx, item); err != nil {
		// Back out the hold so the slot is not pinned by a cart entry that
		// never existed. Revision moved by one when the hold succeeded.
		if relErr := s.repo.TimeSlot.Release(ctx, slotUUID, userID, slot.Revision+1); relErr != nil {
			s.log.Error("Failed to roll back hold after cart insert failure",
				zap.Error(relErr),
				zap.String("slot_id", slotID),
			)
		}
		return nil, fmt.Errorf("insert cart item: %w", err)
	}

	s.notifier.Publish(slot.FieldID)

	s.log.Info("Slot held",
		zap.String("slot_id", slotID),
		zap.String("user_id", userID.String()),
		zap.Time("held_until", heldUntil),
	)

	return s.GetCart(ctx, userID)
}

func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, slotID string) (*response.CartResponse, error) {
	if userID == uuid.Nil {
		return nil, entity.ErrUnauthenticated
	}

	slotUUID, err := uuid.Parse(slotID)
	if err != nil {
		return nil, fmt.Errorf("invalid time slot ID format %s: %w", slotID, err)
	}

	now := s.clock.Now()

	slot, err := s.repo.TimeSlot.FindByID(ctx, slotUUID)
	if err != nil {
		return nil, fmt.Errorf("find time slot: %w", err)
	}

	// Release only a hold this user actually owns; a non-holder remove must
	// never force another user's hold open. The cart entry goes away either
	// way, so a hold already reclaimed server-side still gets cleaned up.
	if slot != nil && slot.HeldBy(userID, now) {
		switch err := s.repo.TimeSlot.Release(ctx, slotUUID, userID, slot.Revision); {
		case err == nil:
			s.notifier.Publish(slot.FieldID)
			s.log.Info("Slot released",
				zap.String("slot_id", slotID),
				zap.String("user_id", userID.String()),
			)
		case errors.Is(err, entity.ErrSlotConflict):
			s.log.Warn("Remove item lost release race", zap.String("slot_id", slotID))
		default:
			s.log.Error("Failed to release slot", zap.Error(err), zap.String("slot_id", slotID))
		}
	}

	if _, err := s.repo.Cart.Delete(ctx, userID, slotUUID); err != nil {
		return nil, fmt.Errorf("delete cart item: %w", err)
	}

	return s.GetCart(ctx, userID)
}

func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return entity.ErrUnauthenticated
	}

	items, err := s.repo.Cart.FindByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("find cart items: %w", err)
	}

	now := s.clock.Now()
	touched := make(map[uuid.UUID]struct{})
	var errs []error

	// Each release is attempted independently; one failure must not leave
	// the rest of the cart's slots pinned.
	for _, item := range items {
		slot, err := s.repo.TimeSlot.FindByID(ctx, item.TimeSlotID)
		if err != nil {
			errs = append(errs, fmt.Errorf("find time slot %s: %w", item.TimeSlotID.String(), err))
			continue
		}
		if slot == nil || !slot.HeldBy(userID, now) {
			continue
		}

		switch err := s.repo.TimeSlot.Release(ctx, item.TimeSlotID, userID, slot.Revision); {
		case err == nil:
			touched[slot.FieldID] = struct{}{}
		case errors.Is(err, entity.ErrSlotConflict):
			s.log.Warn("Clear lost release race", zap.String("slot_id", item.TimeSlotID.String()))
		default:
			errs = append(errs, err)
		}
	}

	if err := s.repo.Cart.DeleteAll(ctx, userID); err != nil {
		errs = append(errs, err)
	}

	for fieldID := range touched {
		s.notifier.Publish(fieldID)
	}

	s.log.Info("Cart cleared",
		zap.String("user_id", userID.String()),
		zap.Int("items", len(items)),
		zap.Int("errors", len(errs)),
	)

	return errors.Join(errs...)
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*response.CartResponse, error) {
	if userID == uuid.Nil {
		return nil, entity.ErrUnauthenticated
	}

	items, err := s.repo.Cart.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find cart items: %w", err)
	}

	now := s.clock.Now()
	cart := &response.CartResponse{
		UserID: userID.String(),
		Items:  []response.CartItemResponse{},
	}

	for _, item := range items {
		slot, err := s.repo.TimeSlot.FindByID(ctx, item.TimeSlotID)
		if err != nil {
			return nil, fmt.Errorf("find time slot: %w", err)
		}

		// Reconcile: entries whose slot this user no longer holds (expired,
		// swept, reclaimed by a competitor) must never leak into checkout.
		if slot == nil || !slot.HeldBy(userID, now) {
			if _, err := s.repo.Cart.Delete(ctx, userID, item.TimeSlotID); err != nil {
				s.log.Error("Failed to drop stale cart entry",
					zap.Error(err),
					zap.String("slot_id", item.TimeSlotID.String()),
				)
			}
			continue
		}

		cart.Items = append(cart.Items, response.CartItemToResponse(item, *slot.HeldUntil))
		cart.TotalPrice += item.Price
	}

	return cart, nil
}
