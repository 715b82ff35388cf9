package usecase

import (
	"context"
	"fmt"
	"time"

	"field-booking/internal/data/entity"
	"field-booking/internal/data/repository"
	"field-booking/internal/dto/request"
	"field-booking/internal/dto/response"
	"field-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AvailabilityService is the read path: it never mutates slot state. Lapsed
// holds are reported as available; reclaiming them is left to the next
// competing hold or the sweep.
type AvailabilityService interface {
	GetDaySlots(ctx context.Context, fieldID, date string) ([]response.TimeSlotResponse, error)
	GetSlot(ctx context.Context, slotID string) (*response.TimeSlotResponse, error)
}

type availabilityService struct {
	repo  *repository.Repository
	clock Clock
	log   *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, clk Clock, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo:  repo,
		clock: clk,
		log:   log.With(zap.String("service", "availability")),
	}
}

func (s *availabilityService) GetDaySlots(ctx context.Context, fieldID, date string) ([]response.TimeSlotResponse, error) {
	req := request.AvailabilityRequest{FieldID: fieldID, Date: date}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Availability query validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	fieldUUID, err := uuid.Parse(fieldID)
	if err != nil {
		return nil, fmt.Errorf("invalid field ID format %s: %w", fieldID, err)
	}

	field, err := s.repo.Field.FindByID(ctx, fieldUUID)
	if err != nil {
		return nil, fmt.Errorf("find field: %w", err)
	}
	if field == nil {
		return nil, fmt.Errorf("field %s: %w", fieldID, entity.ErrNotFound)
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid date format %s: %w", date, err)
	}

	slots, err := s.repo.TimeSlot.FindByFieldAndDate(ctx, fieldUUID, day)
	if err != nil {
		return nil, fmt.Errorf("find day slots: %w", err)
	}

	now := s.clock.Now()
	result := make([]response.TimeSlotResponse, len(slots))
	for i, slot := range slots {
		result[i] = response.TimeSlotToResponse(slot, field.Name, now)
	}

	s.log.Debug("Day slots retrieved",
		zap.String("field_id", fieldID),
		zap.String("date", date),
		zap.Int("count", len(result)),
	)

	return result, nil
}

func (s *availabilityService) GetSlot(ctx context.Context, slotID string) (*response.TimeSlotResponse, error) {
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

	var fieldName string
	field, err := s.repo.Field.FindByID(ctx, slot.FieldID)
	if err != nil {
		return nil, fmt.Errorf("find field: %w", err)
	}
	if field != nil {
		fieldName = field.Name
	}

	resp := response.TimeSlotToResponse(slot, fieldName, s.clock.Now())
	return &resp, nil
}
