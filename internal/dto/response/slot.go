package response

import (
	"time"

	"field-booking/internal/data/entity"
)

type TimeSlotResponse struct {
	ID          string            `json:"id"`
	FieldID     string            `json:"field_id"`
	FieldName   string            `json:"field_name,omitempty"`
	StartAt     time.Time         `json:"start_at"`
	Price       float64           `json:"price"`
	Status      entity.SlotStatus `json:"status"`
	IsAvailable bool              `json:"is_available"`
	// HeldUntil is only populated for the requesting user's own holds.
	HeldUntil *time.Time `json:"held_until,omitempty"`
}

// TimeSlotToResponse maps a slot applying lazy expiry: a lapsed hold is
// reported as available.
func TimeSlotToResponse(slot *entity.TimeSlot, fieldName string, now time.Time) TimeSlotResponse {
	status := slot.EffectiveStatus(now)
	return TimeSlotResponse{
		ID:          slot.ID.String(),
		FieldID:     slot.FieldID.String(),
		FieldName:   fieldName,
		StartAt:     slot.StartAt,
		Price:       slot.Price,
		Status:      status,
		IsAvailable: status == entity.SlotStatusAvailable,
	}
}
