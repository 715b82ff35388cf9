package response

import (
	"time"

	"field-booking/internal/data/entity"
)

type CartItemResponse struct {
	TimeSlotID string    `json:"time_slot_id"`
	FieldID    string    `json:"field_id"`
	FieldName  string    `json:"field_name"`
	Price      float64   `json:"price"`
	SlotStart  time.Time `json:"slot_start"`
	AddedAt    time.Time `json:"added_at"`
	HeldUntil  time.Time `json:"held_until"`
}

type CartResponse struct {
	UserID     string             `json:"user_id"`
	Items      []CartItemResponse `json:"items"`
	TotalPrice float64            `json:"total_price"`
}

func CartItemToResponse(item *entity.CartItem, heldUntil time.Time) CartItemResponse {
	return CartItemResponse{
		TimeSlotID: item.TimeSlotID.String(),
		FieldID:    item.FieldID.String(),
		FieldName:  item.FieldName,
		Price:      item.Price,
		SlotStart:  item.SlotStart,
		AddedAt:    item.AddedAt,
		HeldUntil:  heldUntil,
	}
}
