package response

import (
	"time"

	"field-booking/internal/data/entity"
)

type ReservationResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	TimeSlotID string    `json:"time_slot_id"`
	FieldID    string    `json:"field_id"`
	FieldName  string    `json:"field_name"`
	SlotStart  time.Time `json:"slot_start"`
	AmountPaid float64   `json:"amount_paid"`
	PaymentID  *string   `json:"payment_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// SlotRefResponse identifies a cart item that could not be committed.
type SlotRefResponse struct {
	TimeSlotID string    `json:"time_slot_id"`
	FieldID    string    `json:"field_id"`
	FieldName  string    `json:"field_name"`
	SlotStart  time.Time `json:"slot_start"`
	Reason     string    `json:"reason"`
}

// CheckoutResponse reports per-slot outcomes; partial success is the normal
// case, never silent.
type CheckoutResponse struct {
	Committed  []ReservationResponse `json:"committed"`
	Failed     []SlotRefResponse     `json:"failed"`
	PaymentURL string                `json:"payment_url,omitempty"`
}

func ReservationToResponse(reservation *entity.Reservation, fieldName string, slotStart time.Time) ReservationResponse {
	return ReservationResponse{
		ID:         reservation.ID.String(),
		UserID:     reservation.UserID.String(),
		TimeSlotID: reservation.TimeSlotID.String(),
		FieldID:    reservation.FieldID.String(),
		FieldName:  fieldName,
		SlotStart:  slotStart,
		AmountPaid: reservation.AmountPaid,
		PaymentID:  reservation.PaymentID,
		CreatedAt:  reservation.CreatedAt,
	}
}
