package entity

import "github.com/google/uuid"

// Reservation is the immutable record of a committed booking. Created only
// by checkout; cancellation is a separate concern outside this service.
type Reservation struct {
	BaseSimple
	UserID     uuid.UUID `db:"user_id"`
	TimeSlotID uuid.UUID `db:"time_slot_id"`
	FieldID    uuid.UUID `db:"field_id"`
	AmountPaid float64   `db:"amount_paid"`
	PaymentID  *string   `db:"payment_id"`
}
