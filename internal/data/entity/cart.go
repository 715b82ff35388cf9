package entity

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one held slot in a user's cart. Price, field name and slot
// start are snapshots taken when the hold was created; the slot itself stays
// the source of truth for state. (UserID, TimeSlotID) is the primary key.
type CartItem struct {
	UserID     uuid.UUID `db:"user_id"`
	TimeSlotID uuid.UUID `db:"time_slot_id"`
	FieldID    uuid.UUID `db:"field_id"`
	FieldName  string    `db:"field_name"`
	Price      float64   `db:"price"`
	SlotStart  time.Time `db:"slot_start"`
	AddedAt    time.Time `db:"added_at"`
}
