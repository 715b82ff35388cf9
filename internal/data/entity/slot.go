package entity

import (
	"time"

	"github.com/google/uuid"
)

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusHeld      SlotStatus = "held"
	SlotStatusBooked    SlotStatus = "booked"
)

// TimeSlot is one bookable hour for one field. Identity is (FieldID, StartAt).
//
// Invariant: HolderID and ReservationID are never both set. Available slots
// have neither; held slots have HolderID and HeldUntil; booked slots have
// ReservationID only. Every state change bumps Revision, and mutations are
// compare-and-swap on the revision the caller last read.
type TimeSlot struct {
	Base
	FieldID       uuid.UUID  `db:"field_id"`
	StartAt       time.Time  `db:"start_at"`
	Price         float64    `db:"price"`
	Status        SlotStatus `db:"status"`
	HolderID      *uuid.UUID `db:"holder_id"`
	HeldUntil     *time.Time `db:"held_until"`
	ReservationID *uuid.UUID `db:"reservation_id"`
	Revision      int64      `db:"revision"`
}

// HoldExpired reports whether the slot is held but its deadline has lapsed.
// Expired holds count as available everywhere: they lose races for the slot
// and never block a competing hold.
func (s *TimeSlot) HoldExpired(now time.Time) bool {
	return s.Status == SlotStatusHeld && s.HeldUntil != nil && !s.HeldUntil.After(now)
}

// EffectiveStatus is the status after lazy expiry.
func (s *TimeSlot) EffectiveStatus(now time.Time) SlotStatus {
	if s.HoldExpired(now) {
		return SlotStatusAvailable
	}
	return s.Status
}

// HeldBy reports whether userID owns a live hold on the slot.
func (s *TimeSlot) HeldBy(userID uuid.UUID, now time.Time) bool {
	if s.Status != SlotStatusHeld || s.HolderID == nil {
		return false
	}
	return *s.HolderID == userID && !s.HoldExpired(now)
}
