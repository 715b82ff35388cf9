package repository

import (
	"field-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Session     SessionRepository
	Field       FieldRepository
	TimeSlot    TimeSlotRepository
	Cart        CartRepository
	Reservation ReservationRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Session:     NewSessionRepository(db, log),
		Field:       NewFieldRepository(db, log),
		TimeSlot:    NewTimeSlotRepository(db, log),
		Cart:        NewCartRepository(db, log),
		Reservation: NewReservationRepository(db, log),
	}
}
