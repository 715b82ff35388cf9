package repository

import (
	"context"
	"fmt"

	"field-booking/internal/data/entity"
	"field-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	// Delete backs out a reservation whose slot commit lost the race.
	Delete(ctx context.Context, id uuid.UUID) error
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Reservation, error)
}

type reservationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReservationRepository(db database.PgxIface, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

func (r *reservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	query := `
		INSERT INTO reservations (id, user_id, time_slot_id, field_id, amount_paid, payment_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		reservation.ID,
		reservation.UserID,
		reservation.TimeSlotID,
		reservation.FieldID,
		reservation.AmountPaid,
		reservation.PaymentID,
		reservation.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create reservation",
			zap.Error(err),
			zap.String("reservation_id", reservation.ID.String()),
			zap.String("user_id", reservation.UserID.String()),
		)
		return fmt.Errorf("create reservation %s: %w", reservation.ID.String(), err)
	}

	return nil
}

func (r *reservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM reservations WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete reservation",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return fmt.Errorf("delete reservation %s: %w", id.String(), err)
	}

	return nil
}

func (r *reservationRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Reservation, error) {
	query := `
		SELECT id, user_id, time_slot_id, field_id, amount_paid, payment_id, created_at
		FROM reservations
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find reservations by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find reservations for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var reservations []*entity.Reservation
	for rows.Next() {
		var reservation entity.Reservation
		err := rows.Scan(
			&reservation.ID,
			&reservation.UserID,
			&reservation.TimeSlotID,
			&reservation.FieldID,
			&reservation.AmountPaid,
			&reservation.PaymentID,
			&reservation.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan reservation row", zap.Error(err))
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, &reservation)
	}

	return reservations, nil
}
