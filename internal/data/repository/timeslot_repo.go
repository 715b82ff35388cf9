package repository

import (
	"context"
	"fmt"
	"time"

	"field-booking/internal/data/entity"
	"field-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// TimeSlotRepository is the authoritative slot store. All mutating methods
// are compare-and-swap on the revision the caller last read: zero rows
// affected means the transition lost a race or the source state was wrong,
// reported as entity.ErrSlotConflict. The caller decides whether to retry
// or surface the failure; the store never retries.
type TimeSlotRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.TimeSlot, error)
	FindByFieldAndDate(ctx context.Context, fieldID uuid.UUID, day time.Time) ([]*entity.TimeSlot, error)

	// Hold transitions available -> held. A lapsed hold counts as available,
	// so a competing hold may take over an expired slot directly.
	Hold(ctx context.Context, slotID, userID uuid.UUID, heldUntil, now time.Time, expectedRev int64) error

	// Release transitions held -> available, only for the current holder.
	Release(ctx context.Context, slotID, userID uuid.UUID, expectedRev int64) error

	// Book transitions held -> booked, only for the current holder and only
	// while the hold deadline has not lapsed. Clears the holder and sets the
	// reservation reference.
	Book(ctx context.Context, slotID, userID, reservationID uuid.UUID, now time.Time, expectedRev int64) error

	// ReleaseExpired frees every lapsed hold and returns the distinct field
	// IDs that were touched, for change notification.
	ReleaseExpired(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

type timeSlotRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTimeSlotRepository(db database.PgxIface, log *zap.Logger) TimeSlotRepository {
	return &timeSlotRepository{
		db:  db,
		log: log.With(zap.String("repository", "timeslot")),
	}
}

const slotColumns = `id, field_id, start_at, price, status, holder_id, held_until, reservation_id, revision, created_at, updated_at`

func scanSlot(row pgx.Row) (*entity.TimeSlot, error) {
	var slot entity.TimeSlot
	err := row.Scan(
		&slot.ID,
		&slot.FieldID,
		&slot.StartAt,
		&slot.Price,
		&slot.Status,
		&slot.HolderID,
		&slot.HeldUntil,
		&slot.ReservationID,
		&slot.Revision,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *timeSlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.TimeSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM time_slots WHERE id = $1`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find time slot by ID",
			zap.Error(err),
			zap.String("slot_id", id.String()),
		)
		return nil, fmt.Errorf("find time slot by ID %s: %w", id.String(), err)
	}

	return slot, nil
}

func (r *timeSlotRepository) FindByFieldAndDate(ctx context.Context, fieldID uuid.UUID, day time.Time) ([]*entity.TimeSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM time_slots
		WHERE field_id = $1 AND start_at >= $2 AND start_at < $3
		ORDER BY start_at
	`

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	rows, err := r.db.Query(ctx, query, fieldID, dayStart, dayEnd)
	if err != nil {
		r.log.Error("Failed to find time slots by field and date",
			zap.Error(err),
			zap.String("field_id", fieldID.String()),
			zap.Time("day", dayStart),
		)
		return nil, fmt.Errorf("find time slots for field %s: %w", fieldID.String(), err)
	}
	defer rows.Close()

	var slots []*entity.TimeSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			r.log.Error("Failed to scan time slot row", zap.Error(err))
			return nil, fmt.Errorf("scan time slot row: %w", err)
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

func (r *timeSlotRepository) Hold(ctx context.Context, slotID, userID uuid.UUID, heldUntil, now time.Time, expectedRev int64) error {
	query := `
		UPDATE time_slots
		SET status = 'held', holder_id = $2, held_until = $3, reservation_id = NULL,
		    revision = revision + 1, updated_at = NOW()
		WHERE id = $1 AND revision = $5
		  AND (status = 'available' OR (status = 'held' AND held_until <= $4))
	`

	result, err := r.db.Exec(ctx, query, slotID, userID, heldUntil, now, expectedRev)
	if err != nil {
		r.log.Error("Failed to hold time slot",
			zap.Error(err),
			zap.String("slot_id", slotID.String()),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("hold time slot %s: %w", slotID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrSlotConflict
	}

	return nil
}

func (r *timeSlotRepository) Release(ctx context.Context, slotID, userID uuid.UUID, expectedRev int64) error {
	query := `
		UPDATE time_slots
		SET status = 'available', holder_id = NULL, held_until = NULL,
		    revision = revision + 1, updated_at = NOW()
		WHERE id = $1 AND revision = $3 AND status = 'held' AND holder_id = $2
	`

	result, err := r.db.Exec(ctx, query, slotID, userID, expectedRev)
	if err != nil {
		r.log.Error("Failed to release time slot",
			zap.Error(err),
			zap.String("slot_id", slotID.String()),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("release time slot %s: %w", slotID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrSlotConflict
	}

	return nil
}

func (r *timeSlotRepository) Book(ctx context.Context, slotID, userID, reservationID uuid.UUID, now time.Time, expectedRev int64) error {
	query := `
		UPDATE time_slots
		SET status = 'booked', reservation_id = $3, holder_id = NULL, held_until = NULL,
		    revision = revision + 1, updated_at = NOW()
		WHERE id = $1 AND revision = $5
		  AND status = 'held' AND holder_id = $2 AND held_until > $4
	`

	result, err := r.db.Exec(ctx, query, slotID, userID, reservationID, now, expectedRev)
	if err != nil {
		r.log.Error("Failed to book time slot",
			zap.Error(err),
			zap.String("slot_id", slotID.String()),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("book time slot %s: %w", slotID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrSlotConflict
	}

	return nil
}

func (r *timeSlotRepository) ReleaseExpired(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	query := `
		UPDATE time_slots
		SET status = 'available', holder_id = NULL, held_until = NULL,
		    revision = revision + 1, updated_at = NOW()
		WHERE status = 'held' AND held_until <= $1
		RETURNING field_id
	`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		r.log.Error("Failed to release expired holds", zap.Error(err))
		return nil, fmt.Errorf("release expired holds: %w", err)
	}
	defer rows.Close()

	seen := make(map[uuid.UUID]struct{})
	var fieldIDs []uuid.UUID
	for rows.Next() {
		var fieldID uuid.UUID
		if err := rows.Scan(&fieldID); err != nil {
			r.log.Error("Failed to scan released field ID", zap.Error(err))
			return nil, fmt.Errorf("scan released field ID: %w", err)
		}
		if _, ok := seen[fieldID]; ok {
			continue
		}
		seen[fieldID] = struct{}{}
		fieldIDs = append(fieldIDs, fieldID)
	}

	if len(fieldIDs) > 0 {
		r.log.Info("Released expired holds", zap.Int("fields_touched", len(fieldIDs)))
	}

	return fieldIDs, nil
}
