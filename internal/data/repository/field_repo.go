package repository

import (
	"context"
	"fmt"

	"field-booking/internal/data/entity"
	"field-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// FieldRepository is a read-only view of the catalog; field CRUD lives in
// the catalog service.
type FieldRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Field, error)
}

type fieldRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewFieldRepository(db database.PgxIface, log *zap.Logger) FieldRepository {
	return &fieldRepository{
		db:  db,
		log: log.With(zap.String("repository", "field")),
	}
}

func (r *fieldRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Field, error) {
	query := `
		SELECT id, name, city, category, price_per_hour, open_hour, close_hour, created_at, updated_at
		FROM fields
		WHERE id = $1
	`

	var field entity.Field
	err := r.db.QueryRow(ctx, query, id).Scan(
		&field.ID,
		&field.Name,
		&field.City,
		&field.Category,
		&field.PricePerHour,
		&field.OpenHour,
		&field.CloseHour,
		&field.CreatedAt,
		&field.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find field by ID",
			zap.Error(err),
			zap.String("field_id", id.String()),
		)
		return nil, fmt.Errorf("find field by ID %s: %w", id.String(), err)
	}

	return &field, nil
}
