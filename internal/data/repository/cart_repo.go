package repository

import (
	"context"
	"fmt"

	"field-booking/internal/data/entity"
	"field-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error)
	Insert(ctx context.Context, item *entity.CartItem) error
	// Delete removes one cart entry; removing an absent entry is not an error.
	Delete(ctx context.Context, userID, slotID uuid.UUID) (bool, error)
	DeleteAll(ctx context.Context, userID uuid.UUID) error
}

type cartRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCartRepository(db database.PgxIface, log *zap.Logger) CartRepository {
	return &cartRepository{
		db:  db,
		log: log.With(zap.String("repository", "cart")),
	}
}

func (r *cartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error) {
	query := `
		SELECT user_id, time_slot_id, field_id, field_name, price, slot_start, added_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY slot_start
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find cart items",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find cart items for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var items []*entity.CartItem
	for rows.Next() {
		var item entity.CartItem
		err := rows.Scan(
			&item.UserID,
			&item.TimeSlotID,
			&item.FieldID,
			&item.FieldName,
			&item.Price,
			&item.SlotStart,
			&item.AddedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan cart item row", zap.Error(err))
			return nil, fmt.Errorf("scan cart item row: %w", err)
		}
		items = append(items, &item)
	}

	return items, nil
}

func (r *cartRepository) Insert(ctx context.Context, item *entity.CartItem) error {
	query := `
		INSERT INTO cart_items (user_id, time_slot_id, field_id, field_name, price, slot_start, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		item.UserID,
		item.TimeSlotID,
		item.FieldID,
		item.FieldName,
		item.Price,
		item.SlotStart,
		item.AddedAt,
	)

	if err != nil {
		r.log.Error("Failed to insert cart item",
			zap.Error(err),
			zap.String("user_id", item.UserID.String()),
			zap.String("slot_id", item.TimeSlotID.String()),
		)
		return fmt.Errorf("insert cart item %s: %w", item.TimeSlotID.String(), err)
	}

	return nil
}

func (r *cartRepository) Delete(ctx context.Context, userID, slotID uuid.UUID) (bool, error) {
	query := `DELETE FROM cart_items WHERE user_id = $1 AND time_slot_id = $2`

	result, err := r.db.Exec(ctx, query, userID, slotID)
	if err != nil {
		r.log.Error("Failed to delete cart item",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("slot_id", slotID.String()),
		)
		return false, fmt.Errorf("delete cart item %s: %w", slotID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *cartRepository) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE user_id = $1`

	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to clear cart",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("clear cart for user %s: %w", userID.String(), err)
	}

	return nil
}
