package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// GetUserIDFromContext resolves the acting user set by the auth middleware.
// Every mutating cart/checkout operation requires it.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userIDVal := ctx.Value(UserIDKey)
	if userIDVal == nil {
		return uuid.Nil, false
	}

	userIDStr, ok := userIDVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}

	return userID, true
}

func SetUserContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID.String())
}
