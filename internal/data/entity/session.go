package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is issued by the external identity service; this service only
// resolves tokens to user IDs.
type Session struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	Token     string     `db:"token"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}
