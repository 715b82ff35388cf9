package entity

import "errors"

// Expected outcomes of slot/cart operations. Callers branch on these with
// errors.Is; anything else is an infrastructure failure.
var (
	ErrSlotConflict    = errors.New("slot state changed concurrently")
	ErrNotHolder       = errors.New("slot is not held by this user")
	ErrHoldExpired     = errors.New("hold expired")
	ErrUnauthenticated = errors.New("no authenticated user")
	ErrNotFound        = errors.New("not found")
)
