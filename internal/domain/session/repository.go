package session

import (
	"context"
	"time"
)

// Repository enforces one session per (user, date, mode).
type Repository interface {
	// GetByKey is an exact-match lookup on the composite key.
	GetByKey(ctx context.Context, userID string, date time.Time, isSeries bool) (Session, bool, error)
	// Create persists the session row and its game membership links as one
	// atomic unit. A concurrent duplicate surfaces as ErrDuplicate, never as a
	// silent overwrite.
	Create(ctx context.Context, sess Session) error
}
