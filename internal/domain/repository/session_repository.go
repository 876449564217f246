package repository

import (
	"context"
	"time"
)

// Session is the server-side record backing an issued token pair
type Session struct {
	UserID    string
	SessionID string
	Email     string
	Name      string
	CreatedAt time.Time
}

type SessionRepository interface {
	Save(ctx context.Context, s Session, ttl time.Duration) error
	// Get returns ErrNotFound when no live session exists for userID
	Get(ctx context.Context, userID string) (*Session, error)
	// Rotate swaps the session id, keeping the remaining fields
	Rotate(ctx context.Context, userID, sessionID string, ttl time.Duration) error
	Delete(ctx context.Context, userID string) error
}
