package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NonceStore holds single-use login challenge messages keyed by
// wallet address.
type NonceStore interface {
	Put(ctx context.Context, address, message string, ttl time.Duration) error
	// Take consumes and returns the stored message, or "" when none
	// was issued.
	Take(ctx context.Context, address string) (string, error)
}

// SessionRevocationStore is a fast-path cache consulted on refresh so
// a revoked session is rejected before the database round trip.
type SessionRevocationStore interface {
	MarkRevoked(ctx context.Context, sessionID uuid.UUID, expiresAt time.Time) error
	IsRevoked(ctx context.Context, sessionID uuid.UUID) (bool, error)
}
