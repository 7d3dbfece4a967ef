package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chainwiki/auth-service/internal/domain"
)

// CreateUserParams captures first-login user creation inputs.
// Address must already be normalized.
type CreateUserParams struct {
	Address   string
	Role      domain.Role
	CreatedAt time.Time
}

// ProfileUpdate carries optional profile mutations; nil fields are
// left untouched.
type ProfileUpdate struct {
	DisplayName *string
	Email       *string
}

// UserRepository defines persistence for wallet identities. Users are
// never hard-deleted here; role and profile changes are single-row
// writes keyed by primary key.
type UserRepository interface {
	Create(ctx context.Context, params CreateUserParams) (domain.User, error)
	GetByAddress(ctx context.Context, address string) (domain.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error)
	TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate, at time.Time) (domain.User, error)
	UpdateRole(ctx context.Context, userID uuid.UUID, role domain.Role, at time.Time) (domain.User, error)
}

// SessionCreateParams captures metadata stored with a new session.
// The refresh token is stored as a one-way hash, never raw.
type SessionCreateParams struct {
	UserID           uuid.UUID
	RefreshTokenHash string
	UserAgent        string
	IPAddress        string
	ExpiresAt        time.Time
	LastActiveAt     time.Time
}

// SessionRepository manages persistent session lifecycle. It is the
// enforcement point for "is this refresh token still good",
// independent of the token's own cryptographic expiry. Both gates
// must pass for a refresh to succeed.
type SessionRepository interface {
	Create(ctx context.Context, params SessionCreateParams) (domain.Session, error)
	// FindByTokenHash reports the session and its tagged state. The
	// error return is reserved for persistence failures.
	FindByTokenHash(ctx context.Context, tokenHash string, now time.Time) (domain.Session, domain.SessionState, error)
	GetByID(ctx context.Context, sessionID uuid.UUID) (domain.Session, error)
	ListActive(ctx context.Context, userID uuid.UUID, now time.Time) ([]domain.Session, error)
	Touch(ctx context.Context, sessionID uuid.UUID, at time.Time) error
	// Deactivate is idempotent: deactivating an already-inactive
	// session succeeds without error.
	Deactivate(ctx context.Context, sessionID uuid.UUID, at time.Time) error
	// DeactivateAll runs as a single bulk update, not a per-row loop.
	DeactivateAll(ctx context.Context, userID uuid.UUID, at time.Time) error
}
