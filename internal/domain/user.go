package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the wallet-bound identity aggregate.
// The address is the login credential; roles gate everything else.
type User struct {
	UserID      uuid.UUID
	Address     string
	DisplayName string
	Email       string
	Role        Role
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt *time.Time
}

// Session models one browser/device login. It is bound to exactly one
// refresh token and is revocable independently of token expiry. Rows
// are soft-deleted (active=false) to preserve audit history.
type Session struct {
	SessionID    uuid.UUID
	UserID       uuid.UUID
	UserAgent    string
	IPAddress    string
	Active       bool
	CreatedAt    time.Time
	LastActiveAt time.Time
	ExpiresAt    time.Time
}

// SessionState is the tagged result of a refresh-token lookup. The
// distinction matters: a cryptographically valid refresh token whose
// session is revoked must be rejected differently from one that was
// never issued.
type SessionState int

const (
	SessionNotFound SessionState = iota
	SessionValid
	SessionExpired
	SessionRevoked
)

var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// NormalizeAddress canonicalizes a wallet address to lowercase hex.
// Addresses are case-insensitively unique, so every persistence and
// comparison path goes through this.
func NormalizeAddress(address string) (string, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return "", fmt.Errorf("%w: address is required", ErrInvalidInput)
	}
	if !addressPattern.MatchString(trimmed) {
		return "", fmt.Errorf("%w: invalid wallet address", ErrInvalidInput)
	}
	return strings.ToLower(trimmed), nil
}
