package ports

import (
	"time"

	"github.com/google/uuid"

	"github.com/chainwiki/auth-service/internal/domain"
)

// Token type claims. A token's declared purpose must match the code
// path presenting it; cryptographic validity alone is not enough.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// AuthClaims is the decoded payload of a verified token.
type AuthClaims struct {
	UserID    uuid.UUID
	Address   string
	Role      domain.Role
	TokenType string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies the two token classes. Verify checks
// signature and expiry only. Asserting the type claim is the caller's
// job, keeping cryptographic validity orthogonal to semantic validity.
type TokenIssuer interface {
	IssueAccessToken(claims AuthClaims) (string, error)
	IssueRefreshToken(claims AuthClaims) (string, error)
	Verify(raw string) (AuthClaims, error)
}

// WalletVerifier checks that a claimed wallet address produced the
// signature over the exact message. Implementations never panic on
// malformed input; any recovery failure is simply false.
type WalletVerifier interface {
	Verify(address, signature, message string) bool
}
