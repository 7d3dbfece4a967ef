package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/chainwiki/auth-service/internal/domain"
	"github.com/chainwiki/auth-service/internal/ports"
)

// clockSkewLeeway absorbs server-clock drift between issuing and
// verifying hosts.
const clockSkewLeeway = 60 * time.Second

// TokenService implements HS256 signing/parsing for both token
// classes. The secret is held at adapter level so the application
// layer stays crypto-library agnostic.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	nowFn      func() time.Time
}

// NewTokenService builds a signer from a symmetric secret and the
// per-class TTLs.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token ttls must be positive")
	}
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		nowFn:      func() time.Time { return time.Now().UTC() },
	}, nil
}

type walletJWTClaims struct {
	Address string `json:"address"`
	Role    string `json:"role"`
	Type    string `json:"type"`
	jwt.RegisteredClaims
}

func (s *TokenService) IssueAccessToken(claims ports.AuthClaims) (string, error) {
	return s.sign(claims, ports.TokenTypeAccess, s.accessTTL, "")
}

// IssueRefreshToken additionally stamps a unique token id (jti) so a
// refresh token can be tied to exactly one session record.
func (s *TokenService) IssueRefreshToken(claims ports.AuthClaims) (string, error) {
	return s.sign(claims, ports.TokenTypeRefresh, s.refreshTTL, uuid.NewString())
}

func (s *TokenService) sign(claims ports.AuthClaims, tokenType string, ttl time.Duration, tokenID string) (string, error) {
	now := s.nowFn()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, walletJWTClaims{
		Address: claims.Address,
		Role:    string(claims.Role),
		Type:    tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID.String(),
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(s.secret)
}

// Verify checks signature validity and expiry with clock-skew leeway.
// It deliberately does NOT check the type claim; callers assert the
// expected type after verification.
func (s *TokenService) Verify(raw string) (ports.AuthClaims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &walletJWTClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(clockSkewLeeway))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ports.AuthClaims{}, domain.ErrTokenExpired
		}
		return ports.AuthClaims{}, domain.ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*walletJWTClaims)
	if !ok || !parsed.Valid {
		return ports.AuthClaims{}, domain.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ports.AuthClaims{}, domain.ErrInvalidToken
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return ports.AuthClaims{}, domain.ErrInvalidToken
	}

	out := ports.AuthClaims{
		UserID:    userID,
		Address:   claims.Address,
		Role:      role,
		TokenType: claims.Type,
		TokenID:   claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return out, nil
}
