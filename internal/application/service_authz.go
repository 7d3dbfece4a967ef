package application

import (
	"github.com/chainwiki/auth-service/internal/domain"
	"github.com/chainwiki/auth-service/internal/ports"
)

// Authorize is the authorization gate: it resolves authentication
// state from a raw access token and enforces a minimum-role
// requirement. It is side-effect free and never consults the session
// store; recovery from an expired token is the caller's job.
func (s *Service) Authorize(accessToken string, requiredRole *domain.Role) (ports.AuthClaims, error) {
	if accessToken == "" {
		return ports.AuthClaims{}, domain.ErrMissingCredentials
	}
	claims, err := s.tokens.Verify(accessToken)
	if err != nil {
		return ports.AuthClaims{}, err
	}
	// A refresh token must never work as a bearer credential.
	if claims.TokenType != ports.TokenTypeAccess {
		return ports.AuthClaims{}, domain.ErrWrongTokenType
	}
	if requiredRole != nil && !claims.Role.Satisfies(*requiredRole) {
		return ports.AuthClaims{}, domain.ErrInsufficientRole
	}
	return claims, nil
}
