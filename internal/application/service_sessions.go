package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/chainwiki/auth-service/internal/domain"
	"github.com/chainwiki/auth-service/internal/ports"
)

// Session management authenticates with the refresh token, not the
// access token: listing and revoking operates at the "who owns this
// refresh token" level, and a revoked-session holder must not manage
// other sessions.

// ListSessions returns the caller's active sessions, newest first.
func (s *Service) ListSessions(ctx context.Context, refreshToken string) ([]SessionItem, error) {
	claims, current, err := s.authenticateRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessions.ListActive(ctx, claims.UserID, s.nowFn())
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	result := make([]SessionItem, 0, len(sessions))
	for _, it := range sessions {
		result = append(result, toSessionItem(it, current.SessionID))
	}
	return result, nil
}

// RevokeSession deactivates one session owned by the caller.
// Deactivation is idempotent; revoking an already-inactive session
// succeeds.
func (s *Service) RevokeSession(ctx context.Context, refreshToken string, sessionID uuid.UUID) error {
	claims, _, err := s.authenticateRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	target, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if target.UserID != claims.UserID {
		// Hide other users' session ids.
		return domain.ErrNotFound
	}

	if err := s.sessions.Deactivate(ctx, sessionID, s.nowFn()); err != nil {
		return fmt.Errorf("deactivate session: %w", err)
	}
	_ = s.revocations.MarkRevoked(ctx, sessionID, target.ExpiresAt)
	return nil
}

// RevokeAllSessions deactivates every session of the caller in one
// bulk write, avoiding partial-failure windows.
func (s *Service) RevokeAllSessions(ctx context.Context, refreshToken string) error {
	claims, current, err := s.authenticateRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	if err := s.sessions.DeactivateAll(ctx, claims.UserID, s.nowFn()); err != nil {
		return fmt.Errorf("deactivate all sessions: %w", err)
	}
	_ = s.revocations.MarkRevoked(ctx, current.SessionID, current.ExpiresAt)
	return nil
}

// authenticateRefresh runs both refresh gates (token + session
// record) and returns the claims together with the caller's session.
func (s *Service) authenticateRefresh(ctx context.Context, refreshToken string) (ports.AuthClaims, domain.Session, error) {
	if refreshToken == "" {
		return ports.AuthClaims{}, domain.Session{}, domain.ErrMissingCredentials
	}
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return ports.AuthClaims{}, domain.Session{}, err
	}
	if claims.TokenType != ports.TokenTypeRefresh {
		return ports.AuthClaims{}, domain.Session{}, domain.ErrWrongTokenType
	}
	session, err := s.requireLiveSession(ctx, refreshToken)
	if err != nil {
		return ports.AuthClaims{}, domain.Session{}, err
	}
	return claims, session, nil
}
