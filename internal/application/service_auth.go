package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainwiki/auth-service/internal/domain"
	"github.com/chainwiki/auth-service/internal/ports"
)

// Challenge issues a single-use login message for the address. The
// wallet signs exactly this message; login consumes it.
func (s *Service) Challenge(ctx context.Context, address string) (ChallengeResponse, error) {
	addr, err := domain.NormalizeAddress(address)
	if err != nil {
		return ChallengeResponse{}, err
	}

	now := s.nowFn()
	message := fmt.Sprintf("chainwiki login\naddress: %s\nnonce: %s\nissued: %s",
		addr, randomHex(16), now.Format("2006-01-02T15:04:05Z"))
	if err := s.nonces.Put(ctx, addr, message, s.cfg.NonceTTL); err != nil {
		return ChallengeResponse{}, fmt.Errorf("store login nonce: %w", err)
	}

	return ChallengeResponse{
		Address:   addr,
		Message:   message,
		ExpiresAt: now.Add(s.cfg.NonceTTL),
	}, nil
}

// Login verifies the wallet signature, upserts the user, issues both
// token classes, and creates the session record. Session bookkeeping
// failure is logged but not fatal: the cookies still authenticate the
// user, trading strict consistency for availability.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	addr, err := domain.NormalizeAddress(req.Address)
	if err != nil {
		return LoginResult{}, err
	}

	signed := req.Signature != "" && req.Message != ""
	if !signed && s.cfg.RequireSignedLogin {
		return LoginResult{}, fmt.Errorf("%w: signed login required", domain.ErrInvalidSignature)
	}
	if signed {
		if issued, nonceErr := s.nonces.Take(ctx, addr); nonceErr != nil {
			authLogger().WarnContext(ctx, "nonce store unavailable",
				"operation", "login",
				"outcome", "warning",
				"address", addr,
				"error", nonceErr,
			)
		} else if issued != "" && issued != req.Message {
			return LoginResult{}, fmt.Errorf("%w: message does not match issued challenge", domain.ErrInvalidSignature)
		}
		if !s.wallet.Verify(addr, req.Signature, req.Message) {
			return LoginResult{}, domain.ErrInvalidSignature
		}
	}

	now := s.nowFn()
	user, err := s.users.GetByAddress(ctx, addr)
	switch {
	case err == nil:
		if touchErr := s.users.TouchLastLogin(ctx, user.UserID, now); touchErr != nil {
			authLogger().WarnContext(ctx, "failed to update last login",
				"operation", "login",
				"outcome", "warning",
				"user_id", user.UserID,
				"error", touchErr,
			)
		} else {
			user.LastLoginAt = &now
		}
	case errors.Is(err, domain.ErrNotFound):
		user, err = s.users.Create(ctx, ports.CreateUserParams{
			Address:   addr,
			Role:      s.cfg.DefaultRole,
			CreatedAt: now,
		})
		if err != nil && errors.Is(err, domain.ErrConflict) {
			// concurrent first login for the same address
			user, err = s.users.GetByAddress(ctx, addr)
		}
		if err != nil {
			return LoginResult{}, fmt.Errorf("create user: %w", err)
		}
	default:
		return LoginResult{}, fmt.Errorf("lookup user: %w", err)
	}

	claims := ports.AuthClaims{
		UserID:  user.UserID,
		Address: user.Address,
		Role:    user.Role,
	}
	accessToken, err := s.tokens.IssueAccessToken(claims)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, err := s.tokens.IssueRefreshToken(claims)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign refresh token: %w", err)
	}

	result := LoginResult{
		User:         toUserProfile(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}

	session, err := s.sessions.Create(ctx, ports.SessionCreateParams{
		UserID:           user.UserID,
		RefreshTokenHash: hashToken(refreshToken),
		UserAgent:        req.UserAgent,
		IPAddress:        req.IPAddress,
		ExpiresAt:        now.Add(s.cfg.RefreshTokenTTL),
		LastActiveAt:     now,
	})
	if err != nil {
		authLogger().ErrorContext(ctx, "session create failed, continuing login",
			"operation", "login",
			"outcome", "degraded",
			"user_id", user.UserID,
			"error", err,
		)
		return result, nil
	}
	result.SessionID = session.SessionID
	return result, nil
}

// Refresh mints a new access token from a session-backed refresh
// token. Two independent gates must agree: the token's own signature
// and expiry, and the session record's active/expiry state. The
// refresh token itself is not rotated.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (RefreshResult, error) {
	if refreshToken == "" {
		return RefreshResult{}, domain.ErrMissingCredentials
	}
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return RefreshResult{}, err
	}
	if claims.TokenType != ports.TokenTypeRefresh {
		return RefreshResult{}, domain.ErrWrongTokenType
	}

	session, err := s.requireLiveSession(ctx, refreshToken)
	if err != nil {
		return RefreshResult{}, err
	}

	now := s.nowFn()
	if touchErr := s.sessions.Touch(ctx, session.SessionID, now); touchErr != nil {
		authLogger().WarnContext(ctx, "failed to touch session activity",
			"operation", "refresh",
			"outcome", "warning",
			"session_id", session.SessionID,
			"error", touchErr,
		)
	}

	accessToken, err := s.tokens.IssueAccessToken(ports.AuthClaims{
		UserID:  claims.UserID,
		Address: claims.Address,
		Role:    claims.Role,
	})
	if err != nil {
		return RefreshResult{}, fmt.Errorf("sign refreshed access token: %w", err)
	}

	result := RefreshResult{
		AccessToken: accessToken,
		ExpiresIn:   int64(s.cfg.AccessTokenTTL.Seconds()),
	}
	result.Claims.UserID = claims.UserID
	result.Claims.Address = claims.Address
	result.Claims.Role = claims.Role
	return result, nil
}

// Logout deactivates the session behind the refresh token. Every
// failure is swallowed: from the caller's perspective logout always
// succeeds, and the transport clears cookies unconditionally.
func (s *Service) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil || claims.TokenType != ports.TokenTypeRefresh {
		return
	}

	session, state, err := s.sessions.FindByTokenHash(ctx, hashToken(refreshToken), s.nowFn())
	if err != nil || state == domain.SessionNotFound {
		if err != nil {
			authLogger().WarnContext(ctx, "session lookup failed during logout",
				"operation", "logout",
				"outcome", "warning",
				"user_id", claims.UserID,
				"error", err,
			)
		}
		return
	}

	now := s.nowFn()
	if err := s.sessions.Deactivate(ctx, session.SessionID, now); err != nil {
		authLogger().WarnContext(ctx, "session deactivate failed during logout",
			"operation", "logout",
			"outcome", "warning",
			"session_id", session.SessionID,
			"error", err,
		)
		return
	}
	_ = s.revocations.MarkRevoked(ctx, session.SessionID, session.ExpiresAt)
}

// WhoAmI resolves a fresh user profile for already-verified claims.
// The transport runs the token through Authorize first; this only does
// the database read, so a deleted user surfaces as an invalid token.
func (s *Service) WhoAmI(ctx context.Context, claims ports.AuthClaims) (UserProfile, error) {
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return UserProfile{}, domain.ErrInvalidToken
		}
		return UserProfile{}, fmt.Errorf("load profile: %w", err)
	}
	return toUserProfile(user), nil
}

// requireLiveSession enforces the session-record gate for a refresh
// token: the row must exist, be active, be unexpired, and not sit in
// the revocation cache.
func (s *Service) requireLiveSession(ctx context.Context, refreshToken string) (domain.Session, error) {
	session, state, err := s.sessions.FindByTokenHash(ctx, hashToken(refreshToken), s.nowFn())
	if err != nil {
		return domain.Session{}, fmt.Errorf("lookup session: %w", err)
	}
	switch state {
	case domain.SessionValid:
	case domain.SessionExpired:
		return domain.Session{}, domain.ErrSessionExpired
	case domain.SessionRevoked:
		return domain.Session{}, domain.ErrSessionInactive
	default:
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if revoked, _ := s.revocations.IsRevoked(ctx, session.SessionID); revoked {
		return domain.Session{}, domain.ErrSessionInactive
	}
	return session, nil
}
