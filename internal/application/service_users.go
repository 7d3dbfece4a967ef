package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/chainwiki/auth-service/internal/domain"
	"github.com/chainwiki/auth-service/internal/ports"
)

// UpdateProfile mutates the caller's own display name and/or email.
// Claims arrive pre-verified from the transport gate.
func (s *Service) UpdateProfile(ctx context.Context, claims ports.AuthClaims, req ProfileUpdateRequest) (UserProfile, error) {
	if req.DisplayName == nil && req.Email == nil {
		return UserProfile{}, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	if req.Email != nil {
		trimmed := strings.TrimSpace(*req.Email)
		req.Email = &trimmed
	}

	user, err := s.users.UpdateProfile(ctx, claims.UserID, profileUpdate(req), s.nowFn())
	if err != nil {
		return UserProfile{}, fmt.Errorf("update profile: %w", err)
	}
	return toUserProfile(user), nil
}

// UpdateRole changes another user's role. Admin only; the check is
// repeated here so the rule holds even for callers that bypass the
// transport middleware. The new role takes effect in tokens issued by
// the target's next login; already-issued tokens keep their role claim
// until expiry.
func (s *Service) UpdateRole(ctx context.Context, claims ports.AuthClaims, targetID uuid.UUID, rawRole string) (UserProfile, error) {
	if !claims.Role.Satisfies(domain.RoleAdmin) {
		return UserProfile{}, domain.ErrInsufficientRole
	}
	role, err := domain.ParseRole(rawRole)
	if err != nil {
		return UserProfile{}, err
	}

	user, err := s.users.UpdateRole(ctx, targetID, role, s.nowFn())
	if err != nil {
		return UserProfile{}, err
	}
	return toUserProfile(user), nil
}
