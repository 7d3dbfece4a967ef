package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chainwiki/auth-service/internal/domain"
	"github.com/chainwiki/auth-service/internal/ports"
)

type sessionRepository struct {
	db *gorm.DB
}

func (r *sessionRepository) Create(ctx context.Context, params ports.SessionCreateParams) (domain.Session, error) {
	rec := sessionModel{
		UserID:           params.UserID,
		RefreshTokenHash: params.RefreshTokenHash,
		UserAgent:        params.UserAgent,
		IPAddress:        nullableString(params.IPAddress),
		Active:           true,
		CreatedAt:        params.LastActiveAt,
		LastActiveAt:     params.LastActiveAt,
		ExpiresAt:        params.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Session{}, domain.ErrConflict
		}
		return domain.Session{}, err
	}
	return toDomainSession(rec), nil
}

// FindByTokenHash never hides the row behind a "not found": a revoked
// or expired session must be distinguishable from one that never
// existed, so the state is reported alongside the record.
func (r *sessionRepository) FindByTokenHash(ctx context.Context, tokenHash string, now time.Time) (domain.Session, domain.SessionState, error) {
	var rec sessionModel
	if err := r.db.WithContext(ctx).Where("refresh_token_hash = ?", tokenHash).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Session{}, domain.SessionNotFound, nil
		}
		return domain.Session{}, domain.SessionNotFound, err
	}
	session := toDomainSession(rec)
	switch {
	case !rec.Active:
		return session, domain.SessionRevoked, nil
	case !now.Before(rec.ExpiresAt):
		return session, domain.SessionExpired, nil
	default:
		return session, domain.SessionValid, nil
	}
}

func (r *sessionRepository) GetByID(ctx context.Context, sessionID uuid.UUID) (domain.Session, error) {
	var rec sessionModel
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Session{}, domain.ErrNotFound
		}
		return domain.Session{}, err
	}
	return toDomainSession(rec), nil
}

func (r *sessionRepository) ListActive(ctx context.Context, userID uuid.UUID, now time.Time) ([]domain.Session, error) {
	var recs []sessionModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND active = ? AND expires_at > ?", userID, true, now).
		Order("last_active_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	sessions := make([]domain.Session, 0, len(recs))
	for _, rec := range recs {
		sessions = append(sessions, toDomainSession(rec))
	}
	return sessions, nil
}

func (r *sessionRepository) Touch(ctx context.Context, sessionID uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("session_id = ?", sessionID).
		Update("last_active_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Deactivate is idempotent. Revoking an already-revoked session is a
// no-op success so logout never fails on retry.
func (r *sessionRepository) Deactivate(ctx context.Context, sessionID uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]any{
			"active":         false,
			"last_active_at": at,
		})
	return res.Error
}

func (r *sessionRepository) DeactivateAll(ctx context.Context, userID uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("user_id = ? AND active = ?", userID, true).
		Updates(map[string]any{
			"active":         false,
			"last_active_at": at,
		})
	return res.Error
}
