package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chainwiki/auth-service/internal/domain"
	"github.com/chainwiki/auth-service/internal/ports"
)

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, params ports.CreateUserParams) (domain.User, error) {
	rec := userModel{
		Address:     params.Address,
		DisplayName: params.Address,
		Role:        string(params.Role),
		CreatedAt:   params.CreatedAt,
		UpdatedAt:   params.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("%w: address already registered", domain.ErrConflict)
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) GetByAddress(ctx context.Context, address string) (domain.User, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).Where("address = ?", address).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"last_login_at": at,
			"updated_at":    at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, update ports.ProfileUpdate, at time.Time) (domain.User, error) {
	fields := map[string]any{"updated_at": at}
	if update.DisplayName != nil {
		fields["display_name"] = *update.DisplayName
	}
	if update.Email != nil {
		fields["email"] = *update.Email
	}
	res := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("user_id = ?", userID).
		Updates(fields)
	if res.Error != nil {
		return domain.User{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.User{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, userID)
}

func (r *userRepository) UpdateRole(ctx context.Context, userID uuid.UUID, role domain.Role, at time.Time) (domain.User, error) {
	res := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"role":       string(role),
			"updated_at": at,
		})
	if res.Error != nil {
		return domain.User{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.User{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, userID)
}
