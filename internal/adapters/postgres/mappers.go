package postgres

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/chainwiki/auth-service/internal/domain"
)

func toDomainUser(m userModel) domain.User {
	return domain.User{
		UserID:      m.UserID,
		Address:     m.Address,
		DisplayName: m.DisplayName,
		Email:       m.Email,
		Role:        domain.Role(m.Role),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		LastLoginAt: m.LastLoginAt,
	}
}

func toDomainSession(m sessionModel) domain.Session {
	ip := ""
	if m.IPAddress != nil {
		ip = *m.IPAddress
	}
	return domain.Session{
		SessionID:    m.SessionID,
		UserID:       m.UserID,
		UserAgent:    m.UserAgent,
		IPAddress:    ip,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
		LastActiveAt: m.LastActiveAt,
		ExpiresAt:    m.ExpiresAt,
	}
}

func nullableString(v string) *string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
