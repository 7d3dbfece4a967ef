package postgres

import (
	"gorm.io/gorm"

	"github.com/chainwiki/auth-service/internal/ports"
)

type Repositories struct {
	Users    ports.UserRepository
	Sessions ports.SessionRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:    &userRepository{db: db},
		Sessions: &sessionRepository{db: db},
	}
}
