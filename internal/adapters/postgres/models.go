package postgres

import (
	"time"

	"github.com/google/uuid"
)

type userModel struct {
	UserID      uuid.UUID  `gorm:"column:user_id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Address     string     `gorm:"column:address;uniqueIndex;not null"`
	DisplayName string     `gorm:"column:display_name;not null"`
	Email       string     `gorm:"column:email;not null;default:''"`
	Role        string     `gorm:"column:role;not null"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;not null"`
	LastLoginAt *time.Time `gorm:"column:last_login_at"`
}

func (userModel) TableName() string { return "users" }

type sessionModel struct {
	SessionID        uuid.UUID  `gorm:"column:session_id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID           uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	RefreshTokenHash string     `gorm:"column:refresh_token_hash;uniqueIndex;not null"`
	UserAgent        string     `gorm:"column:user_agent;not null;default:''"`
	IPAddress        *string    `gorm:"column:ip_address"`
	Active           bool       `gorm:"column:active;not null;default:true"`
	CreatedAt        time.Time  `gorm:"column:created_at;not null"`
	LastActiveAt     time.Time  `gorm:"column:last_active_at;not null"`
	ExpiresAt        time.Time  `gorm:"column:expires_at;not null"`
}

func (sessionModel) TableName() string { return "sessions" }
