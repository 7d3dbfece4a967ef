package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/chainwiki/auth-service/internal/domain"
)

type ChallengeResponse struct {
	Address   string    `json:"address"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

type LoginRequest struct {
	Address   string `json:"address"`
	Signature string `json:"signature,omitempty"`
	Message   string `json:"message,omitempty"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResult carries the raw tokens for the transport layer to place
// into cookies. Handlers must never echo them in a response body.
type LoginResult struct {
	User         UserProfile
	AccessToken  string
	RefreshToken string
	SessionID    uuid.UUID
}

type RefreshResult struct {
	AccessToken string
	ExpiresIn   int64
	Claims      struct {
		UserID  uuid.UUID
		Address string
		Role    domain.Role
	}
}

type UserProfile struct {
	UserID      uuid.UUID   `json:"user_id"`
	Address     string      `json:"address"`
	DisplayName string      `json:"display_name,omitempty"`
	Email       string      `json:"email,omitempty"`
	Role        domain.Role `json:"role"`
	CreatedAt   time.Time   `json:"created_at"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
}

type ProfileUpdateRequest struct {
	DisplayName *string `json:"display_name"`
	Email       *string `json:"email"`
}

type SessionItem struct {
	SessionID    uuid.UUID `json:"session_id"`
	UserAgent    string    `json:"user_agent,omitempty"`
	IPAddress    string    `json:"ip_address,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	IsCurrent    bool      `json:"is_current"`
}

func toUserProfile(u domain.User) UserProfile {
	return UserProfile{
		UserID:      u.UserID,
		Address:     u.Address,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

func toSessionItem(s domain.Session, currentSessionID uuid.UUID) SessionItem {
	return SessionItem{
		SessionID:    s.SessionID,
		UserAgent:    s.UserAgent,
		IPAddress:    s.IPAddress,
		CreatedAt:    s.CreatedAt,
		LastActiveAt: s.LastActiveAt,
		ExpiresAt:    s.ExpiresAt,
		IsCurrent:    s.SessionID == currentSessionID,
	}
}
