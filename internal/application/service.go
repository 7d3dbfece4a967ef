package application

import (
	"time"

	"github.com/chainwiki/auth-service/internal/domain"
	"github.com/chainwiki/auth-service/internal/ports"
)

// Service orchestrates the auth flows: signed login, token refresh,
// logout, who-am-I, and session management. All session reads and
// writes route through the SessionRepository. No component keeps
// parallel session state.
type Service struct {
	cfg         Config
	users       ports.UserRepository
	sessions    ports.SessionRepository
	nonces      ports.NonceStore
	revocations ports.SessionRevocationStore
	wallet      ports.WalletVerifier
	tokens      ports.TokenIssuer
	nowFn       func() time.Time
}

type Config struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	NonceTTL        time.Duration
	// RequireSignedLogin disables the relaxed mode in which a login
	// without signature/message trusts the address claim. Strict
	// deployments set this.
	RequireSignedLogin bool
	DefaultRole        domain.Role
}

type Dependencies struct {
	Config      Config
	Users       ports.UserRepository
	Sessions    ports.SessionRepository
	Nonces      ports.NonceStore
	Revocations ports.SessionRevocationStore
	Wallet      ports.WalletVerifier
	Tokens      ports.TokenIssuer
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = 15 * time.Minute
	}
	if cfg.RefreshTokenTTL <= 0 {
		cfg.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	if cfg.NonceTTL <= 0 {
		cfg.NonceTTL = 5 * time.Minute
	}
	if cfg.DefaultRole == "" {
		cfg.DefaultRole = domain.RoleViewer
	}
	return &Service{
		cfg:         cfg,
		users:       deps.Users,
		sessions:    deps.Sessions,
		nonces:      deps.Nonces,
		revocations: deps.Revocations,
		wallet:      deps.Wallet,
		tokens:      deps.Tokens,
		nowFn:       func() time.Time { return time.Now().UTC() },
	}
}
