package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/chainwiki/auth-service/internal/adapters/security"
	"github.com/chainwiki/auth-service/internal/application"
	"github.com/chainwiki/auth-service/internal/domain"
	"github.com/chainwiki/auth-service/internal/ports"
)

const testAddress = "0x8ba1f109551bd432803012645ac136ddd64dba72"

func TestLoginCreatesViewerAndSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	res, err := f.service.Login(ctx, application.LoginRequest{
		Address:   testAddress,
		IPAddress: "127.0.0.1",
		UserAgent: "unit-test",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.User.Role != domain.RoleViewer {
		t.Fatalf("first login should create a viewer, got %s", res.User.Role)
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatalf("login must issue both tokens")
	}
	if res.SessionID == uuid.Nil {
		t.Fatalf("login should create a session")
	}
	if got := len(f.sessions.byID); got != 1 {
		t.Fatalf("expected 1 session record, got %d", got)
	}
}

func TestLoginExistingUserTouchesLastLogin(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.Login(ctx, application.LoginRequest{Address: testAddress})
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	second, err := f.service.Login(ctx, application.LoginRequest{Address: testAddress})
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	if first.User.UserID != second.User.UserID {
		t.Fatalf("repeated login must not duplicate the user")
	}
	if second.User.LastLoginAt == nil {
		t.Fatalf("second login should record last_login_at")
	}
	if got := len(f.users.byID); got != 1 {
		t.Fatalf("expected 1 user record, got %d", got)
	}
}

func TestLoginRejectsUnsignedWhenSignatureRequired(t *testing.T) {
	t.Parallel()

	f := newFixtureWithConfig(t, application.Config{RequireSignedLogin: true})
	_, err := f.service.Login(context.Background(), application.LoginRequest{Address: testAddress})
	if !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestLoginRejectsBadSignature(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.wallet.valid = false
	_, err := f.service.Login(context.Background(), application.LoginRequest{
		Address:   testAddress,
		Signature: "0xdead",
		Message:   "chainwiki login",
	})
	if !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestLoginSucceedsWhenSessionStoreFails(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.sessions.failCreate = true

	res, err := f.service.Login(context.Background(), application.LoginRequest{Address: testAddress})
	if err != nil {
		t.Fatalf("login should survive session store failure: %v", err)
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatalf("degraded login must still issue tokens")
	}
	if res.SessionID != uuid.Nil {
		t.Fatalf("degraded login must not report a session id")
	}
}

func TestRefreshKeepsClaimsAndDoesNotRotate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	loginRes, err := f.service.Login(ctx, application.LoginRequest{Address: testAddress})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	refreshRes, err := f.service.Refresh(ctx, loginRes.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if refreshRes.AccessToken == "" {
		t.Fatalf("refresh must issue an access token")
	}
	if refreshRes.Claims.UserID != loginRes.User.UserID {
		t.Fatalf("refresh must preserve the user id claim")
	}
	if refreshRes.Claims.Role != loginRes.User.Role {
		t.Fatalf("refresh must preserve the role claim")
	}

	// Same refresh token keeps working: no rotation.
	if _, err := f.service.Refresh(ctx, loginRes.RefreshToken); err != nil {
		t.Fatalf("second refresh with same token failed: %v", err)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	loginRes, err := f.service.Login(ctx, application.LoginRequest{Address: testAddress})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := f.service.Refresh(ctx, loginRes.AccessToken); !errors.Is(err, domain.ErrWrongTokenType) {
		t.Fatalf("expected ErrWrongTokenType, got %v", err)
	}
}

func TestRefreshFailsAfterLogout(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	loginRes, err := f.service.Login(ctx, application.LoginRequest{Address: testAddress})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	f.service.Logout(ctx, loginRes.RefreshToken)
	if _, err := f.service.Refresh(ctx, loginRes.RefreshToken); !errors.Is(err, domain.ErrSessionInactive) {
		t.Fatalf("expected ErrSessionInactive after logout, got %v", err)
	}

	// Logout is idempotent: a second call with the dead token is a no-op.
	f.service.Logout(ctx, loginRes.RefreshToken)
}

func TestRefreshRequiresSessionRecord(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.sessions.failCreate = true
	ctx := context.Background()

	loginRes, err := f.service.Login(ctx, application.LoginRequest{Address: testAddress})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := f.service.Refresh(ctx, loginRes.RefreshToken); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("a valid token without a session record must not refresh, got %v", err)
	}
}

func TestAuthorizeRoleGate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	loginRes, err := f.service.Login(ctx, application.LoginRequest{Address: testAddress})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	viewer := domain.RoleViewer
	if _, err := f.service.Authorize(loginRes.AccessToken, &viewer); err != nil {
		t.Fatalf("viewer token should satisfy viewer requirement: %v", err)
	}
	editor := domain.RoleEditor
	if _, err := f.service.Authorize(loginRes.AccessToken, &editor); !errors.Is(err, domain.ErrInsufficientRole) {
		t.Fatalf("viewer token must not satisfy editor requirement, got %v", err)
	}
	if _, err := f.service.Authorize("", nil); !errors.Is(err, domain.ErrMissingCredentials) {
		t.Fatalf("empty token should be missing credentials, got %v", err)
	}
	if _, err := f.service.Authorize(loginRes.RefreshToken, nil); !errors.Is(err, domain.ErrWrongTokenType) {
		t.Fatalf("refresh token must not pass the access gate, got %v", err)
	}
}

func TestRoleChangeAppearsInNextLoginTokens(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	loginRes, err := f.service.Login(ctx, application.LoginRequest{Address: testAddress})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	adminToken := f.mintAccessToken(t, uuid.New(), "0x0000000000000000000000000000000000000001", domain.RoleAdmin)
	adminClaims, err := f.service.Authorize(adminToken, nil)
	if err != nil {
		t.Fatalf("admin token should verify: %v", err)
	}
	updated, err := f.service.UpdateRole(ctx, adminClaims, loginRes.User.UserID, "admin")
	if err != nil {
		t.Fatalf("role update failed: %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role after update, got %s", updated.Role)
	}

	// Old tokens keep the old role claim until they expire.
	claims, err := f.service.Authorize(loginRes.AccessToken, nil)
	if err != nil {
		t.Fatalf("old token should still verify: %v", err)
	}
	if claims.Role != domain.RoleViewer {
		t.Fatalf("old token must keep the viewer claim, got %s", claims.Role)
	}

	relogin, err := f.service.Login(ctx, application.LoginRequest{Address: testAddress})
	if err != nil {
		t.Fatalf("re-login failed: %v", err)
	}
	if relogin.User.Role != domain.RoleAdmin {
		t.Fatalf("next login should carry the new role, got %s", relogin.User.Role)
	}
}

func TestUpdateRoleRequiresAdmin(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	loginRes, err := f.service.Login(ctx, application.LoginRequest{Address: testAddress})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	viewerClaims, err := f.service.Authorize(loginRes.AccessToken, nil)
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	_, err = f.service.UpdateRole(ctx, viewerClaims, loginRes.User.UserID, "admin")
	if !errors.Is(err, domain.ErrInsufficientRole) {
		t.Fatalf("viewer must not change roles, got %v", err)
	}
}

func TestSessionManagementOwnership(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	alice, err := f.service.Login(ctx, application.LoginRequest{Address: testAddress, UserAgent: "browser-a"})
	if err != nil {
		t.Fatalf("alice login failed: %v", err)
	}
	bob, err := f.service.Login(ctx, application.LoginRequest{Address: "0x1f9090aae28b8a3dceadf281b0f12828e676c326"})
	if err != nil {
		t.Fatalf("bob login failed: %v", err)
	}

	items, err := f.service.ListSessions(ctx, alice.RefreshToken)
	if err != nil {
		t.Fatalf("list sessions failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("alice should see exactly her session, got %d", len(items))
	}
	if !items[0].IsCurrent {
		t.Fatalf("alice's only session should be marked current")
	}

	// Cross-user revocation must look like a missing session.
	if err := f.service.RevokeSession(ctx, alice.RefreshToken, bob.SessionID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign session, got %v", err)
	}

	if err := f.service.RevokeAllSessions(ctx, alice.RefreshToken); err != nil {
		t.Fatalf("revoke all failed: %v", err)
	}
	if _, err := f.service.Refresh(ctx, alice.RefreshToken); !errors.Is(err, domain.ErrSessionInactive) {
		t.Fatalf("alice's token should be dead after revoke-all, got %v", err)
	}
	if _, err := f.service.Refresh(ctx, bob.RefreshToken); err != nil {
		t.Fatalf("bob's session must be untouched: %v", err)
	}
}

func TestWhoAmIAndProfileUpdate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	loginRes, err := f.service.Login(ctx, application.LoginRequest{Address: testAddress})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims, err := f.service.Authorize(loginRes.AccessToken, nil)
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}

	profile, err := f.service.WhoAmI(ctx, claims)
	if err != nil {
		t.Fatalf("who-am-i failed: %v", err)
	}
	if profile.Address != testAddress {
		t.Fatalf("unexpected address %s", profile.Address)
	}

	name := "Satoshi"
	updated, err := f.service.UpdateProfile(ctx, claims, application.ProfileUpdateRequest{DisplayName: &name})
	if err != nil {
		t.Fatalf("profile update failed: %v", err)
	}
	if updated.DisplayName != "Satoshi" {
		t.Fatalf("display name not updated, got %q", updated.DisplayName)
	}

	if _, err := f.service.UpdateProfile(ctx, claims, application.ProfileUpdateRequest{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("empty update should be rejected, got %v", err)
	}
}

func TestChallengeMismatchRejected(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	challenge, err := f.service.Challenge(ctx, testAddress)
	if err != nil {
		t.Fatalf("challenge failed: %v", err)
	}
	if challenge.Message == "" {
		t.Fatalf("challenge should carry a message")
	}

	_, err = f.service.Login(ctx, application.LoginRequest{
		Address:   testAddress,
		Signature: "0xsig",
		Message:   "not the issued challenge",
	})
	if !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("mismatched challenge message must fail login, got %v", err)
	}
}

// fixture wires the service against in-memory fakes plus the real
// token codec, so token-type and expiry behavior is exercised for real.
type fixture struct {
	service     *application.Service
	users       *fakeUsers
	sessions    *fakeSessions
	nonces      *fakeNonces
	revocations *fakeRevocations
	wallet      *fakeWallet
	tokens      ports.TokenIssuer
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithConfig(t, application.Config{})
}

func newFixtureWithConfig(t *testing.T, cfg application.Config) *fixture {
	t.Helper()

	tokens, err := security.NewTokenService("unit-test-secret", 15*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}

	users := &fakeUsers{
		byAddress: make(map[string]domain.User),
		byID:      make(map[uuid.UUID]domain.User),
	}
	sessions := &fakeSessions{byID: make(map[uuid.UUID]domain.Session)}
	nonces := &fakeNonces{items: make(map[string]string)}
	revocations := &fakeRevocations{revoked: make(map[uuid.UUID]bool)}
	wallet := &fakeWallet{valid: true}

	svc := application.NewService(application.Dependencies{
		Config:      cfg,
		Users:       users,
		Sessions:    sessions,
		Nonces:      nonces,
		Revocations: revocations,
		Wallet:      wallet,
		Tokens:      tokens,
	})
	return &fixture{
		service:     svc,
		users:       users,
		sessions:    sessions,
		nonces:      nonces,
		revocations: revocations,
		wallet:      wallet,
		tokens:      tokens,
	}
}

func (f *fixture) mintAccessToken(t *testing.T, userID uuid.UUID, address string, role domain.Role) string {
	t.Helper()
	token, err := f.tokens.IssueAccessToken(ports.AuthClaims{
		UserID:  userID,
		Address: address,
		Role:    role,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	return token
}

type fakeUsers struct {
	mu        sync.Mutex
	byAddress map[string]domain.User
	byID      map[uuid.UUID]domain.User
}

func (f *fakeUsers) Create(_ context.Context, params ports.CreateUserParams) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byAddress[params.Address]; exists {
		return domain.User{}, domain.ErrConflict
	}
	user := domain.User{
		UserID:    uuid.New(),
		Address:   params.Address,
		Role:      params.Role,
		CreatedAt: params.CreatedAt,
		UpdatedAt: params.CreatedAt,
	}
	f.byAddress[user.Address] = user
	f.byID[user.UserID] = user
	return user, nil
}

func (f *fakeUsers) GetByAddress(_ context.Context, address string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byAddress[address]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (f *fakeUsers) GetByID(_ context.Context, userID uuid.UUID) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (f *fakeUsers) TouchLastLogin(_ context.Context, userID uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	user.LastLoginAt = &at
	user.UpdatedAt = at
	f.byID[userID] = user
	f.byAddress[user.Address] = user
	return nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, userID uuid.UUID, update ports.ProfileUpdate, at time.Time) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	if update.DisplayName != nil {
		user.DisplayName = *update.DisplayName
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	user.UpdatedAt = at
	f.byID[userID] = user
	f.byAddress[user.Address] = user
	return user, nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, userID uuid.UUID, role domain.Role, at time.Time) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	user.Role = role
	user.UpdatedAt = at
	f.byID[userID] = user
	f.byAddress[user.Address] = user
	return user, nil
}

type fakeSessions struct {
	mu         sync.Mutex
	byID       map[uuid.UUID]domain.Session
	byHash     map[string]uuid.UUID
	failCreate bool
}

func (f *fakeSessions) Create(_ context.Context, params ports.SessionCreateParams) (domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return domain.Session{}, errors.New("session store down")
	}
	if f.byHash == nil {
		f.byHash = make(map[string]uuid.UUID)
	}
	session := domain.Session{
		SessionID:    uuid.New(),
		UserID:       params.UserID,
		UserAgent:    params.UserAgent,
		IPAddress:    params.IPAddress,
		Active:       true,
		CreatedAt:    params.LastActiveAt,
		LastActiveAt: params.LastActiveAt,
		ExpiresAt:    params.ExpiresAt,
	}
	f.byID[session.SessionID] = session
	f.byHash[params.RefreshTokenHash] = session.SessionID
	return session, nil
}

func (f *fakeSessions) FindByTokenHash(_ context.Context, tokenHash string, now time.Time) (domain.Session, domain.SessionState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byHash[tokenHash]
	if !ok {
		return domain.Session{}, domain.SessionNotFound, nil
	}
	session := f.byID[id]
	switch {
	case !session.Active:
		return session, domain.SessionRevoked, nil
	case !now.Before(session.ExpiresAt):
		return session, domain.SessionExpired, nil
	default:
		return session, domain.SessionValid, nil
	}
}

func (f *fakeSessions) GetByID(_ context.Context, sessionID uuid.UUID) (domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.byID[sessionID]
	if !ok {
		return domain.Session{}, domain.ErrNotFound
	}
	return session, nil
}

func (f *fakeSessions) ListActive(_ context.Context, userID uuid.UUID, now time.Time) ([]domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Session
	for _, session := range f.byID {
		if session.UserID == userID && session.Active && now.Before(session.ExpiresAt) {
			out = append(out, session)
		}
	}
	return out, nil
}

func (f *fakeSessions) Touch(_ context.Context, sessionID uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.byID[sessionID]
	if !ok {
		return domain.ErrNotFound
	}
	session.LastActiveAt = at
	f.byID[sessionID] = session
	return nil
}

func (f *fakeSessions) Deactivate(_ context.Context, sessionID uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.byID[sessionID]
	if !ok {
		return nil
	}
	session.Active = false
	session.LastActiveAt = at
	f.byID[sessionID] = session
	return nil
}

func (f *fakeSessions) DeactivateAll(_ context.Context, userID uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, session := range f.byID {
		if session.UserID == userID && session.Active {
			session.Active = false
			session.LastActiveAt = at
			f.byID[id] = session
		}
	}
	return nil
}

type fakeNonces struct {
	mu    sync.Mutex
	items map[string]string
}

func (f *fakeNonces) Put(_ context.Context, address, message string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[address] = message
	return nil
}

func (f *fakeNonces) Take(_ context.Context, address string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	message := f.items[address]
	delete(f.items, address)
	return message, nil
}

type fakeRevocations struct {
	mu      sync.Mutex
	revoked map[uuid.UUID]bool
}

func (f *fakeRevocations) MarkRevoked(_ context.Context, sessionID uuid.UUID, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[sessionID] = true
	return nil
}

func (f *fakeRevocations) IsRevoked(_ context.Context, sessionID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revoked[sessionID], nil
}

type fakeWallet struct {
	valid bool
}

func (f *fakeWallet) Verify(_, _, _ string) bool { return f.valid }
