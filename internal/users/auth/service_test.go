// Copyright (c) 2026 Parley. All rights reserved.
// Author: n.falco.dev@gmail.com

package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfalco/parley/internal/platform/apperr"
	"github.com/nfalco/parley/internal/platform/sec"
	"github.com/nfalco/parley/internal/users/auth"
)

// # Test Fakes

type fakeUserRepo struct {
	mu         sync.Mutex
	byID       map[string]*auth.User
	byUsername map[string]*auth.User
	byEmail    map[string]*auth.User

	// findErr simulates a repository outage on lookups.
	findErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:       make(map[string]*auth.User),
		byUsername: make(map[string]*auth.User),
		byEmail:    make(map[string]*auth.User),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byUsername[user.Username]; exists {
		return apperr.ConflictCode("USERNAME_TAKEN", "Username is already taken")
	}
	if _, exists := r.byEmail[user.Email]; exists {
		return apperr.ConflictCode("EMAIL_TAKEN", "Email is already registered")
	}
	clone := *user
	r.byID[user.ID] = &clone
	r.byUsername[user.Username] = &clone
	r.byEmail[user.Email] = &clone
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.byID[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, apperr.NotFound("User not found")
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	if user, ok := r.byUsername[username]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, apperr.NotFound("User not found with this username")
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.byID[userID]; ok {
		now := time.Now()
		user.LastLoginAt = &now
	}
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]auth.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]auth.User, 0, len(r.byID))
	for _, user := range r.byID {
		users = append(users, *user)
	}
	total := len(users)
	if offset >= total {
		return []auth.User{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return users[offset:end], total, nil
}

func (r *fakeUserRepo) SeedRoles(_ context.Context) error { return nil }

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]auth.SessionData
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]auth.SessionData)}
}

func (s *fakeSessionStore) StoreRefreshToken(_ context.Context, token string, data auth.SessionData, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = data
	return nil
}

func (s *fakeSessionStore) TakeRefreshToken(_ context.Context, token string) (*auth.SessionData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.sessions[token]
	if !ok {
		return nil, auth.ErrSessionNotFound
	}
	delete(s.sessions, token)
	return &data, nil
}

type fakePermStore struct {
	mu    sync.Mutex
	perms map[string]map[string]struct{}
}

func newFakePermStore() *fakePermStore {
	return &fakePermStore{perms: make(map[string]map[string]struct{})}
}

func (s *fakePermStore) PermissionSet(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := make([]string, 0)
	for permission := range s.perms[userID] {
		set = append(set, permission)
	}
	return set, nil
}

func (s *fakePermStore) GrantPermissions(_ context.Context, userID string, permissions ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.perms[userID] == nil {
		s.perms[userID] = make(map[string]struct{})
	}
	for _, permission := range permissions {
		s.perms[userID][permission] = struct{}{}
	}
	return nil
}

func (s *fakePermStore) RevokePermissions(_ context.Context, userID string, permissions ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, permission := range permissions {
		delete(s.perms[userID], permission)
	}
	return nil
}

// # Harness

type authFixture struct {
	service  *auth.Service
	users    *fakeUserRepo
	sessions *fakeSessionStore
	perms    *fakePermStore
	tokens   *sec.TokenService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	tokens, err := sec.NewTokenService("unit-test-secret", "HS256", "parley.forum", 15*time.Minute)
	require.NoError(t, err)

	users := newFakeUserRepo()
	sessions := newFakeSessionStore()
	perms := newFakePermStore()

	service, err := auth.NewService(users, sessions, perms, tokens, nil, 7*24*time.Hour)
	require.NoError(t, err)

	return &authFixture{service: service, users: users, sessions: sessions, perms: perms, tokens: tokens}
}

func (f *authFixture) register(t *testing.T, username, email, password string) *auth.User {
	t.Helper()
	user, err := f.service.Register(context.Background(), auth.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

// # Scenarios

/*
TestService_RegisterLoginRefresh walks the full happy path: enrollment,
authentication, and token rotation with single-use enforcement.
*/
func TestService_RegisterLoginRefresh(t *testing.T) {
	fixture := newAuthFixture(t)
	ctx := context.Background()

	user := fixture.register(t, "alice", "alice@parley.forum", "s3cret-password")
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.NotEmpty(t, user.ID)

	// The stored hash must never be the plaintext
	stored, err := fixture.users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", stored.PasswordHash)

	// Login issues a verifiable access token and a refresh token
	session, err := fixture.service.Login(ctx, auth.LoginInput{
		Username: "alice", Password: "s3cret-password", IPAddress: "10.0.0.1",
	})
	require.NoError(t, err)

	claims, err := fixture.tokens.VerifyToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID())
	assert.Equal(t, "user", claims.Role)

	// Rotation: the old refresh token dies, the new one lives
	rotated, err := fixture.service.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)

	_, err = fixture.service.Refresh(ctx, session.RefreshToken)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 401, ae.HTTPStatus)

	// The rotated token still works exactly once
	_, err = fixture.service.Refresh(ctx, rotated.RefreshToken)
	assert.NoError(t, err)
}

/*
TestService_RegisterConflicts verifies field-specific duplicate detection.
*/
func TestService_RegisterConflicts(t *testing.T) {
	fixture := newAuthFixture(t)
	ctx := context.Background()

	fixture.register(t, "alice", "alice@parley.forum", "s3cret-password")

	_, err := fixture.service.Register(ctx, auth.RegisterInput{
		Username: "alice", Email: "other@parley.forum", Password: "s3cret-password",
	})
	require.Error(t, err)
	assert.Equal(t, "USERNAME_TAKEN", apperr.As(err).Code)

	_, err = fixture.service.Register(ctx, auth.RegisterInput{
		Username: "bob", Email: "alice@parley.forum", Password: "s3cret-password",
	})
	require.Error(t, err)
	assert.Equal(t, "EMAIL_TAKEN", apperr.As(err).Code)
}

/*
TestService_LoginEnumerationResistance verifies that an unknown username and
a wrong password are indistinguishable: the same error value, and a
verification cost of the same order of magnitude.
*/
func TestService_LoginEnumerationResistance(t *testing.T) {
	fixture := newAuthFixture(t)
	ctx := context.Background()

	fixture.register(t, "alice", "alice@parley.forum", "s3cret-password")

	_, unknownUserErr := fixture.service.Login(ctx, auth.LoginInput{
		Username: "nobody", Password: "whatever", IPAddress: "10.0.0.1",
	})
	_, wrongPasswordErr := fixture.service.Login(ctx, auth.LoginInput{
		Username: "alice", Password: "wrong-password", IPAddress: "10.0.0.1",
	})

	require.Error(t, unknownUserErr)
	require.Error(t, wrongPasswordErr)

	// Identical status, code, and message
	unknownAE := apperr.As(unknownUserErr)
	wrongAE := apperr.As(wrongPasswordErr)
	require.NotNil(t, unknownAE)
	require.NotNil(t, wrongAE)
	assert.Equal(t, wrongAE.Code, unknownAE.Code)
	assert.Equal(t, wrongAE.Message, unknownAE.Message)
	assert.Equal(t, wrongAE.HTTPStatus, unknownAE.HTTPStatus)

	// Timing: both paths pay the argon2id cost. Sampled medians must stay
	// within one order of magnitude of each other.
	sample := func(username string) time.Duration {
		best := time.Duration(1<<63 - 1)
		for i := 0; i < 3; i++ {
			start := time.Now()
			_, _ = fixture.service.Login(ctx, auth.LoginInput{
				Username: username, Password: "wrong-password", IPAddress: "10.0.0.1",
			})
			if elapsed := time.Since(start); elapsed < best {
				best = elapsed
			}
		}
		return best
	}

	unknownCost := sample("nobody")
	knownCost := sample("alice")

	ratio := float64(unknownCost) / float64(knownCost)
	assert.Greater(t, ratio, 0.1)
	assert.Less(t, ratio, 10.0)
}

/*
TestService_LoginInfrastructureFailures verifies the error taxonomy under
failure: a repository outage or a corrupted stored hash surfaces as an opaque
internal error, never as the credentials rejection.
*/
func TestService_LoginInfrastructureFailures(t *testing.T) {
	fixture := newAuthFixture(t)
	ctx := context.Background()

	fixture.register(t, "alice", "alice@parley.forum", "s3cret-password")

	// 1. Repository outage must not look like bad credentials
	fixture.users.findErr = errors.New("connection refused")

	_, err := fixture.service.Login(ctx, auth.LoginInput{
		Username: "alice", Password: "s3cret-password", IPAddress: "10.0.0.1",
	})
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 500, ae.HTTPStatus)
	assert.NotEqual(t, "Incorrect username or password", ae.Message)

	fixture.users.findErr = nil

	// 2. A corrupted stored hash is data corruption, not a wrong password
	fixture.users.mu.Lock()
	fixture.users.byUsername["alice"].PasswordHash = "not-a-phc-hash"
	fixture.users.mu.Unlock()

	_, err = fixture.service.Login(ctx, auth.LoginInput{
		Username: "alice", Password: "s3cret-password", IPAddress: "10.0.0.1",
	})
	require.Error(t, err)
	ae = apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 500, ae.HTTPStatus)
	assert.NotEqual(t, "Incorrect username or password", ae.Message)
}

/*
TestService_TokenTTLAccessors verifies the lifetimes the HTTP layer reads for
cookie and expires_in wiring.
*/
func TestService_TokenTTLAccessors(t *testing.T) {
	fixture := newAuthFixture(t)

	assert.Equal(t, 15*time.Minute, fixture.service.AccessTokenTTL())
	assert.Equal(t, 7*24*time.Hour, fixture.service.RefreshTokenTTL())
}

/*
TestService_CheckAuthorization verifies fail-closed subset semantics.
*/
func TestService_CheckAuthorization(t *testing.T) {
	fixture := newAuthFixture(t)
	ctx := context.Background()

	// Unknown user: empty set, denied
	err := fixture.service.CheckAuthorization(ctx, "ghost", auth.PermViewDashboard)
	require.Error(t, err)
	assert.Equal(t, 403, apperr.As(err).HTTPStatus)

	// Partial grant: still denied for the full requirement
	require.NoError(t, fixture.service.GrantPermissions(ctx, "user-1", auth.PermViewDashboard))
	err = fixture.service.CheckAuthorization(ctx, "user-1", auth.PermViewDashboard, auth.PermManageUsers)
	require.Error(t, err)

	// Full subset: allowed
	require.NoError(t, fixture.service.GrantPermissions(ctx, "user-1", auth.PermManageUsers))
	assert.NoError(t, fixture.service.CheckAuthorization(ctx, "user-1", auth.PermViewDashboard, auth.PermManageUsers))

	// No requirements is trivially satisfied
	assert.NoError(t, fixture.service.CheckAuthorization(ctx, "user-1"))
}

/*
TestService_Logout verifies idempotent session teardown.
*/
func TestService_Logout(t *testing.T) {
	fixture := newAuthFixture(t)
	ctx := context.Background()

	fixture.register(t, "alice", "alice@parley.forum", "s3cret-password")
	session, err := fixture.service.Login(ctx, auth.LoginInput{
		Username: "alice", Password: "s3cret-password", IPAddress: "10.0.0.1",
	})
	require.NoError(t, err)

	require.NoError(t, fixture.service.Logout(ctx, session.RefreshToken))

	// The token is gone
	_, err = fixture.service.Refresh(ctx, session.RefreshToken)
	require.Error(t, err)

	// Logging out again is still a success
	assert.NoError(t, fixture.service.Logout(ctx, session.RefreshToken))
}

/*
TestService_ConcurrentRefresh verifies exactly-one-redemption under parallel
rotation attempts against the same token.
*/
func TestService_ConcurrentRefresh(t *testing.T) {
	fixture := newAuthFixture(t)
	ctx := context.Background()

	fixture.register(t, "alice", "alice@parley.forum", "s3cret-password")
	session, err := fixture.service.Login(ctx, auth.LoginInput{
		Username: "alice", Password: "s3cret-password", IPAddress: "10.0.0.1",
	})
	require.NoError(t, err)

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fixture.service.Refresh(ctx, session.RefreshToken)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for err := range results {
		if err == nil {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}
