// Copyright (c) 2026 Parley. All rights reserved.
// Author: n.falco.dev@gmail.com

/*
Package auth implements the core identity and access management (IAM) system.

It handles everything from user registration and memory-hard password hashing
to session lifecycle management via JWT and opaque refresh tokens (stored in
Redis).

Architecture:

  - Service: Orchestrates business logic (Register, Login, Refresh).
  - Repository: Abstracted interfaces for Postgres (Users) and Redis (Sessions).
  - Security: Leverages argon2id hashing and HMAC-signed JWTs.

The package ensures that identity data remains consistent and secure throughout
the platform's lifecycle.
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nfalco/parley/internal/platform/apperr"
	"github.com/nfalco/parley/internal/platform/ctxutil"
	"github.com/nfalco/parley/internal/platform/sec"
	"github.com/nfalco/parley/pkg/uuidv7"
)

// # Contracts & Types

// TokenProvider defines the contract for generating access tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	GenerateAccessToken(userID string, role sec.UserRole) (string, error)

	// AccessTokenTTL returns the configured access token lifetime.
	AccessTokenTTL() time.Duration
}

// RegistrationObserver receives a best-effort notification after every
// successful registration. Failures inside the observer never fail the
// registration itself.
type RegistrationObserver interface {
	UserRegistered(context context.Context, username string)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed carefully.
type Service struct {
	userRepository  UserRepository
	sessionStore    SessionStore
	permissionStore PermissionStore
	tokenProvider   TokenProvider
	observer        RegistrationObserver
	refreshTokenTTL time.Duration

	// dummyHash is a valid argon2id hash of a random throwaway password.
	// Login attempts against unknown usernames verify against it so the
	// response time does not reveal whether the account exists.
	dummyHash string
}

// NewService constructs a new [Service] with necessary dependencies.
//
// # Failure Mode
//
// The enumeration-resistance dummy hash is computed here, once. If hashing
// fails the constructor errors and the process must not serve traffic;
// observer may be nil.
func NewService(
	userRepo UserRepository,
	sessionStore SessionStore,
	permissionStore PermissionStore,
	tokenProvider TokenProvider,
	observer RegistrationObserver,
	refreshTokenTTL time.Duration,
) (*Service, error) {
	if refreshTokenTTL <= 0 {
		return nil, fmt.Errorf("auth: refresh token ttl must be positive")
	}

	// Derive the dummy hash from a fresh random secret so it is never a
	// hash any real user could hold.
	throwaway, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_dummy_secret_failed: %w", err)
	}

	dummyHash, err := sec.HashPassword(throwaway)
	if err != nil {
		return nil, fmt.Errorf("auth_service_dummy_hash_failed: %w", err)
	}

	return &Service{
		userRepository:  userRepo,
		sessionStore:    sessionStore,
		permissionStore: permissionStore,
		tokenProvider:   tokenProvider,
		observer:        observer,
		refreshTokenTTL: refreshTokenTTL,
		dummyHash:       dummyHash,
	}, nil
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Enrolls a new member with the default "user" role. Uniqueness of
username and email is enforced by database constraints; violations surface as
distinct USERNAME_TAKEN / EMAIL_TAKEN conflicts.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity (password hash never serialized)
  - error: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Prevent storing plain-text passwords. Argon2id with the platform
	// parameters; memory-hard on purpose.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuidv7.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         sec.RoleUser,
		IsActive:     true,
	}

	// Persist the user. The repository maps unique violations to
	// client-safe conflicts, so the error passes through untouched.
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	// Feed the recent-registrations activity stream as a side effect.
	if service.observer != nil {
		service.observer.UserRegistered(context, user.Username)
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username  string
	Password  string
	IPAddress string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

// errBadCredentials is the single rejection for every failed login. A wrong
// password and an unknown username must be indistinguishable.
var errBadCredentials = apperr.Unauthorized("Incorrect username or password")

/*
Login validates user credentials and issues security tokens.

Description: Verifies identity with enumeration resistance — an unknown
username still pays the full argon2id verification cost against a dummy hash,
and returns the exact same error as a wrong password. Failed attempts are
logged at WARN with the source IP, never with credentials.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session identifiers
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	logger := ctxutil.GetLogger(context)

	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		// Only an absent account earns the generic rejection. Anything else
		// (connectivity, query failure) is an infrastructure error and must
		// not masquerade as bad credentials.
		if appErr := apperr.As(err); appErr == nil || appErr.HTTPStatus != http.StatusNotFound {
			return nil, apperr.Internal(fmt.Errorf("auth_service_login_lookup_failed: %w", err))
		}

		// Unknown username: burn the same hashing cost a real verification
		// would, then fail with the generic rejection.
		_ = sec.VerifyPassword(input.Password, service.dummyHash)

		logger.WarnContext(context, "login_failed",
			slog.String("reason", "unknown_username"),
			slog.String("ip", input.IPAddress),
			slog.Time("at", time.Now()),
		)
		return nil, errBadCredentials
	}

	if err := sec.VerifyPassword(input.Password, user.PasswordHash); err != nil {
		// A malformed stored hash is data corruption, not a wrong password.
		if !errors.Is(err, sec.ErrPasswordMismatch) {
			return nil, apperr.Internal(fmt.Errorf("auth_service_login_verify_failed: %w", err))
		}

		logger.WarnContext(context, "login_failed",
			slog.String("reason", "password_mismatch"),
			slog.String("ip", input.IPAddress),
			slog.Time("at", time.Now()),
		)
		return nil, errBadCredentials
	}

	// Best-effort bookkeeping; a failed timestamp write must not block login.
	if err := service.userRepository.UpdateLastLogin(context, user.ID); err != nil {
		logger.WarnContext(context, "last_login_update_failed", slog.Any("error", err))
	}

	return service.establishSession(context, user.ID, user.Role, user)
}

/*
Refresh implements the Refresh Token Rotation mechanism.

Description: Atomically consumes the presented refresh token (exactly one
redemption wins under concurrency) and issues a fresh token pair. The session
payload carries enough identity to avoid a database round-trip.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *LoginSession: New session credentials (User is not hydrated)
  - error: Unauthorized or storage failures
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*LoginSession, error) {
	data, err := service.sessionStore.TakeRefreshToken(context, refreshToken)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, apperr.Unauthorized("Invalid refresh token")
		}
		return nil, fmt.Errorf("auth_service_refresh_take_failed: %w", err)
	}

	return service.establishSession(context, data.UserID, sec.ParseRole(data.Role), nil)
}

/*
Logout consumes the refresh token so it can never be redeemed.

Description: Idempotent — an already-dead token is a successful logout.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - error: Connectivity failures only
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {
	_, err := service.sessionStore.TakeRefreshToken(context, refreshToken)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

// establishSession mints an access token and a stored refresh token for the user.
func (service *Service) establishSession(context context.Context, userID string, role sec.UserRole, user *User) (*LoginSession, error) {
	accessToken, err := service.tokenProvider.GenerateAccessToken(userID, role)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	expiresAt := time.Now().Add(service.refreshTokenTTL)
	data := SessionData{UserID: userID, Role: string(role)}

	if err := service.sessionStore.StoreRefreshToken(context, refreshToken, data, service.refreshTokenTTL); err != nil {
		return nil, fmt.Errorf("auth_service_session_store_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}

// # Authorization

/*
CheckAuthorization verifies that the user holds every required permission.

Description: Fail-closed subset check against the user's cached permission
set. A missing or empty set denies access; only store connectivity failures
propagate as internal errors.

Parameters:
  - context: context.Context
  - userID: string
  - required: ...string

Returns:
  - error: apperr.Forbidden on insufficient permissions, or store failures
*/
func (service *Service) CheckAuthorization(context context.Context, userID string, required ...string) error {
	granted, err := service.permissionStore.PermissionSet(context, userID)
	if err != nil {
		return fmt.Errorf("auth_service_permission_lookup_failed: %w", err)
	}

	grantedSet := make(map[string]struct{}, len(granted))
	for _, permission := range granted {
		grantedSet[permission] = struct{}{}
	}

	for _, permission := range required {
		if _, ok := grantedSet[permission]; !ok {
			return apperr.Forbidden("Insufficient permissions")
		}
	}

	return nil
}

/*
GrantPermissions adds capabilities to a user's permission set.

Parameters:
  - context: context.Context
  - userID: string
  - permissions: ...string

Returns:
  - error: Storage failures
*/
func (service *Service) GrantPermissions(context context.Context, userID string, permissions ...string) error {
	if err := service.permissionStore.GrantPermissions(context, userID, permissions...); err != nil {
		return fmt.Errorf("auth_service_grant_failed: %w", err)
	}
	return nil
}

// # Administration

/*
ListUsers returns a page of registered accounts, newest first.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []User: Page of accounts
  - int: Total account count
  - error: Database retrieval failures
*/
func (service *Service) ListUsers(context context.Context, limit, offset int) ([]User, int, error) {
	return service.userRepository.List(context, limit, offset)
}

// RefreshTokenTTL exposes the configured refresh token lifetime for cookie wiring.
func (service *Service) RefreshTokenTTL() time.Duration {
	return service.refreshTokenTTL
}

// AccessTokenTTL exposes the configured access token lifetime for expires_in wiring.
func (service *Service) AccessTokenTTL() time.Duration {
	return service.tokenProvider.AccessTokenTTL()
}
