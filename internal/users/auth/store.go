// Copyright (c) 2026 Parley. All rights reserved.
// Author: n.falco.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned by [SessionStore.TakeRefreshToken] when the
// presented token does not map to a live session. Expired, already-redeemed,
// and never-issued tokens are indistinguishable through this error.
var ErrSessionNotFound = errors.New("auth: refresh session not found")

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.Conflict (USERNAME_TAKEN / EMAIL_TAKEN) or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity with role name resolved
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity with role name resolved
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		UpdateLastLogin records the timestamp of a successful authentication.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	UpdateLastLogin(context context.Context, userID string) error

	/*
		List returns a page of accounts ordered by registration time (newest first).

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []User: Page of accounts
		  - int: Total account count
		  - error: Database retrieval failures
	*/
	List(context context.Context, limit, offset int) ([]User, int, error)

	/*
		SeedRoles inserts the closed role set (user, moderator, admin) if absent.
		Safe to call on every startup.

		Parameters:
		  - context: context.Context

		Returns:
		  - error: Persistence failures
	*/
	SeedRoles(context context.Context) error
}

// # Session Data Access

// SessionStore defines the contract for opaque single-use refresh tokens.
type SessionStore interface {

	/*
		StoreRefreshToken binds an opaque token to its session payload for ttl.

		Parameters:
		  - context: context.Context
		  - token: string (opaque, URL-safe)
		  - data: SessionData
		  - ttl: time.Duration

		Returns:
		  - error: Storage failures
	*/
	StoreRefreshToken(context context.Context, token string, data SessionData, ttl time.Duration) error

	/*
		TakeRefreshToken atomically retrieves AND consumes the session payload.
		Under concurrent redemption of the same token, exactly one caller wins.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - *SessionData: The consumed payload
		  - error: ErrSessionNotFound or connectivity failures
	*/
	TakeRefreshToken(context context.Context, token string) (*SessionData, error)
}

// # Permission Data Access

// PermissionStore defines the contract for per-user permission sets.
type PermissionStore interface {

	/*
		PermissionSet returns every permission name held by the user.
		A missing key yields an empty slice, not an error.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - []string: Granted permission names
		  - error: Connectivity failures
	*/
	PermissionSet(context context.Context, userID string) ([]string, error)

	/*
		GrantPermissions adds permission names to the user's set.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - permissions: ...string

		Returns:
		  - error: Storage failures
	*/
	GrantPermissions(context context.Context, userID string, permissions ...string) error

	/*
		RevokePermissions removes permission names from the user's set.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - permissions: ...string

		Returns:
		  - error: Storage failures
	*/
	RevokePermissions(context context.Context, userID string, permissions ...string) error
}
