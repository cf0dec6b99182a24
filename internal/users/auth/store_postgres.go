// Copyright (c) 2026 Parley. All rights reserved.
// Author: n.falco.dev@gmail.com

// PostgreSQL persistence for the auth domain.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
// Unique-constraint violations are decoded through [dberr.UniqueField] so the
// service layer never races a check-then-insert.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nfalco/parley/internal/platform/apperr"
	"github.com/nfalco/parley/internal/platform/dberr"
	"github.com/nfalco/parley/internal/platform/sec"
	"github.com/nfalco/parley/pkg/uuidv7"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users.account table.

Description: The role is resolved by name into its foreign key in the same
statement. Unique violations on username or email become distinct conflicts.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict (USERNAME_TAKEN / EMAIL_TAKEN) or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, passwordhash, roleid, isactive, createdat, updatedat
		) VALUES ($1, $2, $3, $4, (SELECT id FROM users.role WHERE name = $5), $6, $7, $8)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if constraint, ok := dberr.UniqueField(err); ok {
			switch {
			case strings.Contains(constraint, "username"):
				return apperr.ConflictCode("USERNAME_TAKEN", "Username is already taken")
			case strings.Contains(constraint, "email"):
				return apperr.ConflictCode("EMAIL_TAKEN", "Email is already registered")
			}
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution with the role name joined in.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `
		SELECT a.id, a.username, a.email, a.passwordhash, r.name, a.isactive, a.lastloginat, a.createdat, a.updatedat
		FROM users.account a
		JOIN users.role r ON r.id = a.roleid
		WHERE a.id = $1`

	return repository.scanUser(repository.pool.QueryRow(context, query, id), "User not found")
}

/*
FindByUsername retrieves a user record by their unique username.

Description: Standard lookup for authentication and profile resolution.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	const query = `
		SELECT a.id, a.username, a.email, a.passwordhash, r.name, a.isactive, a.lastloginat, a.createdat, a.updatedat
		FROM users.account a
		JOIN users.role r ON r.id = a.roleid
		WHERE a.username = $1`

	return repository.scanUser(repository.pool.QueryRow(context, query, username), "User not found with this username")
}

/*
UpdateLastLogin records the timestamp of a successful authentication.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdateLastLogin(context context.Context, userID string) error {
	const query = "UPDATE users.account SET lastloginat = $2 WHERE id = $1"
	_, err := repository.pool.Exec(context, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_last_login_failed: %w", err)
	}
	return nil
}

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
func (repository *PostgresUserRepository) List(context context.Context, limit, offset int) ([]User, int, error) {
	const countQuery = "SELECT COUNT(*) FROM users.account"

	var total int
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_count_failed: %w", err)
	}

	const query = `
		SELECT a.id, a.username, a.email, a.passwordhash, r.name, a.isactive, a.lastloginat, a.createdat, a.updatedat
		FROM users.account a
		JOIN users.role r ON r.id = a.roleid
		ORDER BY a.createdat DESC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_list_failed: %w", err)
	}
	defer rows.Close()

	users := make([]User, 0, limit)
	for rows.Next() {
		var user User
		var roleName string
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&roleName,
			&user.IsActive,
			&user.LastLoginAt,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_user_repo_scan_failed: %w", err)
		}
		user.Role = sec.ParseRole(roleName)
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_rows_failed: %w", err)
	}

	return users, total, nil
}

/*
SeedRoles inserts the closed role set (user, moderator, admin) if absent.

Description: Idempotent by the unique constraint on the role name; safe to
run on every startup before traffic is served.

Parameters:
  - context: context.Context

Returns:
  - error: Persistence failures
*/
func (repository *PostgresUserRepository) SeedRoles(context context.Context) error {
	const query = `
		INSERT INTO users.role (id, name, createdat)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING`

	roles := []sec.UserRole{sec.RoleUser, sec.RoleModerator, sec.RoleAdmin}
	now := time.Now()

	for _, role := range roles {
		if _, err := repository.pool.Exec(context, query, uuidv7.New(), string(role), now); err != nil {
			return fmt.Errorf("postgres_user_repo_seed_roles_failed: %w", err)
		}
	}

	return nil
}

// scanUser hydrates a User from a single-row query, translating pgx.ErrNoRows.
func (repository *PostgresUserRepository) scanUser(row pgx.Row, notFoundMessage string) (*User, error) {
	user := &User{}
	var roleName string

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&roleName,
		&user.IsActive,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(notFoundMessage)
		}
		return nil, fmt.Errorf("postgres_user_repo_find_failed: %w", err)
	}

	user.Role = sec.ParseRole(roleName)
	return user, nil
}
