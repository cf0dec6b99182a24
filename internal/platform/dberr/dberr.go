// Copyright (c) 2026 Parley. All rights reserved.
// Author: n.falco.dev@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Uniqueness is enforced by the database, not by check-then-insert in the
// service layer (which would race). This package is where the resulting
// conflict signal is decoded: SQLSTATE 23505 plus the constraint name tells
// the caller exactly which field collided.
package dberr

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nfalco/parley/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	return apperr.Internal(err)
}

// UniqueField extracts the name of the violated unique constraint's column
// when err is a PostgreSQL unique-constraint violation (SQLSTATE 23505).
//
// # Returns
//   - The lowercased constraint name and true for a unique violation.
//   - "" and false for anything else.
//
// Constraint names in the schema embed the column ("account_username_key"),
// so callers can match on a substring to decide which conflict to surface.
func UniqueField(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}

	if pgErr.Code != pgerrcode.UniqueViolation {
		return "", false
	}

	return strings.ToLower(pgErr.ConstraintName), true
}

// IsUniqueViolation reports whether err is a unique-constraint violation on a
// constraint whose name contains the given fragment.
func IsUniqueViolation(err error, fragment string) bool {
	name, ok := UniqueField(err)
	return ok && strings.Contains(name, fragment)
}
