// Copyright (c) 2026 Parley. All rights reserved.
// Author: n.falco.dev@gmail.com

package sec

import "strings"

// # User Roles

// UserRole represents the authorization level granted to an account.
//
// The enumeration is closed: roles are seeded once at startup and referenced
// by users for the life of the process. Comparisons go through [UserRole.AtLeast]
// rather than string matching so casing can never change an access decision.
type UserRole string

const (
	// Unrestricted system access
	RoleAdmin UserRole = "admin"

	// Can manage forums, lock/pin threads, and moderate posts
	RoleModerator UserRole = "moderator"

	// Default role for standard registered users
	RoleUser UserRole = "user"
)

// ParseRole normalizes a stored or transmitted role name to a [UserRole].
// Unknown names map to the zero role, which holds no privileges.
func ParseRole(name string) UserRole {
	switch strings.ToLower(name) {
	case string(RoleAdmin):
		return RoleAdmin
	case string(RoleModerator):
		return RoleModerator
	case string(RoleUser):
		return RoleUser
	default:
		return UserRole("")
	}
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 30
	case RoleModerator:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}
