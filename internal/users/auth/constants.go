// Copyright (c) 2026 Parley. All rights reserved.
// Author: n.falco.dev@gmail.com

package auth

// # Authentication Constraints

const (
	// RefreshTokenLength is the byte length of the random secure token.
	// 32 bytes = 256 bits of entropy, encoded to 43 base64url characters.
	RefreshTokenLength = 32

	// MinPasswordLength is the minimum accepted password length at registration.
	MinPasswordLength = 8

	// MinUsernameLength is the minimum accepted username length.
	MinUsernameLength = 3

	// MaxUsernameLength keeps usernames displayable in thread listings.
	MaxUsernameLength = 30
)

// # Permission Names

// Permissions are flat capability strings held in a per-user Redis set.
// Authorization passes only when the required set is a subset of the user's.
const (
	PermModerateContent = "content:moderate"
	PermManageUsers     = "users:manage"
	PermViewDashboard   = "dashboard:view"
)
