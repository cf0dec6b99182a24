// Copyright (c) 2026 Parley. All rights reserved.
// Author: n.falco.dev@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfalco/parley/internal/platform/sec"
)

const testSecret = "test-secret-key-for-unit-tests-only"

func newTestTokenService(t *testing.T, ttl time.Duration) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService(testSecret, "HS256", "parley.forum", ttl)
	require.NoError(t, err)
	return service
}

/*
TestNewTokenService_ConfigErrors verifies that invalid configuration fails at
construction time rather than at signing time.
*/
func TestNewTokenService_ConfigErrors(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		algorithm string
		ttl       time.Duration
	}{
		{"empty_secret", "", "HS256", time.Minute},
		{"unknown_algorithm", testSecret, "HS999", time.Minute},
		{"asymmetric_algorithm", testSecret, "RS256", time.Minute},
		{"zero_ttl", testSecret, "HS256", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sec.NewTokenService(tt.secret, tt.algorithm, "parley.forum", tt.ttl)
			assert.Error(t, err)
		})
	}
}

/*
TestTokenService_Roundtrip verifies that a generated token decodes back to
the same subject and role.
*/
func TestTokenService_Roundtrip(t *testing.T) {
	service := newTestTokenService(t, 15*time.Minute)

	tokenStr, err := service.GenerateAccessToken("user-123", sec.RoleModerator)
	require.NoError(t, err)

	claims, err := service.VerifyToken(tokenStr)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.UserID())
	assert.Equal(t, "moderator", claims.Role)
	assert.Equal(t, "parley.forum", claims.Issuer)
}

/*
TestTokenService_Expiry verifies that an expired token is rejected.
*/
func TestTokenService_Expiry(t *testing.T) {
	service := newTestTokenService(t, 1*time.Millisecond)

	tokenStr, err := service.GenerateAccessToken("user-123", sec.RoleUser)
	require.NoError(t, err)

	// Wait for the token to pass its exp claim
	time.Sleep(50 * time.Millisecond)

	_, err = service.VerifyToken(tokenStr)
	assert.Error(t, err)
}

/*
TestTokenService_ForgedKey verifies that a token signed with a different key
is rejected.
*/
func TestTokenService_ForgedKey(t *testing.T) {
	service := newTestTokenService(t, 15*time.Minute)

	attacker, err := sec.NewTokenService("attacker-controlled-secret", "HS256", "parley.forum", 15*time.Minute)
	require.NoError(t, err)

	forged, err := attacker.GenerateAccessToken("user-123", sec.RoleAdmin)
	require.NoError(t, err)

	_, err = service.VerifyToken(forged)
	assert.Error(t, err)
}

/*
TestTokenService_MissingSubject verifies that a structurally valid token
without a subject claim is rejected.
*/
func TestTokenService_MissingSubject(t *testing.T) {
	service := newTestTokenService(t, 15*time.Minute)

	// Hand-craft a token with the right key but no sub claim
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	tokenStr, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = service.VerifyToken(tokenStr)
	assert.Error(t, err)
}

/*
TestTokenService_WrongMethod verifies that tokens declaring a non-HMAC
algorithm are rejected even before signature validation.
*/
func TestTokenService_WrongMethod(t *testing.T) {
	service := newTestTokenService(t, 15*time.Minute)

	// alg=none style attack: unsigned token
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenStr, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = service.VerifyToken(tokenStr)
	assert.Error(t, err)
}

/*
TestGenerateSecureToken verifies length and uniqueness of opaque tokens.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	// 32 random bytes -> 43 chars of unpadded base64url
	assert.Len(t, first, 43)
	assert.NotEqual(t, first, second)
}

/*
TestParseRole covers the closed role enum and the ordering predicate.
*/
func TestParseRole(t *testing.T) {
	assert.Equal(t, sec.RoleAdmin, sec.ParseRole("ADMIN"))
	assert.Equal(t, sec.RoleModerator, sec.ParseRole("moderator"))
	assert.Equal(t, sec.RoleUser, sec.ParseRole("user"))

	// Unknown roles map to the zero value and grant nothing
	unknown := sec.ParseRole("superuser")
	assert.False(t, unknown.AtLeast(sec.RoleUser))

	// Ordering: admin > moderator > user
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleModerator))
	assert.True(t, sec.RoleModerator.AtLeast(sec.RoleUser))
	assert.False(t, sec.RoleUser.AtLeast(sec.RoleModerator))
}
