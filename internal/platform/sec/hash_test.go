// Copyright (c) 2026 Parley. All rights reserved.
// Author: n.falco.dev@gmail.com

package sec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfalco/parley/internal/platform/sec"
)

/*
TestHashPassword_Format verifies the PHC output shape and that the plaintext
never leaks into the stored string.
*/
func TestHashPassword_Format(t *testing.T) {
	password := "correct horse battery staple"

	encoded, err := sec.HashPassword(password)
	require.NoError(t, err)

	// 1. PHC prefix with the configured parameters
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=65536,t=3,p=4$"))

	// 2. The plaintext must not be recoverable by inspection
	assert.NotContains(t, encoded, password)
}

/*
TestHashPassword_SaltRandomization verifies that hashing the same password
twice yields different encodings.
*/
func TestHashPassword_SaltRandomization(t *testing.T) {
	password := "same-password"

	first, err := sec.HashPassword(password)
	require.NoError(t, err)

	second, err := sec.HashPassword(password)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	// Both still verify against the original plaintext
	assert.NoError(t, sec.VerifyPassword(password, first))
	assert.NoError(t, sec.VerifyPassword(password, second))
}

/*
TestVerifyPassword_Mismatch verifies that a wrong password yields the
sentinel error, not a parse error.
*/
func TestVerifyPassword_Mismatch(t *testing.T) {
	encoded, err := sec.HashPassword("right-password")
	require.NoError(t, err)

	err = sec.VerifyPassword("wrong-password", encoded)
	assert.ErrorIs(t, err, sec.ErrPasswordMismatch)
}

/*
TestVerifyPassword_MalformedHash verifies that corrupted stored hashes are
reported distinctly from a simple mismatch.
*/
func TestVerifyPassword_MalformedHash(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"not_phc", "plain-text-garbage"},
		{"wrong_algorithm", "$bcrypt$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA"},
		{"truncated", "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA"},
		{"bad_base64_salt", "$argon2id$v=19$m=65536,t=3,p=4$!!!$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sec.VerifyPassword("whatever", tt.encoded)
			require.Error(t, err)
			assert.NotErrorIs(t, err, sec.ErrPasswordMismatch)
		})
	}
}
