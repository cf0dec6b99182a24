// Copyright (c) 2026 Parley. All rights reserved.
// Author: n.falco.dev@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters following OWASP recommendations.
const (
	argonMemory  = 64 * 1024 // 64 MB
	argonTime    = 3         // iterations
	argonThreads = 4         // parallel lanes
	argonKeyLen  = 32        // derived key bytes
	argonSaltLen = 16        // random salt bytes
)

// ErrPasswordMismatch is returned by [VerifyPassword] when the password does
// not match the stored hash. Any other error indicates a malformed or
// unsupported hash, which is an infrastructure problem rather than a bad
// credential.
var ErrPasswordMismatch = errors.New("sec: password does not match hash")

// HashPassword hashes a plain-text password using argon2id and returns a
// PHC-format string:
//
//	$argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
//
// The salt is random per call, so hashing the same password twice yields
// different strings. Equality of hashes is never a valid verification method.
func HashPassword(plainTextPassword string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("sec: failed to generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(plainTextPassword), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)

	return encoded, nil
}

// VerifyPassword recomputes the argon2id hash of plainTextPassword using the
// parameters embedded in the PHC string and compares in constant time.
//
// # Returns
//   - nil on a match.
//   - [ErrPasswordMismatch] when the password is simply wrong.
//   - A descriptive error when the stored hash is malformed.
func VerifyPassword(plainTextPassword, encodedHash string) error {
	salt, hash, memory, iterations, threads, err := parsePHC(encodedHash)
	if err != nil {
		return err
	}

	candidate := argon2.IDKey([]byte(plainTextPassword), salt, iterations, memory, threads, uint32(len(hash)))
	if subtle.ConstantTimeCompare(hash, candidate) != 1 {
		return ErrPasswordMismatch
	}

	return nil
}

// parsePHC parses an argon2id PHC string into its salt, hash, and parameters.
func parsePHC(encoded string) (salt, hash []byte, memory, iterations uint32, threads uint8, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return nil, nil, 0, 0, 0, fmt.Errorf("sec: invalid hash format: expected 6 parts, got %d", len(parts))
	}

	if parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, fmt.Errorf("sec: unsupported hash algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, 0, 0, 0, fmt.Errorf("sec: failed to parse hash version: %w", err)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return nil, nil, 0, 0, 0, fmt.Errorf("sec: failed to parse hash parameters: %w", err)
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, 0, 0, 0, fmt.Errorf("sec: failed to decode salt: %w", err)
	}

	hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, 0, 0, 0, fmt.Errorf("sec: failed to decode hash: %w", err)
	}

	return salt, hash, memory, iterations, threads, nil
}
