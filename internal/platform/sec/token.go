// Copyright (c) 2026 Parley. All rights reserved.
// Author: n.falco.dev@gmail.com

package sec

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateSecureToken produces a cryptographically random, URL-safe opaque
// string from byteLength bytes of entropy.
//
// # Usage
//
// Refresh tokens are generated with 32 bytes (256 bits), carrying no embedded
// semantics. Their meaning lives entirely in the session store.
func GenerateSecureToken(byteLength int) (string, error) {
	raw := make([]byte, byteLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}
