// Copyright (c) 2026 Parley. All rights reserved.
// Author: n.falco.dev@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces.
package sec

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// # Why custom claims?
//
// By embedding the user's Role directly inside the JWT, the authentication
// middleware can reconstruct the active user context WITHOUT querying the
// database on every single API request. The token is self-contained: it is
// verified by signature and expiry alone and never stored server-side.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Role is the lowercased role name ("user", "moderator", "admin").
	Role string `json:"role"`
}

// UserID returns the subject claim, which carries the user's ID.
func (c *AuthClaims) UserID() string {
	return c.Subject
}

// TokenService handles generation and verification of JWT access tokens
// using a symmetric (HMAC) signing scheme.
type TokenService struct {
	secret    []byte
	method    jwt.SigningMethod
	issuer    string
	accessTTL time.Duration
}

// NewTokenService creates a new TokenService.
//
// # Failure Mode
//
// An empty secret or an unknown algorithm name is a fatal startup condition:
// the constructor returns an error and the process must not serve traffic.
// Signing never fails per-call because of configuration.
func NewTokenService(secret, algorithm, issuer string, accessTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: jwt secret must not be empty")
	}

	method := jwt.GetSigningMethod(strings.ToUpper(algorithm))
	if method == nil {
		return nil, fmt.Errorf("sec: unknown jwt signing algorithm %q", algorithm)
	}

	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("sec: jwt algorithm %q is not a symmetric (HMAC) method", algorithm)
	}

	if accessTTL <= 0 {
		return nil, fmt.Errorf("sec: access token ttl must be positive")
	}

	return &TokenService{
		secret:    []byte(secret),
		method:    method,
		issuer:    issuer,
		accessTTL: accessTTL,
	}, nil
}

// AccessTokenTTL returns the configured access token lifetime.
func (service *TokenService) AccessTokenTTL() time.Duration {
	return service.accessTTL
}

// GenerateAccessToken creates a new signed JWT access token for a user.
//
// Claims: sub = user ID, role = lowercased role name, exp = now + TTL.
func (service *TokenService) GenerateAccessToken(userID string, role UserRole) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.accessTTL)),
		},
		Role: strings.ToLower(string(role)),
	}

	token := jwt.NewWithClaims(service.method, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity of a JWT string.
//
// A token is rejected when its signature doesn't match, its expiry has
// passed, it was signed with a different method, or its subject claim is
// absent. Callers must not distinguish these cases to clients.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("sec: token is missing the subject claim")
	}

	return claims, nil
}
