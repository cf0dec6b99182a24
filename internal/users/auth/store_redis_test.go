// Copyright (c) 2026 Parley. All rights reserved.
// Author: n.falco.dev@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfalco/parley/internal/users/auth"
)

func newTestSessionStore(t *testing.T) (*auth.RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return auth.NewSessionStore(client), server
}

/*
TestSessionStore_StoreAndTake verifies the basic token round-trip and that
the payload survives serialization.
*/
func TestSessionStore_StoreAndTake(t *testing.T) {
	store, _ := newTestSessionStore(t)
	ctx := context.Background()

	data := auth.SessionData{UserID: "user-123", Role: "moderator"}
	require.NoError(t, store.StoreRefreshToken(ctx, "tok-abc", data, time.Hour))

	got, err := store.TakeRefreshToken(ctx, "tok-abc")
	require.NoError(t, err)
	assert.Equal(t, "user-123", got.UserID)
	assert.Equal(t, "moderator", got.Role)
}

/*
TestSessionStore_SingleUse verifies that a token can be redeemed exactly once.
*/
func TestSessionStore_SingleUse(t *testing.T) {
	store, _ := newTestSessionStore(t)
	ctx := context.Background()

	data := auth.SessionData{UserID: "user-123", Role: "user"}
	require.NoError(t, store.StoreRefreshToken(ctx, "tok-once", data, time.Hour))

	// First redemption wins
	_, err := store.TakeRefreshToken(ctx, "tok-once")
	require.NoError(t, err)

	// Second redemption of the same token must fail
	_, err = store.TakeRefreshToken(ctx, "tok-once")
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)
}

/*
TestSessionStore_UnknownToken verifies that a never-issued token is rejected
with the same error as a consumed one.
*/
func TestSessionStore_UnknownToken(t *testing.T) {
	store, _ := newTestSessionStore(t)

	_, err := store.TakeRefreshToken(context.Background(), "never-issued")
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)
}

/*
TestSessionStore_Expiry verifies that tokens die when their TTL elapses.
*/
func TestSessionStore_Expiry(t *testing.T) {
	store, server := newTestSessionStore(t)
	ctx := context.Background()

	data := auth.SessionData{UserID: "user-123", Role: "user"}
	require.NoError(t, store.StoreRefreshToken(ctx, "tok-ttl", data, time.Minute))

	// Advance miniredis' virtual clock past the TTL
	server.FastForward(2 * time.Minute)

	_, err := store.TakeRefreshToken(ctx, "tok-ttl")
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)
}

/*
TestPermissionStore_GrantAndRead verifies set membership semantics.
*/
func TestPermissionStore_GrantAndRead(t *testing.T) {
	store, _ := newTestSessionStore(t)
	ctx := context.Background()

	// Unknown user has an empty permission set, not an error
	perms, err := store.PermissionSet(ctx, "user-123")
	require.NoError(t, err)
	assert.Empty(t, perms)

	require.NoError(t, store.GrantPermissions(ctx, "user-123", auth.PermModerateContent, auth.PermViewDashboard))

	perms, err = store.PermissionSet(ctx, "user-123")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{auth.PermModerateContent, auth.PermViewDashboard}, perms)

	// Granting the same permission twice keeps the set a set
	require.NoError(t, store.GrantPermissions(ctx, "user-123", auth.PermModerateContent))
	perms, err = store.PermissionSet(ctx, "user-123")
	require.NoError(t, err)
	assert.Len(t, perms, 2)
}

/*
TestPermissionStore_Revoke verifies removal of individual permissions.
*/
func TestPermissionStore_Revoke(t *testing.T) {
	store, _ := newTestSessionStore(t)
	ctx := context.Background()

	require.NoError(t, store.GrantPermissions(ctx, "user-123", auth.PermModerateContent, auth.PermManageUsers))
	require.NoError(t, store.RevokePermissions(ctx, "user-123", auth.PermManageUsers))

	perms, err := store.PermissionSet(ctx, "user-123")
	require.NoError(t, err)
	assert.Equal(t, []string{auth.PermModerateContent}, perms)
}
