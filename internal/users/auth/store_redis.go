// Copyright (c) 2026 Parley. All rights reserved.
// Author: n.falco.dev@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nfalco/parley/internal/platform/constants"
)

// # Session Store

// RedisSessionStore implements [SessionStore] and [PermissionStore] using Redis.
//
// Refresh tokens are plain keys with a JSON payload and a TTL; permission
// sets are native Redis sets. Expiry is entirely delegated to Redis.
type RedisSessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a new Redis-backed session and permission store.
func NewSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

/*
StoreRefreshToken binds an opaque token to its session payload for ttl.

Parameters:
  - context: context.Context
  - token: string
  - data: SessionData
  - ttl: time.Duration

Returns:
  - error: Marshalling or storage failures
*/
func (store *RedisSessionStore) StoreRefreshToken(context context.Context, token string, data SessionData, ttl time.Duration) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("redis_session_store_marshal_failed: %w", err)
	}

	key := constants.RedisPrefixRefreshToken + token
	if err := store.client.SetEx(context, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_store_set_failed: %w", err)
	}

	return nil
}

/*
TakeRefreshToken atomically retrieves and consumes a session payload.

Description: GETDEL makes lookup and invalidation a single Redis command, so
two concurrent redemptions of the same token can never both succeed.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *SessionData: The consumed payload
  - error: ErrSessionNotFound or connectivity failures
*/
func (store *RedisSessionStore) TakeRefreshToken(context context.Context, token string) (*SessionData, error) {
	key := constants.RedisPrefixRefreshToken + token

	payload, err := store.client.GetDel(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis_session_store_getdel_failed: %w", err)
	}

	data := &SessionData{}
	if err := json.Unmarshal([]byte(payload), data); err != nil {
		return nil, fmt.Errorf("redis_session_store_unmarshal_failed: %w", err)
	}

	return data, nil
}

// # Permission Store

/*
PermissionSet returns every permission name held by the user.

Description: A missing key yields an empty slice — the caller decides what an
empty set means (the service fails closed).

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []string: Granted permission names
  - error: Connectivity failures
*/
func (store *RedisSessionStore) PermissionSet(context context.Context, userID string) ([]string, error) {
	key := constants.RedisPrefixUserPerms + userID

	members, err := store.client.SMembers(context, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis_permission_set_read_failed: %w", err)
	}

	return members, nil
}

/*
GrantPermissions adds permission names to the user's set.

Parameters:
  - context: context.Context
  - userID: string
  - permissions: ...string

Returns:
  - error: Storage failures
*/
func (store *RedisSessionStore) GrantPermissions(context context.Context, userID string, permissions ...string) error {
	if len(permissions) == 0 {
		return nil
	}

	key := constants.RedisPrefixUserPerms + userID
	members := make([]interface{}, len(permissions))
	for i, permission := range permissions {
		members[i] = permission
	}

	if err := store.client.SAdd(context, key, members...).Err(); err != nil {
		return fmt.Errorf("redis_permission_grant_failed: %w", err)
	}

	return nil
}

/*
RevokePermissions removes permission names from the user's set.

Parameters:
  - context: context.Context
  - userID: string
  - permissions: ...string

Returns:
  - error: Storage failures
*/
func (store *RedisSessionStore) RevokePermissions(context context.Context, userID string, permissions ...string) error {
	if len(permissions) == 0 {
		return nil
	}

	key := constants.RedisPrefixUserPerms + userID
	members := make([]interface{}, len(permissions))
	for i, permission := range permissions {
		members[i] = permission
	}

	if err := store.client.SRem(context, key, members...).Err(); err != nil {
		return fmt.Errorf("redis_permission_revoke_failed: %w", err)
	}

	return nil
}
