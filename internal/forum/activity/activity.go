// Copyright (c) 2026 Parley. All rights reserved.
// Author: n.falco.dev@gmail.com

// Package activity maintains the forum's volatile bookkeeping in Redis:
// the recent-registrations feed and per-user / per-board content counters.
//
// Every write is best-effort. A Redis hiccup must never fail the domain
// operation that triggered it, so failures are logged and swallowed.
package activity

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/nfalco/parley/internal/platform/constants"
)

// RecentUsersLimit caps the registration feed length.
const RecentUsersLimit = 10

// Counters aggregates the cached content totals for one board.
type Counters struct {
	Threads int64 `json:"thread_count"`
	Posts   int64 `json:"post_count"`
}

// Tracker records forum activity in Redis.
type Tracker struct {
	client *redis.Client
	logger *slog.Logger
}

// NewTracker constructs a Tracker.
func NewTracker(client *redis.Client, logger *slog.Logger) *Tracker {
	return &Tracker{client: client, logger: logger}
}

// UserRegistered pushes a username onto the recent-registrations feed and
// trims it to [RecentUsersLimit]. Implements the auth registration observer.
func (tracker *Tracker) UserRegistered(context context.Context, username string) {
	pipe := tracker.client.Pipeline()
	pipe.LPush(context, constants.RedisKeyRecentUsers, username)
	pipe.LTrim(context, constants.RedisKeyRecentUsers, 0, RecentUsersLimit-1)

	if _, err := pipe.Exec(context); err != nil {
		tracker.logger.WarnContext(context, "activity_recent_users_push_failed", slog.Any("error", err))
	}
}

// RecentUsers returns the most recently registered usernames, newest first.
func (tracker *Tracker) RecentUsers(context context.Context) ([]string, error) {
	return tracker.client.LRange(context, constants.RedisKeyRecentUsers, 0, RecentUsersLimit-1).Result()
}

// PostCreated bumps the author's and the board's post counters.
func (tracker *Tracker) PostCreated(context context.Context, authorID, boardID string) {
	pipe := tracker.client.Pipeline()
	pipe.Incr(context, constants.RedisPrefixUserPosts+authorID)
	pipe.Incr(context, constants.RedisPrefixForumPosts+boardID)

	if _, err := pipe.Exec(context); err != nil {
		tracker.logger.WarnContext(context, "activity_post_created_failed", slog.Any("error", err))
	}
}

// PostDeleted reverses [PostCreated].
func (tracker *Tracker) PostDeleted(context context.Context, authorID, boardID string) {
	pipe := tracker.client.Pipeline()
	pipe.Decr(context, constants.RedisPrefixUserPosts+authorID)
	pipe.Decr(context, constants.RedisPrefixForumPosts+boardID)

	if _, err := pipe.Exec(context); err != nil {
		tracker.logger.WarnContext(context, "activity_post_deleted_failed", slog.Any("error", err))
	}
}

// ThreadCreated bumps the board's thread counter.
func (tracker *Tracker) ThreadCreated(context context.Context, boardID string) {
	if err := tracker.client.Incr(context, constants.RedisPrefixForumThreads+boardID).Err(); err != nil {
		tracker.logger.WarnContext(context, "activity_thread_created_failed", slog.Any("error", err))
	}
}

// ThreadDeleted reverses [ThreadCreated].
func (tracker *Tracker) ThreadDeleted(context context.Context, boardID string) {
	if err := tracker.client.Decr(context, constants.RedisPrefixForumThreads+boardID).Err(); err != nil {
		tracker.logger.WarnContext(context, "activity_thread_deleted_failed", slog.Any("error", err))
	}
}

// BoardCounters reads the cached totals for a set of boards in one round-trip.
// Boards without counters report zero.
func (tracker *Tracker) BoardCounters(context context.Context, boardIDs []string) (map[string]Counters, error) {
	if len(boardIDs) == 0 {
		return map[string]Counters{}, nil
	}

	pipe := tracker.client.Pipeline()
	threadCmds := make([]*redis.StringCmd, len(boardIDs))
	postCmds := make([]*redis.StringCmd, len(boardIDs))

	for i, boardID := range boardIDs {
		threadCmds[i] = pipe.Get(context, constants.RedisPrefixForumThreads+boardID)
		postCmds[i] = pipe.Get(context, constants.RedisPrefixForumPosts+boardID)
	}

	if _, err := pipe.Exec(context); err != nil && err != redis.Nil {
		return nil, err
	}

	counters := make(map[string]Counters, len(boardIDs))
	for i, boardID := range boardIDs {
		counters[boardID] = Counters{
			Threads: parseCounter(threadCmds[i]),
			Posts:   parseCounter(postCmds[i]),
		}
	}

	return counters, nil
}

// UserPostCount returns the cached number of posts authored by the user.
func (tracker *Tracker) UserPostCount(context context.Context, userID string) (int64, error) {
	value, err := tracker.client.Get(context, constants.RedisPrefixUserPosts+userID).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(value, 10, 64)
}

// parseCounter extracts an int64 from a pipelined GET, treating misses as zero.
func parseCounter(cmd *redis.StringCmd) int64 {
	value, err := cmd.Result()
	if err != nil {
		return 0
	}
	count, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return count
}
