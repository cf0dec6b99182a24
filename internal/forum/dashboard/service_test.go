package dashboard_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfalco/parley/internal/forum/dashboard"
)

type fakeRepo struct {
	stats *dashboard.Stats
	err   error
}

func (f *fakeRepo) Counts(_ context.Context) (*dashboard.Stats, error) {
	if f.err != nil {
		return nil, f.err
	}
	clone := *f.stats
	return &clone, nil
}

type fakeRecent struct {
	users []string
	err   error
}

func (f *fakeRecent) RecentUsers(_ context.Context) ([]string, error) {
	return f.users, f.err
}

func TestGetStats(t *testing.T) {
	repo := &fakeRepo{stats: &dashboard.Stats{
		UserCount:     4,
		CategoryCount: 2,
		ForumCount:    3,
		ThreadCount:   10,
		PostCount:     42,
	}}
	recent := &fakeRecent{users: []string{"newest", "older"}}
	service := dashboard.NewService(repo, recent, slog.New(slog.NewTextHandler(io.Discard, nil)))

	stats, err := service.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), stats.PostCount)
	assert.Equal(t, []string{"newest", "older"}, stats.RecentUsers)
}

/*
TestGetStats_RecentFeedDegrades verifies that a cache failure empties the
feed instead of failing the whole dashboard.
*/
func TestGetStats_RecentFeedDegrades(t *testing.T) {
	repo := &fakeRepo{stats: &dashboard.Stats{UserCount: 1}}
	recent := &fakeRecent{err: errors.New("redis down")}
	service := dashboard.NewService(repo, recent, slog.New(slog.NewTextHandler(io.Discard, nil)))

	stats, err := service.GetStats(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, stats.RecentUsers)
	assert.Empty(t, stats.RecentUsers)
}

func TestGetStats_CountsFailure(t *testing.T) {
	repo := &fakeRepo{err: errors.New("postgres down")}
	service := dashboard.NewService(repo, &fakeRecent{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := service.GetStats(context.Background())
	require.Error(t, err)
}
