package thread_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfalco/parley/internal/forum/board"
	"github.com/nfalco/parley/internal/forum/thread"
	"github.com/nfalco/parley/internal/platform/apperr"
	"github.com/nfalco/parley/internal/platform/sec"
)

type fakeRepo struct {
	mu      sync.Mutex
	threads map[string]*thread.Thread
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{threads: make(map[string]*thread.Thread)}
}

func (f *fakeRepo) Create(_ context.Context, t *thread.Thread) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *t
	f.threads[t.ID] = &clone
	return nil
}

func (f *fakeRepo) ListByBoard(_ context.Context, boardID string, limit, offset int) ([]*thread.Thread, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*thread.Thread
	for _, t := range f.threads {
		if t.BoardID == boardID {
			clone := *t
			out = append(out, &clone)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*thread.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.threads[id]
	if !ok {
		return nil, apperr.NotFound("Thread not found")
	}
	clone := *t
	return &clone, nil
}

func (f *fakeRepo) SetPinned(_ context.Context, id string, pinned bool) error {
	return f.mutate(id, func(t *thread.Thread) { t.IsPinned = pinned })
}

func (f *fakeRepo) SetLocked(_ context.Context, id string, locked bool) error {
	return f.mutate(id, func(t *thread.Thread) { t.IsLocked = locked })
}

func (f *fakeRepo) UpdateTitle(_ context.Context, id, title string) error {
	return f.mutate(id, func(t *thread.Thread) { t.Title = title })
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.threads[id]; !ok {
		return apperr.NotFound("Thread not found")
	}
	delete(f.threads, id)
	return nil
}

func (f *fakeRepo) mutate(id string, fn func(*thread.Thread)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.threads[id]
	if !ok {
		return apperr.NotFound("Thread not found")
	}
	fn(t)
	return nil
}

type fakeBoards struct {
	known map[string]bool
}

func (f *fakeBoards) GetBoard(_ context.Context, id string) (*board.Board, error) {
	if !f.known[id] {
		return nil, apperr.NotFound("Forum not found")
	}
	return &board.Board{ID: id, Name: "General"}, nil
}

type fakeTracker struct {
	mu      sync.Mutex
	created int
	deleted int
}

func (f *fakeTracker) ThreadCreated(_ context.Context, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
}

func (f *fakeTracker) ThreadDeleted(_ context.Context, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted++
}

const testBoardID = "0191e000-0000-7000-8000-00000000aaaa"

func newTestService(t *testing.T) (*thread.Service, *fakeRepo, *fakeTracker) {
	t.Helper()
	repo := newFakeRepo()
	tracker := &fakeTracker{}
	boards := &fakeBoards{known: map[string]bool{testBoardID: true}}
	service := thread.NewService(repo, boards, tracker, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return service, repo, tracker
}

/*
TestCreateThread verifies creation against an existing board and rejection
when the board is unknown.
*/
func TestCreateThread(t *testing.T) {
	service, _, tracker := newTestService(t)
	ctx := context.Background()

	created, err := service.CreateThread(ctx, thread.CreateInput{
		BoardID:  testBoardID,
		AuthorID: "author-1",
		Title:    "Welcome",
		Content:  "First!",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.IsPinned)
	assert.False(t, created.IsLocked)
	assert.Equal(t, 1, tracker.created)

	// Unknown board is a validation failure, not an internal error
	_, err = service.CreateThread(ctx, thread.CreateInput{
		BoardID:  "0191e000-0000-7000-8000-00000000bbbb",
		AuthorID: "author-1",
		Title:    "Nope",
		Content:  "Nope",
	})
	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

/*
TestEditTitle_OwnerOrModerator verifies the ownership gate: the author and
moderators may rename a thread, other users may not.
*/
func TestEditTitle_OwnerOrModerator(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.CreateThread(ctx, thread.CreateInput{
		BoardID:  testBoardID,
		AuthorID: "owner-1",
		Title:    "Original",
		Content:  "Body",
	})
	require.NoError(t, err)

	// 1. A stranger with the plain user role is rejected
	_, err = service.EditTitle(ctx, created.ID, "stranger", sec.RoleUser, "Hijacked")
	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)

	// 2. The owner succeeds
	updated, err := service.EditTitle(ctx, created.ID, "owner-1", sec.RoleUser, "Renamed by owner")
	require.NoError(t, err)
	assert.Equal(t, "Renamed by owner", updated.Title)

	// 3. A moderator who is not the owner also succeeds
	updated, err = service.EditTitle(ctx, created.ID, "mod-1", sec.RoleModerator, "Renamed by mod")
	require.NoError(t, err)
	assert.Equal(t, "Renamed by mod", updated.Title)
}

/*
TestDeleteThread verifies the ownership gate on deletion and that the
activity counter hook fires exactly once per delete.
*/
func TestDeleteThread(t *testing.T) {
	service, repo, tracker := newTestService(t)
	ctx := context.Background()

	created, err := service.CreateThread(ctx, thread.CreateInput{
		BoardID:  testBoardID,
		AuthorID: "owner-1",
		Title:    "Doomed",
		Content:  "Body",
	})
	require.NoError(t, err)

	err = service.DeleteThread(ctx, created.ID, "stranger", sec.RoleUser)
	require.Error(t, err)
	assert.Equal(t, 0, tracker.deleted)

	err = service.DeleteThread(ctx, created.ID, "owner-1", sec.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, 1, tracker.deleted)

	_, err = repo.GetByID(ctx, created.ID)
	require.Error(t, err)
}

/*
TestModerationFlags verifies pin and lock round-trips.
*/
func TestModerationFlags(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.CreateThread(ctx, thread.CreateInput{
		BoardID:  testBoardID,
		AuthorID: "owner-1",
		Title:    "Sticky",
		Content:  "Body",
	})
	require.NoError(t, err)

	require.NoError(t, service.SetPinned(ctx, created.ID, true))
	require.NoError(t, service.SetLocked(ctx, created.ID, true))

	current, err := service.GetThread(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, current.IsPinned)
	assert.True(t, current.IsLocked)

	require.NoError(t, service.SetPinned(ctx, created.ID, false))
	current, err = service.GetThread(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, current.IsPinned)

	// Unknown thread surfaces not found
	err = service.SetLocked(ctx, "missing", true)
	require.Error(t, err)
}
