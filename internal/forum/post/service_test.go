package post_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfalco/parley/internal/forum/post"
	"github.com/nfalco/parley/internal/forum/thread"
	"github.com/nfalco/parley/internal/platform/apperr"
	"github.com/nfalco/parley/internal/platform/sec"
)

type fakeRepo struct {
	mu    sync.Mutex
	posts map[string]*post.Post
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{posts: make(map[string]*post.Post)}
}

func (f *fakeRepo) Create(_ context.Context, p *post.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *p
	f.posts[p.ID] = &clone
	return nil
}

func (f *fakeRepo) ListByThread(_ context.Context, threadID string, limit, offset int) ([]*post.Post, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*post.Post
	for _, p := range f.posts {
		if p.ThreadID == threadID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*post.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, apperr.NotFound("Post not found")
	}
	clone := *p
	return &clone, nil
}

func (f *fakeRepo) UpdateContent(_ context.Context, id, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return apperr.NotFound("Post not found")
	}
	p.Content = content
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return apperr.NotFound("Post not found")
	}
	delete(f.posts, id)
	return nil
}

type fakeThreads struct {
	threads map[string]*thread.Thread
}

func (f *fakeThreads) GetThread(_ context.Context, id string) (*thread.Thread, error) {
	t, ok := f.threads[id]
	if !ok {
		return nil, apperr.NotFound("Thread not found")
	}
	return t, nil
}

type fakeTracker struct {
	mu      sync.Mutex
	created int
	deleted int
}

func (f *fakeTracker) PostCreated(_ context.Context, _, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
}

func (f *fakeTracker) PostDeleted(_ context.Context, _, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted++
}

const (
	openThreadID   = "0191e000-0000-7000-8000-00000000cccc"
	lockedThreadID = "0191e000-0000-7000-8000-00000000dddd"
)

func newTestService(t *testing.T) (*post.Service, *fakeTracker) {
	t.Helper()
	threads := &fakeThreads{threads: map[string]*thread.Thread{
		openThreadID:   {ID: openThreadID, BoardID: "board-1"},
		lockedThreadID: {ID: lockedThreadID, BoardID: "board-1", IsLocked: true},
	}}
	tracker := &fakeTracker{}
	service := post.NewService(newFakeRepo(), threads, tracker, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return service, tracker
}

/*
TestCreatePost_LockedThreadGuard verifies that replies land on open threads
and are rejected on locked or missing threads.
*/
func TestCreatePost_LockedThreadGuard(t *testing.T) {
	service, tracker := newTestService(t)
	ctx := context.Background()

	// 1. Open thread accepts the reply
	created, err := service.CreatePost(ctx, post.CreateInput{
		ThreadID: openThreadID,
		AuthorID: "author-1",
		Content:  "A reply",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1, tracker.created)

	// 2. Locked thread refuses it
	_, err = service.CreatePost(ctx, post.CreateInput{
		ThreadID: lockedThreadID,
		AuthorID: "author-1",
		Content:  "Too late",
	})
	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)

	// 3. Missing thread is a validation failure
	_, err = service.CreatePost(ctx, post.CreateInput{
		ThreadID: "0191e000-0000-7000-8000-00000000eeee",
		AuthorID: "author-1",
		Content:  "Ghost",
	})
	require.Error(t, err)
	appErr = apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	assert.Equal(t, 1, tracker.created)
}

/*
TestEditContent_OwnerOrModerator verifies the ownership gate on edits.
*/
func TestEditContent_OwnerOrModerator(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.CreatePost(ctx, post.CreateInput{
		ThreadID: openThreadID,
		AuthorID: "owner-1",
		Content:  "Original",
	})
	require.NoError(t, err)

	_, err = service.EditContent(ctx, created.ID, "stranger", sec.RoleUser, "Hijacked")
	require.Error(t, err)

	updated, err := service.EditContent(ctx, created.ID, "owner-1", sec.RoleUser, "Fixed typo")
	require.NoError(t, err)
	assert.Equal(t, "Fixed typo", updated.Content)

	updated, err = service.EditContent(ctx, created.ID, "mod-1", sec.RoleModerator, "Moderated")
	require.NoError(t, err)
	assert.Equal(t, "Moderated", updated.Content)
}

/*
TestDeletePost verifies the ownership gate on deletion and the activity
counter hook.
*/
func TestDeletePost(t *testing.T) {
	service, tracker := newTestService(t)
	ctx := context.Background()

	created, err := service.CreatePost(ctx, post.CreateInput{
		ThreadID: openThreadID,
		AuthorID: "owner-1",
		Content:  "Doomed",
	})
	require.NoError(t, err)

	err = service.DeletePost(ctx, created.ID, "stranger", sec.RoleUser)
	require.Error(t, err)
	assert.Equal(t, 0, tracker.deleted)

	err = service.DeletePost(ctx, created.ID, "mod-1", sec.RoleModerator)
	require.NoError(t, err)
	assert.Equal(t, 1, tracker.deleted)

	err = service.DeletePost(ctx, created.ID, "mod-1", sec.RoleModerator)
	require.Error(t, err)
}
