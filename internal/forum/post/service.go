package post

import (
	"context"
	"log/slog"

	"github.com/nfalco/parley/internal/forum/thread"
	"github.com/nfalco/parley/internal/platform/apperr"
	"github.com/nfalco/parley/internal/platform/sec"
	"github.com/nfalco/parley/pkg/uuidv7"
)

// ThreadGetter resolves a thread by ID. Satisfied by thread.Service.
type ThreadGetter interface {
	GetThread(context context.Context, id string) (*thread.Thread, error)
}

// ActivityRecorder receives post lifecycle events. Satisfied by activity.Tracker.
type ActivityRecorder interface {
	PostCreated(context context.Context, userID, boardID string)
	PostDeleted(context context.Context, userID, boardID string)
}

type Service struct {
	repo     Repository
	threads  ThreadGetter
	activity ActivityRecorder
	logger   *slog.Logger
}

func NewService(repo Repository, threads ThreadGetter, recorder ActivityRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		threads:  threads,
		activity: recorder,
		logger:   logger,
	}
}

// CreateInput carries the post creation payload.
type CreateInput struct {
	ThreadID string
	AuthorID string
	Content  string
}

// CreatePost adds a reply to a thread. The thread must exist and must not
// be locked.
func (service *Service) CreatePost(context context.Context, input CreateInput) (*Post, error) {
	parent, err := service.threads.GetThread(context, input.ThreadID)
	if err != nil {
		return nil, apperr.ValidationError("Thread does not exist")
	}
	if parent.IsLocked {
		return nil, apperr.Forbidden("Thread is locked")
	}

	post := &Post{
		ID:       uuidv7.New(),
		ThreadID: input.ThreadID,
		AuthorID: input.AuthorID,
		Content:  input.Content,
	}

	if err := service.repo.Create(context, post); err != nil {
		return nil, err
	}

	service.activity.PostCreated(context, post.AuthorID, parent.BoardID)

	service.logger.InfoContext(context, "post_created",
		slog.String("post_id", post.ID),
		slog.String("thread_id", post.ThreadID),
	)

	return post, nil
}

func (service *Service) ListPosts(context context.Context, threadID string, limit, offset int) ([]*Post, int, error) {
	return service.repo.ListByThread(context, threadID, limit, offset)
}

// EditContent rewrites a post body. Allowed for the post owner and for
// moderators.
func (service *Service) EditContent(context context.Context, id, actorID string, actorRole sec.UserRole, content string) (*Post, error) {
	post, err := service.repo.GetByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := requireOwnerOrModerator(post, actorID, actorRole); err != nil {
		return nil, err
	}

	if err := service.repo.UpdateContent(context, id, content); err != nil {
		return nil, err
	}

	post.Content = content
	return post, nil
}

// DeletePost removes a post. Allowed for the post owner and for moderators;
// activity counters are decremented best-effort.
func (service *Service) DeletePost(context context.Context, id, actorID string, actorRole sec.UserRole) error {
	post, err := service.repo.GetByID(context, id)
	if err != nil {
		return err
	}

	if err := requireOwnerOrModerator(post, actorID, actorRole); err != nil {
		return err
	}

	// Resolve the board before the row disappears; counters are skipped if
	// the parent thread is already gone
	parent, parentErr := service.threads.GetThread(context, post.ThreadID)

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	if parentErr == nil {
		service.activity.PostDeleted(context, post.AuthorID, parent.BoardID)
	}

	return nil
}

func requireOwnerOrModerator(post *Post, actorID string, actorRole sec.UserRole) error {
	if post.AuthorID == actorID || actorRole.AtLeast(sec.RoleModerator) {
		return nil
	}
	return apperr.Forbidden("You can only modify your own posts")
}
