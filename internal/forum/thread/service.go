package thread

import (
	"context"
	"log/slog"

	"github.com/nfalco/parley/internal/forum/board"
	"github.com/nfalco/parley/internal/platform/apperr"
	"github.com/nfalco/parley/internal/platform/sec"
	"github.com/nfalco/parley/pkg/uuidv7"
)

// BoardGetter resolves a board by ID. Satisfied by board.Service.
type BoardGetter interface {
	GetBoard(context context.Context, id string) (*board.Board, error)
}

// ActivityRecorder receives thread lifecycle events. Satisfied by activity.Tracker.
type ActivityRecorder interface {
	ThreadCreated(context context.Context, boardID string)
	ThreadDeleted(context context.Context, boardID string)
}

type Service struct {
	repo     Repository
	boards   BoardGetter
	activity ActivityRecorder
	logger   *slog.Logger
}

func NewService(repo Repository, boards BoardGetter, recorder ActivityRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		boards:   boards,
		activity: recorder,
		logger:   logger,
	}
}

// CreateInput carries the thread creation payload.
type CreateInput struct {
	BoardID  string
	AuthorID string
	Title    string
	Content  string
}

func (service *Service) CreateThread(context context.Context, input CreateInput) (*Thread, error) {
	if _, err := service.boards.GetBoard(context, input.BoardID); err != nil {
		return nil, apperr.ValidationError("Forum does not exist")
	}

	thread := &Thread{
		ID:       uuidv7.New(),
		BoardID:  input.BoardID,
		AuthorID: input.AuthorID,
		Title:    input.Title,
		Content:  input.Content,
	}

	if err := service.repo.Create(context, thread); err != nil {
		return nil, err
	}

	service.activity.ThreadCreated(context, thread.BoardID)

	service.logger.InfoContext(context, "thread_created",
		slog.String("thread_id", thread.ID),
		slog.String("forum_id", thread.BoardID),
	)

	return thread, nil
}

func (service *Service) ListThreads(context context.Context, boardID string, limit, offset int) ([]*Thread, int, error) {
	return service.repo.ListByBoard(context, boardID, limit, offset)
}

func (service *Service) GetThread(context context.Context, id string) (*Thread, error) {
	return service.repo.GetByID(context, id)
}

// # Moderation

func (service *Service) SetPinned(context context.Context, id string, pinned bool) error {
	return service.repo.SetPinned(context, id, pinned)
}

func (service *Service) SetLocked(context context.Context, id string, locked bool) error {
	return service.repo.SetLocked(context, id, locked)
}

// EditTitle renames a thread. Allowed for the thread owner and for
// moderators; everyone else is rejected.
func (service *Service) EditTitle(context context.Context, id, actorID string, actorRole sec.UserRole, title string) (*Thread, error) {
	thread, err := service.repo.GetByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := requireOwnerOrModerator(thread, actorID, actorRole); err != nil {
		return nil, err
	}

	if err := service.repo.UpdateTitle(context, id, title); err != nil {
		return nil, err
	}

	thread.Title = title
	return thread, nil
}

// DeleteThread removes a thread. Allowed for the thread owner and for
// moderators; the board's thread counter is decremented best-effort.
func (service *Service) DeleteThread(context context.Context, id, actorID string, actorRole sec.UserRole) error {
	thread, err := service.repo.GetByID(context, id)
	if err != nil {
		return err
	}

	if err := requireOwnerOrModerator(thread, actorID, actorRole); err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.activity.ThreadDeleted(context, thread.BoardID)
	return nil
}

func requireOwnerOrModerator(thread *Thread, actorID string, actorRole sec.UserRole) error {
	if thread.AuthorID == actorID || actorRole.AtLeast(sec.RoleModerator) {
		return nil
	}
	return apperr.Forbidden("You can only modify your own threads")
}
