package board

import (
	"context"
	"log/slog"

	"github.com/nfalco/parley/internal/forum/activity"
	"github.com/nfalco/parley/internal/forum/category"
	"github.com/nfalco/parley/internal/platform/apperr"
	"github.com/nfalco/parley/pkg/uuidv7"
)

// CategoryGetter resolves a category by ID. Satisfied by category.Service.
type CategoryGetter interface {
	GetCategory(context context.Context, id string) (*category.Category, error)
}

// CounterSource reads cached board activity. Satisfied by activity.Tracker.
type CounterSource interface {
	BoardCounters(context context.Context, boardIDs []string) (map[string]activity.Counters, error)
}

type Service struct {
	repo       Repository
	categories CategoryGetter
	counters   CounterSource
	logger     *slog.Logger
}

func NewService(repo Repository, categories CategoryGetter, counters CounterSource, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		counters:   counters,
		logger:     logger,
	}
}

// CreateInput carries the board creation payload.
type CreateInput struct {
	CategoryID  string
	Name        string
	Description string
}

func (service *Service) CreateBoard(context context.Context, input CreateInput) (*Board, error) {
	// The target category must exist; a dangling reference is a caller
	// mistake, not a conflict.
	parent, err := service.categories.GetCategory(context, input.CategoryID)
	if err != nil {
		return nil, apperr.ValidationError("Category does not exist")
	}

	board := &Board{
		ID:          uuidv7.New(),
		CategoryID:  parent.ID,
		Name:        input.Name,
		Description: input.Description,
	}

	if err := service.repo.Create(context, board); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "board_created",
		slog.String("board_id", board.ID),
		slog.String("category_id", board.CategoryID),
	)

	board.Category = parent
	return board, nil
}

func (service *Service) ListBoards(context context.Context) ([]*Board, error) {
	boards, err := service.repo.List(context)
	if err != nil {
		return nil, err
	}

	service.attachCounters(context, boards)
	return boards, nil
}

func (service *Service) GetBoard(context context.Context, id string) (*Board, error) {
	board, err := service.repo.GetByID(context, id)
	if err != nil {
		return nil, err
	}

	service.attachCounters(context, []*Board{board})
	return board, nil
}

func (service *Service) UpdateBoard(context context.Context, id string, input UpdateInput) (*Board, error) {
	if input.CategoryID != nil {
		if _, err := service.categories.GetCategory(context, *input.CategoryID); err != nil {
			return nil, apperr.ValidationError("Category does not exist")
		}
	}

	return service.repo.Update(context, id, input)
}

// attachCounters enriches boards with cached activity totals; a tracker
// failure degrades to zeroes rather than failing the listing.
func (service *Service) attachCounters(context context.Context, boards []*Board) {
	ids := make([]string, len(boards))
	for i, b := range boards {
		ids[i] = b.ID
	}

	counters, err := service.counters.BoardCounters(context, ids)
	if err != nil {
		service.logger.WarnContext(context, "board_counters_unavailable", slog.Any("error", err))
		return
	}

	for _, b := range boards {
		if c, ok := counters[b.ID]; ok {
			b.ThreadCount = c.Threads
			b.PostCount = c.Posts
		}
	}
}
