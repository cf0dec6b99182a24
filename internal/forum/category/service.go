package category

import (
	"context"
	"log/slog"

	"github.com/nfalco/parley/pkg/uuidv7"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// CreateInput carries the category creation payload. A nil Ord lets the
// store assign the next free display position.
type CreateInput struct {
	Name string
	Ord  *int
}

func (service *Service) CreateCategory(context context.Context, input CreateInput) (*Category, error) {
	category := &Category{
		ID:   uuidv7.New(),
		Name: input.Name,
	}

	if err := service.repo.Create(context, category, input.Ord); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "category_created",
		slog.String("category_id", category.ID),
		slog.Int("order", category.Ord),
	)

	return category, nil
}

func (service *Service) ListCategories(context context.Context) ([]*Category, error) {
	return service.repo.List(context)
}

func (service *Service) GetCategory(context context.Context, id string) (*Category, error) {
	return service.repo.GetByID(context, id)
}

func (service *Service) DeleteCategory(context context.Context, id string) error {
	return service.repo.Delete(context, id)
}
