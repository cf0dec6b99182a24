package category

import "context"

// Repository defines the data access contract.
type Repository interface {
	// Create persists a category. A nil ord assigns the next free position.
	Create(context context.Context, category *Category, ord *int) error
	List(context context.Context) ([]*Category, error)
	GetByID(context context.Context, id string) (*Category, error)
	Delete(context context.Context, id string) error
}
