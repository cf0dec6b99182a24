package board

import "context"

// UpdateInput carries the partial-update payload; nil fields are untouched.
type UpdateInput struct {
	Name        *string
	Description *string
	CategoryID  *string
}

// Repository defines the data access contract.
type Repository interface {
	Create(context context.Context, board *Board) error
	// List returns all boards with their category preloaded, ordered by the
	// category position and then the board name.
	List(context context.Context) ([]*Board, error)
	GetByID(context context.Context, id string) (*Board, error)
	Update(context context.Context, id string, input UpdateInput) (*Board, error)
}
