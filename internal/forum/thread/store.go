package thread

import "context"

// Repository defines the data access contract.
type Repository interface {
	Create(context context.Context, thread *Thread) error
	// ListByBoard returns a page of threads, pinned first, then newest first.
	ListByBoard(context context.Context, boardID string, limit, offset int) ([]*Thread, int, error)
	GetByID(context context.Context, id string) (*Thread, error)
	SetPinned(context context.Context, id string, pinned bool) error
	SetLocked(context context.Context, id string, locked bool) error
	UpdateTitle(context context.Context, id, title string) error
	Delete(context context.Context, id string) error
}
