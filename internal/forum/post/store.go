package post

import "context"

// Repository defines the data access contract.
type Repository interface {
	Create(context context.Context, post *Post) error
	// ListByThread returns a page of posts in chronological order.
	ListByThread(context context.Context, threadID string, limit, offset int) ([]*Post, int, error)
	GetByID(context context.Context, id string) (*Post, error)
	UpdateContent(context context.Context, id, content string) error
	Delete(context context.Context, id string) error
}
