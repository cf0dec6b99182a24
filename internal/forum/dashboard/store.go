package dashboard

import "context"

// Repository counts rows per entity.
type Repository interface {
	Counts(context context.Context) (*Stats, error)
}
