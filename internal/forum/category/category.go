// Package category manages the top-level grouping of forum boards.
//
// Categories are purely organizational: a name and a display position.
// Ordering is dense and unique, assigned automatically unless the admin
// pins an explicit position.
package category

import "time"

// Category is a named, ordered group of boards.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Ord       int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	// MaxNameLength keeps category names displayable in navigation.
	MaxNameLength = 50
)
