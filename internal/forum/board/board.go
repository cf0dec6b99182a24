// Package board manages the discussion boards that live under categories.
//
// A board (exposed as "forum" in the API) is the container threads are
// created in. Listings are enriched with cached thread/post counters from
// the activity tracker.
package board

import (
	"time"

	"github.com/nfalco/parley/internal/forum/category"
)

// Board is a titled container of threads under a category.
type Board struct {
	ID          string    `json:"id"`
	CategoryID  string    `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Category is preloaded on listings.
	Category *category.Category `json:"category,omitempty"`

	// Cached activity counters; zero when the tracker has no data.
	ThreadCount int64 `json:"thread_count"`
	PostCount   int64 `json:"post_count"`
}

const (
	// MaxNameLength keeps board names displayable in navigation.
	MaxNameLength = 80
	// MaxDescriptionLength bounds the board subtitle.
	MaxDescriptionLength = 500
)
