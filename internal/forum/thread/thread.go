// Package thread manages discussion threads: creation, listing, moderation
// flags (pin/lock), and owner-or-moderator editing.
package thread

import "time"

// Thread is a titled discussion opened on a board.
type Thread struct {
	ID        string    `json:"id"`
	BoardID   string    `json:"forum_id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsPinned  bool      `json:"is_pinned"`
	IsLocked  bool      `json:"is_locked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Author is preloaded on reads.
	Author *AuthorRef `json:"author,omitempty"`
}

// AuthorRef is the minimal author projection embedded in listings.
type AuthorRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

const (
	// MaxTitleLength keeps thread titles displayable in listings.
	MaxTitleLength = 120
	// MaxContentLength bounds the opening message.
	MaxContentLength = 20000
)
