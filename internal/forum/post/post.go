// Package post manages replies inside threads, including the locked-thread
// guard on creation and owner-or-moderator deletion.
package post

import "time"

// Post is a reply inside a thread.
type Post struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
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

// MaxContentLength bounds a single reply.
const MaxContentLength = 20000
