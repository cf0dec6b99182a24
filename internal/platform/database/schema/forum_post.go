package schema

// ForumPostTable represents the 'forum.post' table
type ForumPostTable struct {
	Table     string
	ID        string
	ThreadID  string
	AuthorID  string
	Content   string
	CreatedAt string
	UpdatedAt string
}

// ForumPost is the schema definition for forum.post
var ForumPost = ForumPostTable{
	Table:     "forum.post",
	ID:        "id",
	ThreadID:  "threadid",
	AuthorID:  "authorid",
	Content:   "content",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t ForumPostTable) Columns() []string {
	return []string{t.ID, t.ThreadID, t.AuthorID, t.Content, t.CreatedAt, t.UpdatedAt}
}
