package schema

// ForumThreadTable represents the 'forum.thread' table
type ForumThreadTable struct {
	Table     string
	ID        string
	BoardID   string
	AuthorID  string
	Title     string
	Content   string
	IsPinned  string
	IsLocked  string
	CreatedAt string
	UpdatedAt string
}

// ForumThread is the schema definition for forum.thread
var ForumThread = ForumThreadTable{
	Table:     "forum.thread",
	ID:        "id",
	BoardID:   "boardid",
	AuthorID:  "authorid",
	Title:     "title",
	Content:   "content",
	IsPinned:  "ispinned",
	IsLocked:  "islocked",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t ForumThreadTable) Columns() []string {
	return []string{
		t.ID, t.BoardID, t.AuthorID, t.Title, t.Content,
		t.IsPinned, t.IsLocked, t.CreatedAt, t.UpdatedAt,
	}
}
