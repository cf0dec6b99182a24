package schema

// ForumBoardTable represents the 'forum.board' table
type ForumBoardTable struct {
	Table       string
	ID          string
	CategoryID  string
	Name        string
	Description string
	CreatedAt   string
	UpdatedAt   string
}

// ForumBoard is the schema definition for forum.board
var ForumBoard = ForumBoardTable{
	Table:       "forum.board",
	ID:          "id",
	CategoryID:  "categoryid",
	Name:        "name",
	Description: "description",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t ForumBoardTable) Columns() []string {
	return []string{t.ID, t.CategoryID, t.Name, t.Description, t.CreatedAt, t.UpdatedAt}
}
