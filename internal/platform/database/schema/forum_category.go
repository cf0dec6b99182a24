package schema

// ForumCategoryTable represents the 'forum.category' table
type ForumCategoryTable struct {
	Table     string
	ID        string
	Name      string
	Ord       string
	CreatedAt string
}

// ForumCategory is the schema definition for forum.category
var ForumCategory = ForumCategoryTable{
	Table:     "forum.category",
	ID:        "id",
	Name:      "name",
	Ord:       "ord",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t ForumCategoryTable) Columns() []string {
	return []string{t.ID, t.Name, t.Ord, t.CreatedAt}
}
