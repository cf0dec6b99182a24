package schema

// UserRoleTable represents the 'users.role' table
type UserRoleTable struct {
	Table     string
	ID        string
	Name      string
	CreatedAt string
}

// UserRole is the schema definition for users.role
var UserRole = UserRoleTable{
	Table:     "users.role",
	ID:        "id",
	Name:      "name",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t UserRoleTable) Columns() []string {
	return []string{t.ID, t.Name, t.CreatedAt}
}
