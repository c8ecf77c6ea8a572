package domain

// Category is an informational label an incident may reference. Categories
// carry no workflow behavior.
type Category struct {
	ID          string
	Name        string
	Description string
	IsActive    bool
}
