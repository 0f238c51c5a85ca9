package domain

// Category is a named label for expenses. Categories are shared by all users.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
