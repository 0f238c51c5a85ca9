package domain

import "time"

const (
	// UsernameMinLength is the minimum number of characters in a trimmed username.
	UsernameMinLength = 3
	// UsernameMaxLength is the maximum number of characters in a trimmed username.
	UsernameMaxLength = 100
	// PasswordMinLength is the minimum number of characters in a password.
	PasswordMinLength = 6
)

// User represents a registered account.
type User struct {
	ID           int64     // Unique identifier assigned by the store
	Username     string    // Trimmed login name, unique
	PasswordHash []byte    // Salted one-way digest of the password
	CreatedAt    time.Time // Set once at creation
}

// UserResponse is the public view of a user returned by signup and login.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Response returns the public view of the user.
func (u User) Response() UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username}
}
