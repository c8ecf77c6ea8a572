package domain

import "time"

// User represents a registered account. PasswordHash is a bcrypt hash and is
// never serialized to API responses.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsActive     bool
	CreatedAt    time.Time
}
