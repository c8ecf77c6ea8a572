// Package identity provides user registration, login and bearer-token
// authentication.
package identity

import (
	"context"
	"errors"

	"github.com/akarpov/incident-desk/internal/domain"
)

// Identity errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Repository defines the interface for user storage.
type Repository interface {
	// CreateUser persists a new user, assigning its ID. Returns ErrUserExists
	// when the username or email is already taken (case-insensitive).
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	// GetUserByUsername performs a case-insensitive lookup of active users.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}
