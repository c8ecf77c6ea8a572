package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akarpov/incident-desk/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Authenticator issues and validates bearer tokens.
type Authenticator interface {
	GenerateToken(ctx context.Context, user *domain.User) (token string, expiresAt time.Time, err error)
	ValidateToken(ctx context.Context, token string) (userID string, err error)
}

// Service implements identity business logic.
type Service struct {
	repo Repository
	auth Authenticator
}

// NewService creates a new identity service.
func NewService(repo Repository, auth Authenticator) *Service {
	return &Service{repo: repo, auth: auth}
}

// RegisterInput holds data for creating an account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginInput holds login credentials.
type LoginInput struct {
	Username string
	Password string
}

// AuthResult is the outcome of a successful register or login.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Register creates a new account and issues a token for it.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.auth.GenerateToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Login verifies credentials and issues a token. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.auth.GenerateToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// ValidateToken checks a bearer token and returns the authenticated user id.
// Used by the auth middleware.
func (s *Service) ValidateToken(ctx context.Context, token string) (string, error) {
	return s.auth.ValidateToken(ctx, token)
}
