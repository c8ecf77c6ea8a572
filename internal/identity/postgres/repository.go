// Package postgres provides the PostgreSQL implementation of the identity
// repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/akarpov/incident-desk/internal/domain"
	"github.com/akarpov/incident-desk/internal/identity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

// Repository implements identity.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts a new user and assigns its id. Uniqueness of username
// and email is enforced case-insensitively by database indexes.
func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, first_name, last_name, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.IsActive,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return identity.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by id.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getUser(ctx, `WHERE id = $1`, id)
}

// GetUserByUsername retrieves an active user by username, case-insensitively.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getUser(ctx, `WHERE LOWER(username) = LOWER($1) AND is_active`, username)
}

func (r *Repository) getUser(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `
		SELECT id, username, email, password_hash, first_name, last_name, is_active, created_at
		FROM users ` + where

	var user domain.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.IsActive,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}
