// Package postgres provides the PostgreSQL implementation of the catalog
// repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/akarpov/incident-desk/internal/catalog"
	"github.com/akarpov/incident-desk/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements catalog.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListActive returns active categories ordered by name.
func (r *Repository) ListActive(ctx context.Context) ([]domain.Category, error) {
	query := `
		SELECT id, name, description, is_active
		FROM categories
		WHERE is_active
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return result, nil
}

// GetByID retrieves a category by id.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	query := `
		SELECT id, name, description, is_active
		FROM categories
		WHERE id = $1
	`
	var c domain.Category
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Description, &c.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &c, nil
}
