// Package catalog provides the incident category reference data.
package catalog

import (
	"context"
	"errors"

	"github.com/akarpov/incident-desk/internal/domain"
)

// ErrCategoryNotFound is returned when a category does not exist.
var ErrCategoryNotFound = errors.New("category not found")

// Repository defines the interface for category storage.
type Repository interface {
	// ListActive returns active categories ordered by name.
	ListActive(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id string) (*domain.Category, error)
}
