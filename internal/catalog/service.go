package catalog

import (
	"context"

	"github.com/akarpov/incident-desk/internal/domain"
)

// Service implements category lookups. It also serves the incidents module as
// its category name resolver.
type Service struct {
	repo Repository
}

// NewService creates a new catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListCategories returns active categories ordered by name.
func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListActive(ctx)
}

// GetCategoryName resolves a category id to its display name.
func (s *Service) GetCategoryName(ctx context.Context, id string) (string, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return category.Name, nil
}
