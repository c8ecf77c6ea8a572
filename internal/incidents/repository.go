// Package incidents implements the incident workflow: CRUD orchestration,
// state transitions and post-commit domain event dispatch.
package incidents

import (
	"context"
	"errors"

	"github.com/akarpov/incident-desk/internal/domain"
)

// Repository errors.
var (
	// ErrNotFound covers both unknown ids and incidents owned by another
	// user; callers must not be able to tell the two apart.
	ErrNotFound = errors.New("incident not found")

	// ErrConcurrencyConflict signals a stale write: the row version read
	// earlier no longer matches. Callers retry by re-reading.
	ErrConcurrencyConflict = errors.New("incident was modified concurrently")
)

// Repository defines the persistence gateway for incidents. All reads and
// writes are scoped to the owning user.
type Repository interface {
	Get(ctx context.Context, id, ownerUserID string) (*domain.Incident, error)
	GetAll(ctx context.Context, ownerUserID string) ([]*domain.Incident, error)
	// Create persists a new incident, assigning its ID and initial row version.
	Create(ctx context.Context, incident *domain.Incident) error
	// Update persists changes if the incident's row version is still current,
	// bumping the version on success. Returns ErrConcurrencyConflict otherwise.
	Update(ctx context.Context, incident *domain.Incident) error
	Delete(ctx context.Context, incident *domain.Incident) error
}
