// Package postgres provides the PostgreSQL implementation of the incidents
// repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/akarpov/incident-desk/internal/domain"
	"github.com/akarpov/incident-desk/internal/incidents"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements incidents.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Get retrieves an incident by id, scoped to its owner.
func (r *Repository) Get(ctx context.Context, id, ownerUserID string) (*domain.Incident, error) {
	query := `
		SELECT id, title, description, category_id, owner_user_id, status, resolution,
		       created_at, updated_at, row_version
		FROM incidents
		WHERE id = $1 AND owner_user_id = $2
	`
	var incident domain.Incident
	err := r.db.QueryRow(ctx, query, id, ownerUserID).Scan(
		&incident.ID,
		&incident.Title,
		&incident.Description,
		&incident.CategoryID,
		&incident.OwnerUserID,
		&incident.Status,
		&incident.Resolution,
		&incident.CreatedAt,
		&incident.UpdatedAt,
		&incident.RowVersion,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, incidents.ErrNotFound
		}
		return nil, fmt.Errorf("get incident: %w", err)
	}

	return &incident, nil
}

// GetAll retrieves the owner's incidents, newest first.
func (r *Repository) GetAll(ctx context.Context, ownerUserID string) ([]*domain.Incident, error) {
	query := `
		SELECT id, title, description, category_id, owner_user_id, status, resolution,
		       created_at, updated_at, row_version
		FROM incidents
		WHERE owner_user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()

	var result []*domain.Incident
	for rows.Next() {
		var incident domain.Incident
		if err := rows.Scan(
			&incident.ID,
			&incident.Title,
			&incident.Description,
			&incident.CategoryID,
			&incident.OwnerUserID,
			&incident.Status,
			&incident.Resolution,
			&incident.CreatedAt,
			&incident.UpdatedAt,
			&incident.RowVersion,
		); err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		result = append(result, &incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incidents: %w", err)
	}

	return result, nil
}

// Create inserts a new incident and assigns its id and initial row version.
func (r *Repository) Create(ctx context.Context, incident *domain.Incident) error {
	query := `
		INSERT INTO incidents (title, description, category_id, owner_user_id, status, resolution, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, row_version
	`
	err := r.db.QueryRow(ctx, query,
		incident.Title,
		incident.Description,
		incident.CategoryID,
		incident.OwnerUserID,
		incident.Status,
		incident.Resolution,
		incident.CreatedAt,
		incident.UpdatedAt,
	).Scan(&incident.ID, &incident.RowVersion)
	if err != nil {
		return fmt.Errorf("insert incident: %w", err)
	}

	return nil
}

// Update persists the incident if its row version is still current. The
// version check is the optimistic concurrency token: a concurrent writer that
// committed first bumps the version and this write fails with
// ErrConcurrencyConflict instead of silently overwriting.
func (r *Repository) Update(ctx context.Context, incident *domain.Incident) error {
	query := `
		UPDATE incidents
		SET title = $1, description = $2, category_id = $3, status = $4,
		    resolution = $5, updated_at = $6, row_version = row_version + 1
		WHERE id = $7 AND owner_user_id = $8 AND row_version = $9
		RETURNING row_version
	`
	err := r.db.QueryRow(ctx, query,
		incident.Title,
		incident.Description,
		incident.CategoryID,
		incident.Status,
		incident.Resolution,
		incident.UpdatedAt,
		incident.ID,
		incident.OwnerUserID,
		incident.RowVersion,
	).Scan(&incident.RowVersion)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("update incident: %w", err)
	}

	// No row matched: either the incident is gone (or not ours) or the
	// version is stale. Distinguish the two for the caller.
	var exists bool
	checkErr := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM incidents WHERE id = $1 AND owner_user_id = $2)`,
		incident.ID, incident.OwnerUserID,
	).Scan(&exists)
	if checkErr != nil {
		return fmt.Errorf("update incident: %w", checkErr)
	}
	if exists {
		return incidents.ErrConcurrencyConflict
	}
	return incidents.ErrNotFound
}

// Delete removes an incident, scoped to its owner.
func (r *Repository) Delete(ctx context.Context, incident *domain.Incident) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM incidents WHERE id = $1 AND owner_user_id = $2`,
		incident.ID, incident.OwnerUserID,
	)
	if err != nil {
		return fmt.Errorf("delete incident: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return incidents.ErrNotFound
	}

	return nil
}
