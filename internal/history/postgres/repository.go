// Package postgres provides the PostgreSQL implementation of the history
// repository.
package postgres

import (
	"context"
	"fmt"

	"github.com/akarpov/incident-desk/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements history.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Append inserts an audit row. The table is append-only; there are no update
// or delete operations.
func (r *Repository) Append(ctx context.Context, entry *domain.IncidentHistory) error {
	query := `
		INSERT INTO incident_history (incident_id, from_status, to_status, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		entry.IncidentID,
		entry.FromStatus,
		entry.ToStatus,
		entry.ChangedBy,
		entry.ChangedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("append incident history: %w", err)
	}

	return nil
}
