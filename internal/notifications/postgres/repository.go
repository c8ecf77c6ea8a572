// Package postgres provides the PostgreSQL implementation of the
// notifications store.
package postgres

import (
	"context"
	"fmt"

	"github.com/akarpov/incident-desk/internal/domain"
	"github.com/akarpov/incident-desk/internal/notifications"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements notifications.Store using PostgreSQL. Row-level locking in
// the database gives the per-user mutual exclusion the Store contract asks
// for.
type Store struct {
	db *pgxpool.Pool
}

// NewStore creates a new PostgreSQL store.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Create inserts a notification and assigns its id.
func (s *Store) Create(ctx context.Context, notification *domain.Notification) error {
	query := `
		INSERT INTO notifications (owner_user_id, title, message, type, is_read, created_at, incident_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := s.db.QueryRow(ctx, query,
		notification.OwnerUserID,
		notification.Title,
		notification.Message,
		notification.Type,
		notification.IsRead,
		notification.CreatedAt,
		notification.IncidentID,
	).Scan(&notification.ID)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

// ListByUser returns the user's notifications, most recent first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	query := `
		SELECT id, owner_user_id, title, message, type, is_read, created_at, incident_id
		FROM notifications
		WHERE owner_user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var result []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID,
			&n.OwnerUserID,
			&n.Title,
			&n.Message,
			&n.Type,
			&n.IsRead,
			&n.CreatedAt,
			&n.IncidentID,
		); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		result = append(result, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}

	return result, nil
}

// UnreadCount returns the number of unread notifications for the user.
func (s *Store) UnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE owner_user_id = $1 AND NOT is_read`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}

	return count, nil
}

// MarkRead marks a single notification as read.
func (s *Store) MarkRead(ctx context.Context, id, userID string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND owner_user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notifications.ErrNotificationNotFound
	}

	return nil
}

// MarkAllRead marks every notification of the user as read.
func (s *Store) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE owner_user_id = $1 AND NOT is_read`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}

	return nil
}
