// Package notifications provides the per-user notification feed: lifecycle
// subscribers create entries, the API exposes read and mark-read operations.
package notifications

import (
	"context"
	"errors"

	"github.com/akarpov/incident-desk/internal/domain"
)

// ErrNotificationNotFound is returned when a notification does not exist or
// belongs to another user.
var ErrNotificationNotFound = errors.New("notification not found")

// Store defines the notification storage backend. Implementations must
// support concurrent appends and mark-reads across users without cross-user
// interference, and serialize mutations within a single user's list.
type Store interface {
	Create(ctx context.Context, notification *domain.Notification) error
	// ListByUser returns the user's notifications, most recent first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}
