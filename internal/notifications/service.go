package notifications

import (
	"context"

	"github.com/akarpov/incident-desk/internal/domain"
)

// Service provides the notification feed operations exposed to the API.
type Service struct {
	store Store
}

// NewService creates a new notifications service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the user's notifications, most recent first.
func (s *Service) List(ctx context.Context, userID string) ([]*domain.Notification, error) {
	return s.store.ListByUser(ctx, userID)
}

// UnreadCount returns the number of unread notifications for the user.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.store.UnreadCount(ctx, userID)
}

// MarkRead marks one of the user's notifications as read.
func (s *Service) MarkRead(ctx context.Context, id, userID string) error {
	return s.store.MarkRead(ctx, id, userID)
}

// MarkAllRead marks all of the user's notifications as read.
func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.store.MarkAllRead(ctx, userID)
}
