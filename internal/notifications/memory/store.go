// Package memory provides an in-memory notification store. State is
// process-wide and not persisted: a restart loses the feed. Swap in the
// postgres store for durability.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/akarpov/incident-desk/internal/domain"
	"github.com/akarpov/incident-desk/internal/notifications"
	"github.com/google/uuid"
)

// Store implements notifications.Store in memory, keyed by user id. Each
// user's feed has its own lock so concurrent sessions of the same user cannot
// lose updates, and users never contend with each other beyond the map lookup.
type Store struct {
	mu    sync.RWMutex
	feeds map[string]*feed
}

type feed struct {
	mu      sync.Mutex
	entries []*domain.Notification
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{feeds: make(map[string]*feed)}
}

func (s *Store) feedFor(userID string) *feed {
	s.mu.RLock()
	f, ok := s.feeds[userID]
	s.mu.RUnlock()
	if ok {
		return f
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok = s.feeds[userID]; !ok {
		f = &feed{}
		s.feeds[userID] = f
	}
	return f
}

// Create appends a notification to the owner's feed and assigns its id.
func (s *Store) Create(_ context.Context, notification *domain.Notification) error {
	notification.ID = uuid.NewString()

	f := s.feedFor(notification.OwnerUserID)
	f.mu.Lock()
	defer f.mu.Unlock()

	stored := *notification
	f.entries = append(f.entries, &stored)
	return nil
}

// ListByUser returns copies of the user's notifications, most recent first.
func (s *Store) ListByUser(_ context.Context, userID string) ([]*domain.Notification, error) {
	f := s.feedFor(userID)
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]*domain.Notification, 0, len(f.entries))
	for _, n := range f.entries {
		copied := *n
		result = append(result, &copied)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// UnreadCount returns the number of unread notifications for the user.
func (s *Store) UnreadCount(_ context.Context, userID string) (int, error) {
	f := s.feedFor(userID)
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, n := range f.entries {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

// MarkRead marks a single notification as read.
func (s *Store) MarkRead(_ context.Context, id, userID string) error {
	f := s.feedFor(userID)
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, n := range f.entries {
		if n.ID == id {
			n.IsRead = true
			return nil
		}
	}
	return notifications.ErrNotificationNotFound
}

// MarkAllRead marks every notification in the user's feed as read.
func (s *Store) MarkAllRead(_ context.Context, userID string) error {
	f := s.feedFor(userID)
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, n := range f.entries {
		n.IsRead = true
	}
	return nil
}
