package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/akarpov/incident-desk/internal/domain"
	"github.com/akarpov/incident-desk/internal/notifications"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotification(userID, title string, createdAt time.Time) *domain.Notification {
	return &domain.Notification{
		OwnerUserID: userID,
		Title:       title,
		Message:     "msg",
		Type:        domain.NotificationTypeInfo,
		CreatedAt:   createdAt,
	}
}

func TestStore_ListMostRecentFirst(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Create(ctx, newNotification("user-1", "oldest", base)))
	require.NoError(t, store.Create(ctx, newNotification("user-1", "newest", base.Add(2*time.Minute))))
	require.NoError(t, store.Create(ctx, newNotification("user-1", "middle", base.Add(time.Minute))))

	list, err := store.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "newest", list[0].Title)
	assert.Equal(t, "middle", list[1].Title)
	assert.Equal(t, "oldest", list[2].Title)
}

func TestStore_UnreadCountAndMarkRead(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Now().UTC()

	first := newNotification("user-1", "a", now)
	second := newNotification("user-1", "b", now)
	require.NoError(t, store.Create(ctx, first))
	require.NoError(t, store.Create(ctx, second))

	count, err := store.UnreadCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, store.MarkRead(ctx, first.ID, "user-1"))

	count, err = store.UnreadCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, store.MarkAllRead(ctx, "user-1"))

	count, err = store.UnreadCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStore_MarkReadIsScopedToOwner(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	n := newNotification("user-1", "mine", time.Now().UTC())
	require.NoError(t, store.Create(ctx, n))

	err := store.MarkRead(ctx, n.ID, "user-2")
	assert.ErrorIs(t, err, notifications.ErrNotificationNotFound)

	list, err := store.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsRead)
}

func TestStore_UnknownUserHasEmptyFeed(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	list, err := store.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, list)

	count, err := store.UnreadCount(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	assert.ErrorIs(t, store.MarkRead(ctx, "missing", "nobody"), notifications.ErrNotificationNotFound)
	assert.NoError(t, store.MarkAllRead(ctx, "nobody"))
}

func TestStore_ListReturnsCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	n := newNotification("user-1", "original", time.Now().UTC())
	require.NoError(t, store.Create(ctx, n))

	list, err := store.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	list[0].IsRead = true
	list[0].Title = "mutated"

	fresh, err := store.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, fresh[0].IsRead)
	assert.Equal(t, "original", fresh[0].Title)
}

func TestStore_ConcurrentAppendAndMarkRead(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	const users = 4
	const perUser = 50

	var wg sync.WaitGroup
	for u := 0; u < users; u++ {
		userID := fmt.Sprintf("user-%d", u)
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < perUser; i++ {
				_ = store.Create(ctx, newNotification(userID, "n", time.Now().UTC()))
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < perUser; i++ {
				_ = store.MarkAllRead(ctx, userID)
			}
		}()
	}
	wg.Wait()

	for u := 0; u < users; u++ {
		userID := fmt.Sprintf("user-%d", u)
		list, err := store.ListByUser(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, list, perUser, "no appends may be lost for %s", userID)
	}
}
