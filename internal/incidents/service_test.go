package incidents

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/akarpov/incident-desk/internal/domain"
	"github.com/akarpov/incident-desk/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	incidents  map[string]*domain.Incident
	nextID     int
	updateErr  error
	updateCall int
}

func newMockRepository() *mockRepository {
	return &mockRepository{incidents: make(map[string]*domain.Incident), nextID: 1}
}

func (m *mockRepository) Get(_ context.Context, id, ownerUserID string) (*domain.Incident, error) {
	inc, ok := m.incidents[id]
	if !ok || inc.OwnerUserID != ownerUserID {
		return nil, ErrNotFound
	}
	copied := *inc
	return &copied, nil
}

func (m *mockRepository) GetAll(_ context.Context, ownerUserID string) ([]*domain.Incident, error) {
	var result []*domain.Incident
	for _, inc := range m.incidents {
		if inc.OwnerUserID == ownerUserID {
			copied := *inc
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockRepository) Create(_ context.Context, incident *domain.Incident) error {
	incident.ID = fmt.Sprintf("inc-%d", m.nextID)
	m.nextID++
	incident.RowVersion = 1
	stored := *incident
	m.incidents[incident.ID] = &stored
	return nil
}

func (m *mockRepository) Update(_ context.Context, incident *domain.Incident) error {
	m.updateCall++
	if m.updateErr != nil {
		return m.updateErr
	}
	incident.RowVersion++
	stored := *incident
	m.incidents[incident.ID] = &stored
	return nil
}

func (m *mockRepository) Delete(_ context.Context, incident *domain.Incident) error {
	if _, ok := m.incidents[incident.ID]; !ok {
		return ErrNotFound
	}
	delete(m.incidents, incident.ID)
	return nil
}

// recordingSubscriber captures dispatched events.
type recordingSubscriber struct {
	events []domain.Event
}

func (s *recordingSubscriber) Handle(_ context.Context, event domain.Event) error {
	s.events = append(s.events, event)
	return nil
}

func newTestService(repo Repository) (*Service, *recordingSubscriber, *recordingSubscriber) {
	onCreated := &recordingSubscriber{}
	onClosed := &recordingSubscriber{}

	dispatcher := events.NewDispatcher()
	dispatcher.Register(domain.EventKindIncidentCreated, onCreated)
	dispatcher.Register(domain.EventKindIncidentClosed, onClosed)

	return NewService(repo, dispatcher, nil), onCreated, onClosed
}

func TestCreate_PublishesCreatedEventWithAssignedID(t *testing.T) {
	// Arrange
	repo := newMockRepository()
	service, onCreated, onClosed := newTestService(repo)

	// Act
	incident, err := service.Create(context.Background(), CreateIncidentInput{
		Title: "Network Down",
	}, "user-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.IncidentStatusOpen, incident.Status)
	assert.Nil(t, incident.UpdatedAt)
	assert.NotEmpty(t, incident.ID)

	require.Len(t, onCreated.events, 1)
	created := onCreated.events[0].(domain.IncidentCreated)
	assert.Equal(t, incident.ID, created.IncidentID)
	assert.Equal(t, "user-1", created.OwnerUserID)
	assert.Equal(t, "Network Down", created.Title)
	assert.Empty(t, onClosed.events)
}

func TestUpdate_CloseDispatchesExactlyOneClosedEvent(t *testing.T) {
	// Arrange
	repo := newMockRepository()
	service, _, onClosed := newTestService(repo)

	incident, err := service.Create(context.Background(), CreateIncidentInput{Title: "db outage"}, "user-1")
	require.NoError(t, err)

	_, err = service.Update(context.Background(), incident.ID, "user-1", UpdateIncidentInput{
		Status: domain.IncidentStatusInProgress,
	})
	require.NoError(t, err)

	// Act
	updated, err := service.Update(context.Background(), incident.ID, "user-1", UpdateIncidentInput{
		Status:     domain.IncidentStatusClosed,
		Resolution: "Resolved",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.IncidentStatusClosed, updated.Status)
	assert.Equal(t, "Resolved", updated.Resolution)

	require.Len(t, onClosed.events, 1)
	closed := onClosed.events[0].(domain.IncidentClosed)
	assert.Equal(t, incident.ID, closed.IncidentID)
	assert.Equal(t, "Resolved", closed.Resolution)
	assert.Equal(t, domain.IncidentStatusInProgress, closed.FromStatus)
}

func TestUpdate_FailedSaveDoesNotDispatch(t *testing.T) {
	// Arrange
	repo := newMockRepository()
	service, _, onClosed := newTestService(repo)

	incident, err := service.Create(context.Background(), CreateIncidentInput{Title: "db outage"}, "user-1")
	require.NoError(t, err)

	repo.updateErr = errors.New("storage unavailable")

	// Act
	_, err = service.Update(context.Background(), incident.ID, "user-1", UpdateIncidentInput{
		Status:     domain.IncidentStatusClosed,
		Resolution: "done",
	})

	// Assert — the commit failed, so no side effects may run
	require.Error(t, err)
	assert.Empty(t, onClosed.events)

	// Retry succeeds and dispatches exactly once.
	repo.updateErr = nil
	_, err = service.Update(context.Background(), incident.ID, "user-1", UpdateIncidentInput{
		Status:     domain.IncidentStatusClosed,
		Resolution: "done",
	})
	require.NoError(t, err)
	assert.Len(t, onClosed.events, 1)
}

func TestUpdate_InvalidTransitionLeavesStoreUntouched(t *testing.T) {
	// Arrange
	repo := newMockRepository()
	service, _, onClosed := newTestService(repo)

	incident, err := service.Create(context.Background(), CreateIncidentInput{Title: "db outage"}, "user-1")
	require.NoError(t, err)

	_, err = service.Update(context.Background(), incident.ID, "user-1", UpdateIncidentInput{
		Status:     domain.IncidentStatusClosed,
		Resolution: "done",
	})
	require.NoError(t, err)

	// Act — a second close on an already-Closed incident
	_, err = service.Update(context.Background(), incident.ID, "user-1", UpdateIncidentInput{
		Status:     domain.IncidentStatusClosed,
		Resolution: "again",
	})

	// Assert
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Len(t, onClosed.events, 1, "no second event may be dispatched")

	stored, err := service.Get(context.Background(), incident.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.IncidentStatusClosed, stored.Status)
	assert.Equal(t, "done", stored.Resolution)
}

func TestUpdate_ReopenThenStartProgress(t *testing.T) {
	repo := newMockRepository()
	service, _, _ := newTestService(repo)

	incident, err := service.Create(context.Background(), CreateIncidentInput{Title: "flaky dns"}, "user-1")
	require.NoError(t, err)

	for _, step := range []UpdateIncidentInput{
		{Status: domain.IncidentStatusInProgress},
		{Status: domain.IncidentStatusClosed, Resolution: "done"},
		{Status: domain.IncidentStatusOpen},
		{Status: domain.IncidentStatusInProgress},
	} {
		_, err = service.Update(context.Background(), incident.ID, "user-1", step)
		require.NoError(t, err)
	}

	stored, err := service.Get(context.Background(), incident.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.IncidentStatusInProgress, stored.Status)
}

func TestUpdate_OtherUsersIncidentIsNotFound(t *testing.T) {
	repo := newMockRepository()
	service, _, _ := newTestService(repo)

	incident, err := service.Create(context.Background(), CreateIncidentInput{Title: "secret"}, "user-1")
	require.NoError(t, err)

	_, err = service.Update(context.Background(), incident.ID, "user-2", UpdateIncidentInput{
		Status: domain.IncidentStatusInProgress,
	})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = service.Get(context.Background(), incident.ID, "user-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo := newMockRepository()
	service, _, _ := newTestService(repo)

	incident, err := service.Create(context.Background(), CreateIncidentInput{Title: "gone soon"}, "user-1")
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), incident.ID, "user-1"))

	_, err = service.Get(context.Background(), incident.ID, "user-1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, service.Delete(context.Background(), incident.ID, "user-1"), ErrNotFound)
}
