package incidents

import (
	"context"
	"fmt"
	"time"

	"github.com/akarpov/incident-desk/internal/domain"
	"github.com/akarpov/incident-desk/internal/events"
	"github.com/akarpov/incident-desk/internal/pkg/ctxlog"
	"github.com/akarpov/incident-desk/internal/pkg/metrics"
)

// CategoryNameResolver resolves category ids to display names.
type CategoryNameResolver interface {
	GetCategoryName(ctx context.Context, id string) (string, error)
}

// Service implements incident business logic. Writes follow the sequence
// load → mutate aggregate → persist → drain staged events → dispatch, so side
// effects only ever run for durably committed changes.
type Service struct {
	repo       Repository
	dispatcher *events.Dispatcher
	categories CategoryNameResolver
}

// NewService creates a new incident service.
func NewService(repo Repository, dispatcher *events.Dispatcher, categories CategoryNameResolver) *Service {
	return &Service{
		repo:       repo,
		dispatcher: dispatcher,
		categories: categories,
	}
}

// CreateIncidentInput holds data for creating an incident.
type CreateIncidentInput struct {
	Title       string
	Description string
	CategoryID  *string
}

// UpdateIncidentInput holds data for updating an incident. Status is the
// requested target state; the service translates it into a workflow trigger.
type UpdateIncidentInput struct {
	Description string
	Status      domain.IncidentStatus
	Resolution  string
}

// Create persists a new incident and publishes IncidentCreated after the
// commit succeeds.
func (s *Service) Create(ctx context.Context, input CreateIncidentInput, ownerUserID string) (*domain.Incident, error) {
	incident := domain.NewIncident(input.Title, input.Description, ownerUserID, input.CategoryID)

	if err := s.repo.Create(ctx, incident); err != nil {
		return nil, fmt.Errorf("create incident: %w", err)
	}

	// The creation event carries the repository-assigned id, so it is
	// published here rather than staged at construction.
	s.dispatcher.Dispatch(ctx, []domain.Event{domain.IncidentCreated{
		IncidentID:  incident.ID,
		OwnerUserID: incident.OwnerUserID,
		Title:       incident.Title,
		CreatedAt:   time.Now().UTC(),
	}})

	return incident, nil
}

// Get returns an incident owned by the given user.
func (s *Service) Get(ctx context.Context, id, ownerUserID string) (*domain.Incident, error) {
	return s.repo.Get(ctx, id, ownerUserID)
}

// List returns the user's incidents, most recently created first.
func (s *Service) List(ctx context.Context, ownerUserID string) ([]*domain.Incident, error) {
	return s.repo.GetAll(ctx, ownerUserID)
}

// Update applies the requested target status as a workflow trigger, refreshes
// details, persists, and dispatches any staged events after the commit. A
// failed save leaves the aggregate's event buffer untouched, so a retried save
// dispatches events exactly once.
func (s *Service) Update(ctx context.Context, id, ownerUserID string, input UpdateIncidentInput) (*domain.Incident, error) {
	incident, err := s.repo.Get(ctx, id, ownerUserID)
	if err != nil {
		return nil, err
	}

	var trigger domain.IncidentTrigger
	switch input.Status {
	case domain.IncidentStatusOpen:
		trigger = domain.TriggerReopen
		err = incident.Reopen()
	case domain.IncidentStatusInProgress:
		trigger = domain.TriggerStartProgress
		err = incident.StartProgress()
	case domain.IncidentStatusClosed:
		trigger = domain.TriggerClose
		err = incident.Close(input.Resolution)
	default:
		return nil, fmt.Errorf("unknown target status %d", input.Status)
	}
	if err != nil {
		metrics.IncidentTransitions.WithLabelValues(string(trigger), "rejected").Inc()
		return nil, err
	}
	metrics.IncidentTransitions.WithLabelValues(string(trigger), "ok").Inc()

	incident.UpdateDetails(input.Description)

	if err := s.repo.Update(ctx, incident); err != nil {
		return nil, fmt.Errorf("update incident: %w", err)
	}

	s.dispatcher.Dispatch(ctx, incident.PopEvents())

	return incident, nil
}

// Delete removes an incident owned by the given user.
func (s *Service) Delete(ctx context.Context, id, ownerUserID string) error {
	incident, err := s.repo.Get(ctx, id, ownerUserID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, incident)
}

// CategoryName resolves the incident's category name for display. Resolution
// failures are logged and reported as absent rather than failing the request.
func (s *Service) CategoryName(ctx context.Context, incident *domain.Incident) *string {
	if incident.CategoryID == nil || s.categories == nil {
		return nil
	}
	name, err := s.categories.GetCategoryName(ctx, *incident.CategoryID)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("resolve category name",
			"category_id", *incident.CategoryID,
			"error", err,
		)
		return nil
	}
	return &name
}
