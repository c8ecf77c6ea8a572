// Package history records incident workflow transitions as an append-only
// audit trail, driven by domain events.
package history

import (
	"context"
	"fmt"

	"github.com/akarpov/incident-desk/internal/domain"
)

// audit rows are written by the event subscriber, not by a human actor
const changedBySystem = "system"

// Repository defines the history store.
type Repository interface {
	Append(ctx context.Context, entry *domain.IncidentHistory) error
}

// Recorder subscribes to IncidentClosed events and appends an audit row for
// each. Delivery is fire-and-forget: a failed append is logged by the
// dispatcher and not retried.
type Recorder struct {
	repo Repository
}

// NewRecorder creates a new history recorder.
func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo}
}

// Handle implements events.Subscriber.
func (r *Recorder) Handle(ctx context.Context, event domain.Event) error {
	closed, ok := event.(domain.IncidentClosed)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}

	entry := &domain.IncidentHistory{
		IncidentID: closed.IncidentID,
		FromStatus: closed.FromStatus,
		ToStatus:   domain.IncidentStatusClosed,
		ChangedBy:  changedBySystem,
		ChangedAt:  closed.ClosedAt,
	}

	if err := r.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}
