package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/akarpov/incident-desk/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Notifier subscribes to incident lifecycle events and writes a user-visible
// notification for each. Like all event subscribers it is best-effort: the
// incident write has already committed when Handle runs.
type Notifier struct {
	store Store
}

// NewNotifier creates a new notifier.
func NewNotifier(store Store) *Notifier {
	return &Notifier{store: store}
}

// Handle implements events.Subscriber for IncidentCreated and IncidentClosed.
func (n *Notifier) Handle(ctx context.Context, event domain.Event) error {
	switch e := event.(type) {
	case domain.IncidentCreated:
		return n.onCreated(ctx, e)
	case domain.IncidentClosed:
		return n.onClosed(ctx, e)
	default:
		return fmt.Errorf("unexpected event %T", event)
	}
}

func (n *Notifier) onCreated(ctx context.Context, event domain.IncidentCreated) error {
	notification := &domain.Notification{
		OwnerUserID: event.OwnerUserID,
		Title:       titleCaser.String("incident created"),
		Message:     fmt.Sprintf("Incident %q has been created.", event.Title),
		Type:        domain.NotificationTypeInfo,
		IsRead:      false,
		CreatedAt:   time.Now().UTC(),
		IncidentID:  &event.IncidentID,
	}

	if err := n.store.Create(ctx, notification); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (n *Notifier) onClosed(ctx context.Context, event domain.IncidentClosed) error {
	message := "Incident has been closed."
	if event.Resolution != "" {
		message = fmt.Sprintf("Incident closed with resolution: %s", event.Resolution)
	}

	notification := &domain.Notification{
		OwnerUserID: event.OwnerUserID,
		Title:       titleCaser.String("incident closed"),
		Message:     message,
		Type:        domain.NotificationTypeSuccess,
		IsRead:      false,
		CreatedAt:   time.Now().UTC(),
		IncidentID:  &event.IncidentID,
	}

	if err := n.store.Create(ctx, notification); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}
