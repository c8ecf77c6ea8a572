package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// IncidentStatus is the workflow state of an incident. The numeric values are
// part of the API contract (0=Open, 1=InProgress, 2=Closed) and must not change.
type IncidentStatus int

const (
	IncidentStatusOpen IncidentStatus = iota
	IncidentStatusInProgress
	IncidentStatusClosed
)

// IsValid checks if the status is one of the known workflow states.
func (s IncidentStatus) IsValid() bool {
	return s == IncidentStatusOpen || s == IncidentStatusInProgress || s == IncidentStatusClosed
}

func (s IncidentStatus) String() string {
	switch s {
	case IncidentStatusOpen:
		return "Open"
	case IncidentStatusInProgress:
		return "InProgress"
	case IncidentStatusClosed:
		return "Closed"
	default:
		return fmt.Sprintf("IncidentStatus(%d)", int(s))
	}
}

// IncidentTrigger is a named action requested against the incident workflow.
type IncidentTrigger string

// Incident triggers.
const (
	TriggerStartProgress IncidentTrigger = "StartProgress"
	TriggerClose         IncidentTrigger = "Close"
	TriggerReopen        IncidentTrigger = "Reopen"
)

// incidentTransitions is the full workflow. Any (state, trigger) pair absent
// from this table is illegal; in particular Closed has no StartProgress edge,
// while Open may close directly without passing through InProgress.
var incidentTransitions = map[IncidentStatus]map[IncidentTrigger]IncidentStatus{
	IncidentStatusOpen: {
		TriggerStartProgress: IncidentStatusInProgress,
		TriggerClose:         IncidentStatusClosed,
	},
	IncidentStatusInProgress: {
		TriggerClose:  IncidentStatusClosed,
		TriggerReopen: IncidentStatusOpen,
	},
	IncidentStatusClosed: {
		TriggerReopen: IncidentStatusOpen,
	},
}

// ErrInvalidTransition marks an illegal workflow trigger. Use errors.Is to
// detect it; the concrete *InvalidTransitionError carries the attempted edge.
var ErrInvalidTransition = errors.New("invalid incident transition")

// InvalidTransitionError reports an illegal trigger for the current state.
type InvalidTransitionError struct {
	From    IncidentStatus
	Trigger IncidentTrigger
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot apply trigger %s in state %s", e.Trigger, e.From)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// Incident is the aggregate root for the incident workflow. All state changes
// go through the trigger methods, which validate against the transition table
// and stage domain events for post-commit dispatch.
type Incident struct {
	ID          string
	Title       string
	Description string
	CategoryID  *string
	OwnerUserID string
	Status      IncidentStatus
	Resolution  string
	CreatedAt   time.Time
	UpdatedAt   *time.Time

	// RowVersion is the optimistic concurrency token stamped by the
	// repository at read time and checked at write time.
	RowVersion int64

	events eventBuffer
}

// NewIncident creates an incident in the Open state. The ID is assigned by the
// repository on first save. No events are staged at construction.
func NewIncident(title, description, ownerUserID string, categoryID *string) *Incident {
	return &Incident{
		Title:       title,
		Description: description,
		CategoryID:  categoryID,
		OwnerUserID: ownerUserID,
		Status:      IncidentStatusOpen,
		CreatedAt:   time.Now().UTC(),
	}
}

// fire applies a trigger against the transition table. On success the status
// is mutated and the previous status returned; on failure the incident is left
// untouched.
func (i *Incident) fire(trigger IncidentTrigger) (IncidentStatus, error) {
	next, ok := incidentTransitions[i.Status][trigger]
	if !ok {
		return i.Status, &InvalidTransitionError{From: i.Status, Trigger: trigger}
	}
	prev := i.Status
	i.Status = next
	return prev, nil
}

// StartProgress moves the incident into InProgress.
func (i *Incident) StartProgress() error {
	if _, err := i.fire(TriggerStartProgress); err != nil {
		return err
	}
	i.touch()
	return nil
}

// Close resolves the incident and stages an IncidentClosed event. An empty
// resolution is accepted here; the API layer enforces a non-empty one before
// this method is reached.
func (i *Incident) Close(resolution string) error {
	prev, err := i.fire(TriggerClose)
	if err != nil {
		return err
	}
	i.Resolution = resolution
	closedAt := i.touch()

	i.events.Add(IncidentClosed{
		IncidentID:  i.ID,
		OwnerUserID: i.OwnerUserID,
		FromStatus:  prev,
		Resolution:  resolution,
		ClosedAt:    closedAt,
	})
	return nil
}

// Reopen moves the incident back to Open. No event is staged.
func (i *Incident) Reopen() error {
	if _, err := i.fire(TriggerReopen); err != nil {
		return err
	}
	i.touch()
	return nil
}

// UpdateDetails overwrites the description when a non-blank one is supplied.
// Independent of the workflow; legal in any state.
func (i *Incident) UpdateDetails(description string) {
	if strings.TrimSpace(description) != "" {
		i.Description = description
	}
	i.touch()
}

// PopEvents atomically returns and clears the staged events. The incidents
// service calls this exactly once, after a successful commit.
func (i *Incident) PopEvents() []Event {
	return i.events.Pop()
}

func (i *Incident) touch() time.Time {
	now := time.Now().UTC()
	i.UpdatedAt = &now
	return now
}
