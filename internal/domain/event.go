package domain

import "time"

// EventKind identifies a domain event type for subscriber routing.
type EventKind string

// Event kinds.
const (
	EventKindIncidentCreated EventKind = "incident.created"
	EventKindIncidentClosed  EventKind = "incident.closed"
)

// Event is an immutable record of something that happened to an aggregate.
// Events are staged in-process and dispatched after a successful commit.
type Event interface {
	Kind() EventKind
}

// IncidentCreated is published after an incident is first persisted.
type IncidentCreated struct {
	IncidentID  string
	OwnerUserID string
	Title       string
	CreatedAt   time.Time
}

// Kind implements Event.
func (IncidentCreated) Kind() EventKind { return EventKindIncidentCreated }

// IncidentClosed is staged when an incident transitions into Closed.
// FromStatus is the actual status the incident held before closing, so the
// audit trail records Open→Closed and InProgress→Closed distinctly.
type IncidentClosed struct {
	IncidentID  string
	OwnerUserID string
	FromStatus  IncidentStatus
	Resolution  string
	ClosedAt    time.Time
}

// Kind implements Event.
func (IncidentClosed) Kind() EventKind { return EventKindIncidentClosed }

// eventBuffer is the transient, in-memory event staging area owned by an
// aggregate. It is never persisted.
type eventBuffer struct {
	events []Event
}

// Add appends an event to the buffer. Never fails.
func (b *eventBuffer) Add(e Event) {
	b.events = append(b.events, e)
}

// Pop returns the buffered events and clears the buffer in one step, so two
// consecutive calls can never both yield a non-empty result.
func (b *eventBuffer) Pop() []Event {
	events := b.events
	b.events = nil
	return events
}
