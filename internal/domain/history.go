package domain

import "time"

// IncidentHistory is an append-only audit record of a workflow transition.
// Rows are never updated or deleted.
type IncidentHistory struct {
	ID         string
	IncidentID string
	FromStatus IncidentStatus
	ToStatus   IncidentStatus
	ChangedBy  string
	ChangedAt  time.Time
}
