package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIncident_StartsOpen(t *testing.T) {
	inc := NewIncident("Network Down", "", "user-1", nil)

	assert.Equal(t, IncidentStatusOpen, inc.Status)
	assert.Nil(t, inc.UpdatedAt)
	assert.False(t, inc.CreatedAt.IsZero())
	assert.Empty(t, inc.PopEvents(), "construction must not stage events")
}

func TestIncident_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    IncidentStatus
		apply   func(*Incident) error
		want    IncidentStatus
		wantErr bool
	}{
		{"open start progress", IncidentStatusOpen, (*Incident).StartProgress, IncidentStatusInProgress, false},
		{"open close directly", IncidentStatusOpen, func(i *Incident) error { return i.Close("x") }, IncidentStatusClosed, false},
		{"open reopen illegal", IncidentStatusOpen, (*Incident).Reopen, IncidentStatusOpen, true},
		{"in progress close", IncidentStatusInProgress, func(i *Incident) error { return i.Close("x") }, IncidentStatusClosed, false},
		{"in progress reopen", IncidentStatusInProgress, (*Incident).Reopen, IncidentStatusOpen, false},
		{"in progress start again illegal", IncidentStatusInProgress, (*Incident).StartProgress, IncidentStatusInProgress, true},
		{"closed reopen", IncidentStatusClosed, (*Incident).Reopen, IncidentStatusOpen, false},
		{"closed start progress illegal", IncidentStatusClosed, (*Incident).StartProgress, IncidentStatusClosed, true},
		{"closed close again illegal", IncidentStatusClosed, func(i *Incident) error { return i.Close("y") }, IncidentStatusClosed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inc := NewIncident("test", "", "user-1", nil)
			inc.Status = tt.from

			err := tt.apply(inc)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, tt.from, inc.Status, "failed trigger must leave status unchanged")
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, inc.Status)
				require.NotNil(t, inc.UpdatedAt)
			}
		})
	}
}

func TestIncident_InvalidTransitionIdentifiesEdge(t *testing.T) {
	inc := NewIncident("test", "", "user-1", nil)
	require.NoError(t, inc.Close("done"))

	err := inc.StartProgress()
	require.Error(t, err)

	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, IncidentStatusClosed, transitionErr.From)
	assert.Equal(t, TriggerStartProgress, transitionErr.Trigger)
	assert.Contains(t, err.Error(), "StartProgress")
	assert.Contains(t, err.Error(), "Closed")
}

func TestIncident_CloseStagesExactlyOneEvent(t *testing.T) {
	inc := NewIncident("test", "", "user-1", nil)
	inc.ID = "inc-1"

	require.NoError(t, inc.StartProgress())
	require.NoError(t, inc.Close("Resolved"))

	assert.Equal(t, IncidentStatusClosed, inc.Status)
	assert.Equal(t, "Resolved", inc.Resolution)

	events := inc.PopEvents()
	require.Len(t, events, 1)

	closed, ok := events[0].(IncidentClosed)
	require.True(t, ok)
	assert.Equal(t, "inc-1", closed.IncidentID)
	assert.Equal(t, "user-1", closed.OwnerUserID)
	assert.Equal(t, "Resolved", closed.Resolution)
	assert.Equal(t, IncidentStatusInProgress, closed.FromStatus)
	assert.False(t, closed.ClosedAt.IsZero())

	assert.Empty(t, inc.PopEvents(), "second pop must return nothing")
}

func TestIncident_CloseFromOpenRecordsOpenAsPriorStatus(t *testing.T) {
	inc := NewIncident("test", "", "user-1", nil)

	require.NoError(t, inc.Close("fast fix"))

	events := inc.PopEvents()
	require.Len(t, events, 1)
	assert.Equal(t, IncidentStatusOpen, events[0].(IncidentClosed).FromStatus)
}

func TestIncident_StartProgressAndReopenStageNoEvents(t *testing.T) {
	inc := NewIncident("test", "", "user-1", nil)

	require.NoError(t, inc.StartProgress())
	require.NoError(t, inc.Reopen())

	assert.Empty(t, inc.PopEvents())
}

func TestIncident_FullLifecycleAllowsStartAfterReopen(t *testing.T) {
	inc := NewIncident("test", "", "user-1", nil)

	require.NoError(t, inc.StartProgress())
	require.NoError(t, inc.Close("done"))

	// Closed rejects StartProgress outright.
	require.ErrorIs(t, inc.StartProgress(), ErrInvalidTransition)

	require.NoError(t, inc.Reopen())
	require.NoError(t, inc.StartProgress(), "Open→InProgress must be legal after reopen")
	assert.Equal(t, IncidentStatusInProgress, inc.Status)
}

func TestIncident_CloseAcceptsEmptyResolution(t *testing.T) {
	inc := NewIncident("test", "", "user-1", nil)

	require.NoError(t, inc.Close(""))

	assert.Equal(t, IncidentStatusClosed, inc.Status)
	assert.Empty(t, inc.Resolution)

	events := inc.PopEvents()
	require.Len(t, events, 1)
	assert.Empty(t, events[0].(IncidentClosed).Resolution)
}

func TestIncident_UpdateDetails(t *testing.T) {
	inc := NewIncident("test", "original", "user-1", nil)

	inc.UpdateDetails("   ")
	assert.Equal(t, "original", inc.Description, "blank description is ignored")
	assert.NotNil(t, inc.UpdatedAt, "updatedAt refreshed regardless")

	inc.UpdateDetails("new description")
	assert.Equal(t, "new description", inc.Description)

	// Works in any state, including Closed.
	require.NoError(t, inc.Close("done"))
	inc.UpdateDetails("post-close note")
	assert.Equal(t, "post-close note", inc.Description)
}

func TestIncident_FailedCloseDoesNotStageEvent(t *testing.T) {
	inc := NewIncident("test", "", "user-1", nil)
	require.NoError(t, inc.Close("first"))
	inc.PopEvents()

	err := inc.Close("second")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, "first", inc.Resolution, "failed close must not overwrite resolution")
	assert.Empty(t, inc.PopEvents())
}

func TestIncidentStatus_String(t *testing.T) {
	assert.Equal(t, "Open", IncidentStatusOpen.String())
	assert.Equal(t, "InProgress", IncidentStatusInProgress.String())
	assert.Equal(t, "Closed", IncidentStatusClosed.String())
	assert.False(t, IncidentStatus(7).IsValid())
}
