//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type historyRow struct {
	FromStatus int
	ToStatus   int
	ChangedBy  string
}

func fetchHistory(t *testing.T, incidentID string) []historyRow {
	t.Helper()

	rows, err := testDB.Query(context.Background(),
		`SELECT from_status, to_status, changed_by
		 FROM incident_history
		 WHERE incident_id = $1
		 ORDER BY changed_at`,
		incidentID,
	)
	require.NoError(t, err)
	defer rows.Close()

	var result []historyRow
	for rows.Next() {
		var row historyRow
		require.NoError(t, rows.Scan(&row.FromStatus, &row.ToStatus, &row.ChangedBy))
		result = append(result, row)
	}
	require.NoError(t, rows.Err())
	return result
}

func TestHistory_CloseFromInProgress_RecordsTruePriorStatus(t *testing.T) {
	client := newTestClient(t)
	registerTestUser(t, client)
	id := createTestIncident(t, client, "Audited incident")

	resp := setIncidentStatus(t, client, id, 1, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = setIncidentStatus(t, client, id, 2, "Fixed")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	history := fetchHistory(t, id)
	require.Len(t, history, 1)
	assert.Equal(t, 1, history[0].FromStatus)
	assert.Equal(t, 2, history[0].ToStatus)
	assert.Equal(t, "system", history[0].ChangedBy)
}

func TestHistory_DirectClose_RecordsOpenAsPriorStatus(t *testing.T) {
	client := newTestClient(t)
	registerTestUser(t, client)
	id := createTestIncident(t, client, "Directly closed")

	resp := setIncidentStatus(t, client, id, 2, "No action needed")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	history := fetchHistory(t, id)
	require.Len(t, history, 1)
	assert.Equal(t, 0, history[0].FromStatus)
	assert.Equal(t, 2, history[0].ToStatus)
}

func TestHistory_RejectedTransition_WritesNothing(t *testing.T) {
	client := newTestClient(t)
	registerTestUser(t, client)
	id := createTestIncident(t, client, "Never closed")

	// Open -> Open is not a legal transition; nothing should be recorded.
	resp := setIncidentStatus(t, client, id, 0, "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	assert.Empty(t, fetchHistory(t, id))
}

func TestHistory_ReopenAndCloseAgain_AppendsSecondRow(t *testing.T) {
	client := newTestClient(t)
	registerTestUser(t, client)
	id := createTestIncident(t, client, "Recurring incident")

	resp := setIncidentStatus(t, client, id, 2, "First fix")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = setIncidentStatus(t, client, id, 0, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = setIncidentStatus(t, client, id, 1, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = setIncidentStatus(t, client, id, 2, "Second fix")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	history := fetchHistory(t, id)
	require.Len(t, history, 2)
	assert.Equal(t, 0, history[0].FromStatus)
	assert.Equal(t, 1, history[1].FromStatus)
	assert.Equal(t, 2, history[1].ToStatus)
}
