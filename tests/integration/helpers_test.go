//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/akarpov/incident-desk/internal/testutil"
	"github.com/stretchr/testify/require"
)

// registerTestUser creates a fresh account and leaves the client authenticated
// as that user.
func registerTestUser(t *testing.T, client *testutil.Client) (username string) {
	t.Helper()

	username = testutil.RandomUsername("user")
	client.RegisterAs(t, username, testutil.RandomEmail(), "password123")
	return username
}

// incidentPayload is the decoded {"data": ...} envelope of an incident response.
type incidentPayload struct {
	Data struct {
		ID           string  `json:"id"`
		Title        string  `json:"title"`
		Description  string  `json:"description"`
		CategoryID   *string `json:"categoryId"`
		CategoryName *string `json:"categoryName"`
		Status       int     `json:"status"`
		Resolution   string  `json:"resolution"`
	} `json:"data"`
}

// createTestIncident creates an incident and returns its id.
func createTestIncident(t *testing.T, client *testutil.Client, title string) string {
	t.Helper()

	resp, err := client.POST("/api/v1/incidents", map[string]string{
		"title":       title,
		"description": "created by integration test",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result incidentPayload
	testutil.DecodeJSON(t, resp, &result)
	require.NotEmpty(t, result.Data.ID)
	return result.Data.ID
}

// setIncidentStatus drives the workflow to the target status and returns the
// raw response for the caller to assert on.
func setIncidentStatus(t *testing.T, client *testutil.Client, id string, status int, resolution string) *http.Response {
	t.Helper()

	resp, err := client.PUT("/api/v1/incidents/"+id, map[string]interface{}{
		"description": "updated by integration test",
		"status":      status,
		"resolution":  resolution,
	})
	require.NoError(t, err)
	return resp
}
