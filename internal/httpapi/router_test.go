package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hivellm/taskqueue-go/internal/service"
	"github.com/hivellm/taskqueue-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := service.New(store.Open("", logger), logger, service.Options{})
	require.NoError(t, err)
	return New(svc, logger, nil, []string{"*"})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestAPI(t)
	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmitTaskRequiresProjectID(t *testing.T) {
	h := newTestAPI(t)
	rec := doJSON(t, h, http.MethodPost, "/tasks/", map[string]any{
		"name":        "build",
		"command":     "make build",
		"description": "build the thing",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitAndGetTaskRoundTrip(t *testing.T) {
	h := newTestAPI(t)
	project := createTestProject(t, h)

	rec := doJSON(t, h, http.MethodPost, "/tasks/", map[string]any{
		"name":        "build",
		"command":     "make build",
		"description": "build the thing",
		"project_id":  project,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var submitted map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))
	taskID, _ := submitted["task_id"].(string)
	require.NotEmpty(t, taskID)

	rec = doJSON(t, h, http.MethodGet, "/tasks/"+taskID+"/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var task map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.Equal(t, "build", task["name"])
	assert.Equal(t, "Planning", task["status"])
}

func TestGetTaskNotFoundReturns404(t *testing.T) {
	h := newTestAPI(t)
	rec := doJSON(t, h, http.MethodGet, "/tasks/missing/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "TaskNotFound", body.Error)
}

func TestAdvanceWorkflowEndpointWalksPhases(t *testing.T) {
	h := newTestAPI(t)
	project := createTestProject(t, h)
	taskID := createTestTask(t, h, project)

	rec := doJSON(t, h, http.MethodPost, "/tasks/"+taskID+"/advance-workflow", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var task map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	wf, _ := task["development_workflow"].(map[string]any)
	require.NotNil(t, wf)
	assert.Equal(t, "Planning", wf["workflow_status"])
}

func TestCancelTaskEndpoint(t *testing.T) {
	h := newTestAPI(t)
	project := createTestProject(t, h)
	taskID := createTestTask(t, h, project)

	rec := doJSON(t, h, http.MethodPost, "/tasks/"+taskID+"/cancel", map[string]any{"reason": "stale request"})
	require.Equal(t, http.StatusOK, rec.Code)

	var task map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.Equal(t, "Cancelled", task["status"])
}

func TestCreateProjectEndpoint(t *testing.T) {
	h := newTestAPI(t)
	rec := doJSON(t, h, http.MethodPost, "/projects/", map[string]any{"name": "search"})
	require.Equal(t, http.StatusOK, rec.Code)

	var project map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &project))
	assert.Equal(t, "search", project["name"])
	assert.Equal(t, "Planning", project["status"])
}

func TestCreateWorkflowRejectsCycle(t *testing.T) {
	h := newTestAPI(t)
	rec := doJSON(t, h, http.MethodPost, "/workflows/", map[string]any{
		"name": "release",
		"tasks": []map[string]any{
			{"id": "a", "name": "a", "command": "cmd", "dependencies": []map[string]any{{"task_id": "b", "condition": "Success"}}},
			{"id": "b", "name": "b", "command": "cmd", "dependencies": []map[string]any{{"task_id": "a", "condition": "Success"}}},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "CircularDependency", body.Error)
}

func createTestProject(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/projects/", map[string]any{"name": "search"})
	require.Equal(t, http.StatusOK, rec.Code)
	var project map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &project))
	id, _ := project["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func createTestTask(t *testing.T, h http.Handler, projectID string) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/tasks/", map[string]any{
		"name":        "build",
		"command":     "make build",
		"description": "build the thing",
		"project_id":  projectID,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var submitted map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))
	id, _ := submitted["task_id"].(string)
	require.NotEmpty(t, id)
	return id
}
