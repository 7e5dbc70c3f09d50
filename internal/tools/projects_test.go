package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hivellm/taskqueue-go/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProjectToolHappyPath(t *testing.T) {
	svc := newTestService(t)
	tool := NewCreateProject(svc)

	params, err := json.Marshal(map[string]any{"name": "search", "description": "rewrite ranking"})
	require.NoError(t, err)

	result, err := tool.Execute(context.Background(), params)
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, `"name": "search"`)
}

func TestCreateProjectToolReportsServiceErrorsAsToolErrors(t *testing.T) {
	svc := newTestService(t)
	tool := NewCreateProject(svc)

	params, err := json.Marshal(map[string]any{"description": "no name"})
	require.NoError(t, err)

	result, err := tool.Execute(context.Background(), params)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, "project name is required")
}

func TestGetProjectToolReportsMissingProject(t *testing.T) {
	svc := newTestService(t)
	tool := NewGetProject(svc)

	params, err := json.Marshal(map[string]any{"project_id": "missing"})
	require.NoError(t, err)

	result, err := tool.Execute(context.Background(), params)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestListProjectsToolReturnsCreatedProjects(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateProject("search", "", nil)
	require.NoError(t, err)

	tool := NewListProjects(svc)
	result, err := tool.Execute(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, `"count": 1`)
}

func TestGetProjectTasksToolFiltersByProject(t *testing.T) {
	svc := newTestService(t)
	project, err := svc.CreateProject("search", "", nil)
	require.NoError(t, err)
	_, err = svc.SubmitTask(context.Background(), service.TaskDraft{Name: "build", Command: "make build", ProjectID: project.ID})
	require.NoError(t, err)
	_, err = svc.SubmitTask(context.Background(), service.TaskDraft{Name: "unrelated", Command: "make test"})
	require.NoError(t, err)

	tool := NewGetProjectTasks(svc)
	params, err := json.Marshal(map[string]any{"project_id": project.ID})
	require.NoError(t, err)

	result, err := tool.Execute(context.Background(), params)
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, `"count": 1`)
}

func TestGetProjectTasksToolReportsMissingProject(t *testing.T) {
	svc := newTestService(t)
	tool := NewGetProjectTasks(svc)

	params, err := json.Marshal(map[string]any{"project_id": "missing"})
	require.NoError(t, err)

	result, err := tool.Execute(context.Background(), params)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
