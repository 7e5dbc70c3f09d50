package tools

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/hivellm/taskqueue-go/internal/service"
	"github.com/hivellm/taskqueue-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *service.Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := service.New(store.Open("", logger), logger, service.Options{})
	require.NoError(t, err)
	return svc
}

func TestSubmitTaskToolHappyPath(t *testing.T) {
	svc := newTestService(t)
	tool := NewSubmitTask(svc)

	params, err := json.Marshal(map[string]any{"name": "build", "command": "make build"})
	require.NoError(t, err)

	result, err := tool.Execute(context.Background(), params)
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Len(t, result.Content, 1)
	assert.Contains(t, result.Content[0].Text, `"name": "build"`)
}

func TestSubmitTaskToolReportsServiceErrorsAsToolErrors(t *testing.T) {
	svc := newTestService(t)
	tool := NewSubmitTask(svc)

	params, err := json.Marshal(map[string]any{"command": "make build"})
	require.NoError(t, err)

	result, err := tool.Execute(context.Background(), params)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, "task name is required")
}

func TestGetTaskToolReportsMissingTask(t *testing.T) {
	svc := newTestService(t)
	tool := NewGetTask(svc)

	params, err := json.Marshal(map[string]any{"task_id": "missing"})
	require.NoError(t, err)

	result, err := tool.Execute(context.Background(), params)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestCancelTaskToolRecordsReason(t *testing.T) {
	svc := newTestService(t)
	submitted, err := svc.SubmitTask(context.Background(), service.TaskDraft{Name: "build", Command: "make build"})
	require.NoError(t, err)

	tool := NewCancelTask(svc)
	params, err := json.Marshal(map[string]any{"task_id": submitted.ID, "reason": "no longer needed"})
	require.NoError(t, err)

	result, err := tool.Execute(context.Background(), params)
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, `"Cancelled"`)
}

func TestDeleteTaskToolRemovesTask(t *testing.T) {
	svc := newTestService(t)
	submitted, err := svc.SubmitTask(context.Background(), service.TaskDraft{Name: "build", Command: "make build"})
	require.NoError(t, err)

	tool := NewDeleteTask(svc)
	params, err := json.Marshal(map[string]any{"task_id": submitted.ID})
	require.NoError(t, err)

	result, err := tool.Execute(context.Background(), params)
	require.NoError(t, err)
	require.False(t, result.IsError)

	_, err = svc.GetTask(submitted.ID)
	require.Error(t, err)
}

func TestListTasksToolWithNoParams(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.SubmitTask(context.Background(), service.TaskDraft{Name: "build", Command: "make build"})
	require.NoError(t, err)

	tool := NewListTasks(svc)
	result, err := tool.Execute(context.Background(), json.RawMessage(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, `"count": 1`)
}
