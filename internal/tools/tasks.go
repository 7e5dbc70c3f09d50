package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hivellm/taskqueue-go/internal/mcp"
	"github.com/hivellm/taskqueue-go/internal/model"
	"github.com/hivellm/taskqueue-go/internal/service"
)

// --- submit_task ---

type submitTaskParams struct {
	Name               string   `json:"name"`
	Command            string   `json:"command"`
	Description        string   `json:"description,omitempty"`
	TechnicalSpecs     string   `json:"technical_specs,omitempty"`
	AcceptanceCriteria []string `json:"acceptance_criteria,omitempty"`
	ProjectID          string   `json:"project_id,omitempty"`
	TaskType           string   `json:"task_type,omitempty"`
	Priority           string   `json:"priority,omitempty"`
	AIReviewsRequired  *int     `json:"ai_reviews_required,omitempty"`
}

type SubmitTask struct{ svc *service.Service }

func NewSubmitTask(svc *service.Service) *SubmitTask { return &SubmitTask{svc: svc} }

func (t *SubmitTask) Name() string { return "submit_task" }
func (t *SubmitTask) Description() string {
	return "Submit a new task into the development lifecycle, optionally attached to a project."
}
func (t *SubmitTask) InputSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "command": {"type": "string"},
    "description": {"type": "string"},
    "technical_specs": {"type": "string"},
    "acceptance_criteria": {"type": "array", "items": {"type": "string"}},
    "project_id": {"type": "string"},
    "task_type": {"type": "string", "enum": ["Simple", "Dependent", "Workflow", "Scheduled"]},
    "priority": {"type": "string", "enum": ["Low", "Normal", "High", "Critical"]},
    "ai_reviews_required": {"type": "integer"}
  },
  "required": ["name", "command"]
}`)
}

func (t *SubmitTask) Execute(ctx context.Context, params json.RawMessage) (*mcp.ToolsCallResult, error) {
	var p submitTaskParams
	if err := json.Unmarshal(params, &p); err != nil {
		return mcp.ErrorResult(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	task, err := t.svc.SubmitTask(ctx, service.TaskDraft{
		Name:               p.Name,
		Command:            p.Command,
		Description:        p.Description,
		TechnicalSpecs:     p.TechnicalSpecs,
		AcceptanceCriteria: p.AcceptanceCriteria,
		ProjectID:          p.ProjectID,
		TaskType:           model.TaskType(p.TaskType),
		Priority:           model.ParsePriority(p.Priority),
		AIReviewsRequired:  p.AIReviewsRequired,
	})
	if err != nil {
		return mcp.ErrorResult(err.Error()), nil
	}
	return mcp.JSONResult(viewOf(task))
}

// --- get_task ---

type taskIDParams struct {
	TaskID string `json:"task_id"`
}

type GetTask struct{ svc *service.Service }

func NewGetTask(svc *service.Service) *GetTask { return &GetTask{svc: svc} }

func (t *GetTask) Name() string        { return "get_task" }
func (t *GetTask) Description() string { return "Get a task by id, with its effective status." }
func (t *GetTask) InputSchema() json.RawMessage {
	return json.RawMessage(`{"type":"object","properties":{"task_id":{"type":"string"}},"required":["task_id"]}`)
}

func (t *GetTask) Execute(ctx context.Context, params json.RawMessage) (*mcp.ToolsCallResult, error) {
	var p taskIDParams
	if err := json.Unmarshal(params, &p); err != nil {
		return mcp.ErrorResult(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	task, err := t.svc.GetTask(p.TaskID)
	if err != nil {
		return mcp.ErrorResult(err.Error()), nil
	}
	return mcp.JSONResult(viewOf(task))
}

// --- list_tasks ---

type listTasksParams struct {
	ProjectID string `json:"project_id,omitempty"`
	Status    string `json:"status,omitempty"`
}

type ListTasks struct{ svc *service.Service }

func NewListTasks(svc *service.Service) *ListTasks { return &ListTasks{svc: svc} }

func (t *ListTasks) Name() string { return "list_tasks" }
func (t *ListTasks) Description() string {
	return "List tasks, optionally filtered by project id and/or effective status."
}
func (t *ListTasks) InputSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "project_id": {"type": "string"},
    "status": {"type": "string"}
  }
}`)
}

func (t *ListTasks) Execute(ctx context.Context, params json.RawMessage) (*mcp.ToolsCallResult, error) {
	var p listTasksParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return mcp.ErrorResult(fmt.Sprintf("invalid parameters: %v", err)), nil
		}
	}
	tasks := t.svc.ListTasks(p.ProjectID, p.Status)
	views := make([]taskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, viewOf(task))
	}
	return mcp.JSONResult(map[string]any{"tasks": views, "count": len(views)})
}

// --- cancel_task ---

type cancelTaskParams struct {
	TaskID string `json:"task_id"`
	Reason string `json:"reason,omitempty"`
}

type CancelTask struct{ svc *service.Service }

func NewCancelTask(svc *service.Service) *CancelTask { return &CancelTask{svc: svc} }

func (t *CancelTask) Name() string        { return "cancel_task" }
func (t *CancelTask) Description() string { return "Cancel a task from any phase, recording a reason." }
func (t *CancelTask) InputSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {"task_id": {"type": "string"}, "reason": {"type": "string"}},
  "required": ["task_id"]
}`)
}

func (t *CancelTask) Execute(ctx context.Context, params json.RawMessage) (*mcp.ToolsCallResult, error) {
	var p cancelTaskParams
	if err := json.Unmarshal(params, &p); err != nil {
		return mcp.ErrorResult(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	task, err := t.svc.Cancel(p.TaskID, p.Reason)
	if err != nil {
		return mcp.ErrorResult(err.Error()), nil
	}
	return mcp.JSONResult(viewOf(task))
}

// --- delete_task ---

type DeleteTask struct{ svc *service.Service }

func NewDeleteTask(svc *service.Service) *DeleteTask { return &DeleteTask{svc: svc} }

func (t *DeleteTask) Name() string        { return "delete_task" }
func (t *DeleteTask) Description() string { return "Permanently remove a task." }
func (t *DeleteTask) InputSchema() json.RawMessage {
	return json.RawMessage(`{"type":"object","properties":{"task_id":{"type":"string"}},"required":["task_id"]}`)
}

func (t *DeleteTask) Execute(ctx context.Context, params json.RawMessage) (*mcp.ToolsCallResult, error) {
	var p taskIDParams
	if err := json.Unmarshal(params, &p); err != nil {
		return mcp.ErrorResult(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if err := t.svc.DeleteTask(p.TaskID); err != nil {
		return mcp.ErrorResult(err.Error()), nil
	}
	return mcp.JSONResult(map[string]any{"task_id": p.TaskID, "deleted": true})
}

// --- update_task ---

type updateTaskParams struct {
	TaskID      string  `json:"task_id"`
	Name        *string `json:"name,omitempty"`
	Command     *string `json:"command,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Status      *string `json:"status,omitempty"`
	ProjectID   *string `json:"project_id,omitempty"`
}

type UpdateTask struct{ svc *service.Service }

func NewUpdateTask(svc *service.Service) *UpdateTask { return &UpdateTask{svc: svc} }

func (t *UpdateTask) Name() string { return "update_task" }
func (t *UpdateTask) Description() string {
	return "Partially update a task; a status change is always routed through the phase state machine."
}
func (t *UpdateTask) InputSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "task_id": {"type": "string"},
    "name": {"type": "string"},
    "command": {"type": "string"},
    "description": {"type": "string"},
    "priority": {"type": "string"},
    "status": {"type": "string"},
    "project_id": {"type": "string"}
  },
  "required": ["task_id"]
}`)
}

func (t *UpdateTask) Execute(ctx context.Context, params json.RawMessage) (*mcp.ToolsCallResult, error) {
	var p updateTaskParams
	if err := json.Unmarshal(params, &p); err != nil {
		return mcp.ErrorResult(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	patch := service.TaskPatch{
		Name:        p.Name,
		Command:     p.Command,
		Description: p.Description,
		ProjectID:   p.ProjectID,
	}
	if p.Priority != nil {
		pr := model.ParsePriority(*p.Priority)
		patch.Priority = &pr
	}
	if p.Status != nil {
		ph := model.Phase(*p.Status).Normalize()
		patch.Status = &ph
	}

	task, err := t.svc.UpdateTaskPartial(p.TaskID, patch)
	if err != nil {
		return mcp.ErrorResult(err.Error()), nil
	}
	return mcp.JSONResult(viewOf(task))
}

// --- upsert_task ---

type upsertTaskParams struct {
	Name               string   `json:"name"`
	Command            string   `json:"command"`
	Description        string   `json:"description,omitempty"`
	ProjectID          string   `json:"project_id,omitempty"`
	Priority           string   `json:"priority,omitempty"`
	TechnicalSpecs     string   `json:"technical_specs,omitempty"`
	AcceptanceCriteria []string `json:"acceptance_criteria,omitempty"`
}

type UpsertTask struct{ svc *service.Service }

func NewUpsertTask(svc *service.Service) *UpsertTask { return &UpsertTask{svc: svc} }

func (t *UpsertTask) Name() string { return "upsert_task" }
func (t *UpsertTask) Description() string {
	return "Insert a task, or update the existing task with the same name."
}
func (t *UpsertTask) InputSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "command": {"type": "string"},
    "description": {"type": "string"},
    "project_id": {"type": "string"},
    "priority": {"type": "string"},
    "technical_specs": {"type": "string"},
    "acceptance_criteria": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["name", "command"]
}`)
}

func (t *UpsertTask) Execute(ctx context.Context, params json.RawMessage) (*mcp.ToolsCallResult, error) {
	var p upsertTaskParams
	if err := json.Unmarshal(params, &p); err != nil {
		return mcp.ErrorResult(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	task, err := t.svc.UpsertTaskByName(ctx, service.TaskDraft{
		Name:               p.Name,
		Command:            p.Command,
		Description:        p.Description,
		ProjectID:          p.ProjectID,
		Priority:           model.ParsePriority(p.Priority),
		TechnicalSpecs:     p.TechnicalSpecs,
		AcceptanceCriteria: p.AcceptanceCriteria,
	})
	if err != nil {
		return mcp.ErrorResult(err.Error()), nil
	}
	return mcp.JSONResult(viewOf(task))
}
