package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hivellm/taskqueue-go/internal/mcp"
	"github.com/hivellm/taskqueue-go/internal/service"
)

// --- create_project ---

type createProjectParams struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type CreateProject struct{ svc *service.Service }

func NewCreateProject(svc *service.Service) *CreateProject { return &CreateProject{svc: svc} }

func (t *CreateProject) Name() string        { return "create_project" }
func (t *CreateProject) Description() string { return "Create a new project tasks can be attached to." }
func (t *CreateProject) InputSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "description": {"type": "string"},
    "tags": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["name"]
}`)
}

func (t *CreateProject) Execute(ctx context.Context, params json.RawMessage) (*mcp.ToolsCallResult, error) {
	var p createProjectParams
	if err := json.Unmarshal(params, &p); err != nil {
		return mcp.ErrorResult(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	project, err := t.svc.CreateProject(p.Name, p.Description, p.Tags)
	if err != nil {
		return mcp.ErrorResult(err.Error()), nil
	}
	return mcp.JSONResult(project)
}

// --- get_project ---

type projectIDParams struct {
	ProjectID string `json:"project_id"`
}

type GetProject struct{ svc *service.Service }

func NewGetProject(svc *service.Service) *GetProject { return &GetProject{svc: svc} }

func (t *GetProject) Name() string        { return "get_project" }
func (t *GetProject) Description() string { return "Get a project by id." }
func (t *GetProject) InputSchema() json.RawMessage {
	return json.RawMessage(`{"type":"object","properties":{"project_id":{"type":"string"}},"required":["project_id"]}`)
}

func (t *GetProject) Execute(ctx context.Context, params json.RawMessage) (*mcp.ToolsCallResult, error) {
	var p projectIDParams
	if err := json.Unmarshal(params, &p); err != nil {
		return mcp.ErrorResult(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	project, err := t.svc.GetProject(p.ProjectID)
	if err != nil {
		return mcp.ErrorResult(err.Error()), nil
	}
	return mcp.JSONResult(project)
}

// --- list_projects ---

type ListProjects struct{ svc *service.Service }

func NewListProjects(svc *service.Service) *ListProjects { return &ListProjects{svc: svc} }

func (t *ListProjects) Name() string        { return "list_projects" }
func (t *ListProjects) Description() string { return "List every project." }
func (t *ListProjects) InputSchema() json.RawMessage {
	return json.RawMessage(`{"type":"object","properties":{}}`)
}

func (t *ListProjects) Execute(ctx context.Context, params json.RawMessage) (*mcp.ToolsCallResult, error) {
	projects := t.svc.ListProjects()
	return mcp.JSONResult(map[string]any{"projects": projects, "count": len(projects)})
}

// --- get_project_tasks ---

type GetProjectTasks struct{ svc *service.Service }

func NewGetProjectTasks(svc *service.Service) *GetProjectTasks { return &GetProjectTasks{svc: svc} }

func (t *GetProjectTasks) Name() string { return "get_project_tasks" }
func (t *GetProjectTasks) Description() string {
	return "List the tasks currently attached to a project."
}
func (t *GetProjectTasks) InputSchema() json.RawMessage {
	return json.RawMessage(`{"type":"object","properties":{"project_id":{"type":"string"}},"required":["project_id"]}`)
}

func (t *GetProjectTasks) Execute(ctx context.Context, params json.RawMessage) (*mcp.ToolsCallResult, error) {
	var p projectIDParams
	if err := json.Unmarshal(params, &p); err != nil {
		return mcp.ErrorResult(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if _, err := t.svc.GetProject(p.ProjectID); err != nil {
		return mcp.ErrorResult(err.Error()), nil
	}
	tasks := t.svc.ProjectTasks(p.ProjectID)
	views := make([]taskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, viewOf(task))
	}
	return mcp.JSONResult(map[string]any{"tasks": views, "count": len(views)})
}
