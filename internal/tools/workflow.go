package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hivellm/taskqueue-go/internal/mcp"
	"github.com/hivellm/taskqueue-go/internal/model"
	"github.com/hivellm/taskqueue-go/internal/service"
)

// --- advance_workflow_phase ---

type AdvanceWorkflowPhase struct{ svc *service.Service }

func NewAdvanceWorkflowPhase(svc *service.Service) *AdvanceWorkflowPhase {
	return &AdvanceWorkflowPhase{svc: svc}
}

func (t *AdvanceWorkflowPhase) Name() string { return "advance_workflow_phase" }
func (t *AdvanceWorkflowPhase) Description() string {
	return "Advance a task's development workflow one step (NotStarted..AIReview->Completed), gating the final step on the AI-review count."
}
func (t *AdvanceWorkflowPhase) InputSchema() json.RawMessage {
	return json.RawMessage(`{"type":"object","properties":{"task_id":{"type":"string"}},"required":["task_id"]}`)
}

func (t *AdvanceWorkflowPhase) Execute(ctx context.Context, params json.RawMessage) (*mcp.ToolsCallResult, error) {
	var p taskIDParams
	if err := json.Unmarshal(params, &p); err != nil {
		return mcp.ErrorResult(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	task, err := t.svc.AdvanceDevelopmentWorkflow(p.TaskID)
	if err != nil {
		return mcp.ErrorResult(err.Error()), nil
	}
	return mcp.JSONResult(viewOf(task))
}

// --- set_technical_documentation ---

type setTechnicalDocumentationParams struct {
	TaskID string `json:"task_id"`
	Path   string `json:"path"`
}

type SetTechnicalDocumentation struct{ svc *service.Service }

func NewSetTechnicalDocumentation(svc *service.Service) *SetTechnicalDocumentation {
	return &SetTechnicalDocumentation{svc: svc}
}

func (t *SetTechnicalDocumentation) Name() string { return "set_technical_documentation" }
func (t *SetTechnicalDocumentation) Description() string {
	return "Record the path to a task's Planning-phase technical documentation."
}
func (t *SetTechnicalDocumentation) InputSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {"task_id": {"type": "string"}, "path": {"type": "string"}},
  "required": ["task_id", "path"]
}`)
}

func (t *SetTechnicalDocumentation) Execute(ctx context.Context, params json.RawMessage) (*mcp.ToolsCallResult, error) {
	var p setTechnicalDocumentationParams
	if err := json.Unmarshal(params, &p); err != nil {
		return mcp.ErrorResult(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	task, err := t.svc.SetTechnicalDocumentation(p.TaskID, p.Path)
	if err != nil {
		return mcp.ErrorResult(err.Error()), nil
	}
	return mcp.JSONResult(viewOf(task))
}

// --- set_test_coverage ---

type setTestCoverageParams struct {
	TaskID   string  `json:"task_id"`
	Fraction float64 `json:"fraction"`
}

type SetTestCoverage struct{ svc *service.Service }

func NewSetTestCoverage(svc *service.Service) *SetTestCoverage { return &SetTestCoverage{svc: svc} }

func (t *SetTestCoverage) Name() string { return "set_test_coverage" }
func (t *SetTestCoverage) Description() string {
	return "Record a task's Testing-phase coverage fraction, in [0,1]."
}
func (t *SetTestCoverage) InputSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {"task_id": {"type": "string"}, "fraction": {"type": "number", "minimum": 0, "maximum": 1}},
  "required": ["task_id", "fraction"]
}`)
}

func (t *SetTestCoverage) Execute(ctx context.Context, params json.RawMessage) (*mcp.ToolsCallResult, error) {
	var p setTestCoverageParams
	if err := json.Unmarshal(params, &p); err != nil {
		return mcp.ErrorResult(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	task, err := t.svc.SetTestCoverage(p.TaskID, p.Fraction)
	if err != nil {
		return mcp.ErrorResult(err.Error()), nil
	}
	return mcp.JSONResult(viewOf(task))
}

// --- add_ai_review_report ---

type addAIReviewReportParams struct {
	TaskID      string   `json:"task_id"`
	ModelName   string   `json:"model_name"`
	ReviewType  string   `json:"review_type"`
	Content     string   `json:"content,omitempty"`
	Score       float64  `json:"score"`
	Approved    bool     `json:"approved"`
	Suggestions []string `json:"suggestions,omitempty"`
}

type AddAIReviewReport struct{ svc *service.Service }

func NewAddAIReviewReport(svc *service.Service) *AddAIReviewReport {
	return &AddAIReviewReport{svc: svc}
}

func (t *AddAIReviewReport) Name() string { return "add_ai_review_report" }
func (t *AddAIReviewReport) Description() string {
	return "Append an AI review report to a task's development workflow, incrementing ai_reviews_completed."
}
func (t *AddAIReviewReport) InputSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "task_id": {"type": "string"},
    "model_name": {"type": "string"},
    "review_type": {"type": "string", "enum": ["CodeQuality", "Security", "Performance", "Documentation", "Testing", "Architecture"]},
    "content": {"type": "string"},
    "score": {"type": "number", "minimum": 0, "maximum": 1},
    "approved": {"type": "boolean"},
    "suggestions": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["task_id", "model_name", "review_type", "score", "approved"]
}`)
}

func (t *AddAIReviewReport) Execute(ctx context.Context, params json.RawMessage) (*mcp.ToolsCallResult, error) {
	var p addAIReviewReportParams
	if err := json.Unmarshal(params, &p); err != nil {
		return mcp.ErrorResult(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	task, err := t.svc.AddAIReviewReport(p.TaskID, model.AIReviewReport{
		ModelName:   p.ModelName,
		ReviewType:  model.ReviewType(p.ReviewType),
		Content:     p.Content,
		Score:       p.Score,
		Approved:    p.Approved,
		Suggestions: p.Suggestions,
	})
	if err != nil {
		return mcp.ErrorResult(err.Error()), nil
	}
	return mcp.JSONResult(viewOf(task))
}
