package httpapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/hivellm/taskqueue-go/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type createTaskRequest struct {
	Name               string   `json:"name" validate:"required"`
	Command            string   `json:"command" validate:"required"`
	Description        string   `json:"description" validate:"required"`
	TechnicalSpecs     string   `json:"technical_specs"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
	ProjectID          string   `json:"project_id" validate:"required"`
	TaskType           string   `json:"task_type"`
	Priority           string   `json:"priority"`
	AIReviewsRequired  *int     `json:"ai_reviews_required"`
}

type upsertTaskRequest struct {
	Name               string   `json:"name" validate:"required"`
	Command            string   `json:"command" validate:"required"`
	Description        string   `json:"description"`
	ProjectID          string   `json:"project_id"`
	Priority           string   `json:"priority"`
	TechnicalSpecs     string   `json:"technical_specs"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
}

type updateTaskRequest struct {
	Name        *string `json:"name"`
	Command     *string `json:"command"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	ProjectID   *string `json:"project_id"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type priorityRequest struct {
	Priority string `json:"priority" validate:"required"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

type retryRequest struct {
	ResetRetryCount bool `json:"reset_retry_count"`
}

type addDependencyRequest struct {
	TaskID        string `json:"task_id" validate:"required"`
	TaskName      string `json:"task_name"`
	Condition     string `json:"condition"`
	Required      bool   `json:"required"`
	CorrelationID string `json:"correlation_id"`
}

type technicalDocumentationRequest struct {
	Path string `json:"path" validate:"required"`
}

type testCoverageRequest struct {
	Fraction float64 `json:"fraction" validate:"min=0,max=1"`
}

type aiReviewReportRequest struct {
	ModelName   string   `json:"model_name" validate:"required"`
	ReviewType  string   `json:"review_type" validate:"required"`
	Content     string   `json:"content"`
	Score       float64  `json:"score" validate:"min=0,max=1"`
	Approved    bool     `json:"approved"`
	Suggestions []string `json:"suggestions"`
}

type createProjectRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type updateProjectRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Status      *string  `json:"status"`
	Tags        []string `json:"tags"`
}

type createWorkflowRequest struct {
	Name        string            `json:"name" validate:"required"`
	Description string            `json:"description"`
	Tasks       []model.Task      `json:"tasks"`
	Edges       []model.WorkflowEdge `json:"dependencies"`
}

type workflowStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
