package model

import "time"

// AIReviewReport is a single model's review of a task, accumulated in the
// task's DevelopmentWorkflow during the AIReview phase.
type AIReviewReport struct {
	ModelName   string     `json:"model_name"`
	ReviewType  ReviewType `json:"review_type"`
	Content     string     `json:"content"`
	Score       float64    `json:"score"`
	Approved    bool       `json:"approved"`
	Suggestions []string   `json:"suggestions,omitempty"`
	ReviewedAt  time.Time  `json:"reviewed_at"`
}

// DevelopmentWorkflow carries Planning/Testing outputs and the accumulated
// AI review reports for a task, plus its own workflow_status ladder.
type DevelopmentWorkflow struct {
	TechnicalDocumentationPath string           `json:"technical_documentation_path,omitempty"`
	TestCoverage               *float64         `json:"test_coverage,omitempty"`
	AIReviewReports            []AIReviewReport `json:"ai_review_reports"`
	WorkflowStatus             WorkflowStatus   `json:"workflow_status"`
	StartedAt                  *time.Time       `json:"started_at,omitempty"`
	CompletedAt                *time.Time       `json:"completed_at,omitempty"`
}

// NewDevelopmentWorkflow returns a fresh, NotStarted workflow — the default
// materialized for tasks that predate this field, per the domain model's
// legacy-defaulting rule.
func NewDevelopmentWorkflow() *DevelopmentWorkflow {
	return &DevelopmentWorkflow{
		AIReviewReports: []AIReviewReport{},
		WorkflowStatus:  WorkflowNotStarted,
	}
}

// Clone returns a deep copy, so a caller can mutate the result without the
// original (e.g. a pre-mutation snapshot kept for rollback) observing the
// change through a shared slice or pointer field.
func (w *DevelopmentWorkflow) Clone() *DevelopmentWorkflow {
	clone := *w
	if w.TestCoverage != nil {
		v := *w.TestCoverage
		clone.TestCoverage = &v
	}
	if w.StartedAt != nil {
		v := *w.StartedAt
		clone.StartedAt = &v
	}
	if w.CompletedAt != nil {
		v := *w.CompletedAt
		clone.CompletedAt = &v
	}
	clone.AIReviewReports = append([]AIReviewReport(nil), w.AIReviewReports...)
	return &clone
}

// NextWorkflowStatus computes the single-step advance of the workflow
// status ladder: NotStarted -> Planning -> InImplementation ->
// TestCreation -> Testing -> AIReview -> Completed. Once Completed or
// Failed, advancing is a no-op (the status does not change).
func NextWorkflowStatus(current WorkflowStatus) WorkflowStatus {
	switch current {
	case WorkflowNotStarted:
		return WorkflowPlanning
	case WorkflowPlanning:
		return WorkflowInImplementation
	case WorkflowInImplementation:
		return WorkflowTestCreation
	case WorkflowTestCreation:
		return WorkflowTesting
	case WorkflowTesting:
		return WorkflowAIReview
	case WorkflowAIReview:
		return WorkflowCompleted
	default:
		return current
	}
}
