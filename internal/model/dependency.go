package model

import "time"

// Dependency references another task by id, with a condition that must
// hold against the referenced task's recorded result for this dependency
// to be considered met.
type Dependency struct {
	TaskID        string              `json:"task_id"`
	TaskName      string              `json:"task_name,omitempty"`
	Condition     DependencyCondition `json:"condition"`
	Required      bool                `json:"required"`
	CorrelationID string              `json:"correlation_id,omitempty"`
	Metadata      map[string]any      `json:"metadata,omitempty"`
}

// TaskPhase is one append-only entry in a task's phase history.
type TaskPhase struct {
	Phase         Phase            `json:"phase"`
	StartedAt     *time.Time       `json:"started_at,omitempty"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"`
	Documentation string           `json:"documentation,omitempty"`
	Artifacts     []string         `json:"artifacts,omitempty"`
	AIReviews     []AIReviewReport `json:"ai_reviews,omitempty"`
}
