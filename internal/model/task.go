package model

import (
	"encoding/json"
	"time"
)

// DefaultAIReviewsRequired is the default minimum count of AI review
// reports required before a task can move from AIReview to Finalized.
const DefaultAIReviewsRequired = 3

// DefaultDescription is substituted for tasks materialized from storage
// that predate the description field.
const DefaultDescription = "Task description not available"

// Task is the central unit of work tracked by the service.
type Task struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Command            string         `json:"command"`
	Description        string         `json:"description"`
	TechnicalSpecs      string        `json:"technical_specs,omitempty"`
	AcceptanceCriteria []string       `json:"acceptance_criteria,omitempty"`
	ProjectID          string         `json:"project_id,omitempty"`
	TaskType           TaskType       `json:"task_type"`
	Priority           Priority       `json:"priority"`

	Dependencies []Dependency `json:"dependencies,omitempty"`

	Timeout      time.Duration     `json:"timeout,omitempty"`
	RetryAttempts int              `json:"retry_attempts"`
	RetryDelay   time.Duration     `json:"retry_delay"`
	Environment  map[string]string `json:"environment,omitempty"`
	WorkingDirectory string        `json:"working_directory,omitempty"`

	Status       Phase       `json:"status"`
	CurrentPhase Phase       `json:"current_phase"`
	Phases       []TaskPhase `json:"phases"`
	Result       *Result     `json:"result,omitempty"`

	AIReviewsRequired  int `json:"ai_reviews_required"`
	AIReviewsCompleted int `json:"ai_reviews_completed"`

	DevelopmentWorkflow *DevelopmentWorkflow `json:"development_workflow,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewTask builds a Task in its initial Planning phase, with one open
// phase-history entry and a fresh NotStarted development workflow.
func NewTask(id, name, command string) *Task {
	now := time.Now().UTC()
	return &Task{
		ID:                 id,
		Name:               name,
		Command:            command,
		Description:        DefaultDescription,
		TaskType:           TaskSimple,
		Priority:           PriorityNormal,
		RetryAttempts:      3,
		RetryDelay:         30 * time.Second,
		Status:             PhasePlanning,
		CurrentPhase:       PhasePlanning,
		Phases: []TaskPhase{{
			Phase:     PhasePlanning,
			StartedAt: &now,
		}},
		AIReviewsRequired:   DefaultAIReviewsRequired,
		DevelopmentWorkflow: NewDevelopmentWorkflow(),
		CreatedAt:           now,
		UpdatedAt:           now,
		Metadata:            map[string]any{},
	}
}

// taskAlias lets UnmarshalJSON detect field presence without recursing.
type taskAlias Task

// UnmarshalJSON applies the legacy-defaulting rules: absent description
// becomes DefaultDescription, absent ai_reviews_required becomes 3, and
// an absent development_workflow becomes a fresh NotStarted one.
func (t *Task) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	aux := taskAlias{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if _, ok := raw["description"]; !ok || aux.Description == "" {
		aux.Description = DefaultDescription
	}
	if _, ok := raw["ai_reviews_required"]; !ok {
		aux.AIReviewsRequired = DefaultAIReviewsRequired
	}
	if _, ok := raw["development_workflow"]; !ok || aux.DevelopmentWorkflow == nil {
		aux.DevelopmentWorkflow = NewDevelopmentWorkflow()
	}
	if aux.CurrentPhase == "" {
		aux.CurrentPhase = PhasePlanning
	}
	aux.CurrentPhase = aux.CurrentPhase.Normalize()
	aux.Status = aux.Status.Normalize()

	*t = Task(aux)
	return nil
}

// IsReady reports whether every dependency of t has a recorded result in
// completed that satisfies the dependency's condition. A dependency
// without an entry in completed always fails readiness, regardless of
// its Required flag.
func (t *Task) IsReady(completed map[string]*Result) bool {
	for _, dep := range t.Dependencies {
		result, ok := completed[dep.TaskID]
		if !ok {
			return false
		}
		if !result.SatisfiesCondition(dep.Condition) {
			return false
		}
	}
	return true
}

// AddDependency appends an uncorrelated dependency.
func (t *Task) AddDependency(taskID, taskName string, cond DependencyCondition, required bool) {
	t.Dependencies = append(t.Dependencies, Dependency{
		TaskID:    taskID,
		TaskName:  taskName,
		Condition: cond,
		Required:  required,
	})
	t.UpdatedAt = time.Now().UTC()
}

// AddCorrelatedDependency appends a dependency tagged with a correlation
// id, grouping it with other dependencies reasoned about together.
func (t *Task) AddCorrelatedDependency(taskID, taskName string, cond DependencyCondition, required bool, correlationID string) {
	t.Dependencies = append(t.Dependencies, Dependency{
		TaskID:        taskID,
		TaskName:      taskName,
		Condition:     cond,
		Required:      required,
		CorrelationID: correlationID,
	})
	t.UpdatedAt = time.Now().UTC()
}

// DependenciesByCorrelation returns the dependencies sharing correlationID.
func (t *Task) DependenciesByCorrelation(correlationID string) []Dependency {
	var out []Dependency
	for _, d := range t.Dependencies {
		if d.CorrelationID == correlationID {
			out = append(out, d)
		}
	}
	return out
}

// SetResult records a terminal result and updates Status to match it.
func (t *Task) SetResult(r *Result) {
	t.Result = r
	t.UpdatedAt = time.Now().UTC()
	if r == nil {
		return
	}
	switch r.Kind {
	case ResultSuccess:
		t.Status = PhaseCompleted
	case ResultFailure:
		t.Status = PhaseFailed
	case ResultCancelled:
		t.Status = PhaseCancelled
	}
}
