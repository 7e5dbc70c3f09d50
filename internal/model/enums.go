// Package model defines the task-queue domain: projects, tasks,
// dependencies, phase history, and the development workflow attached to
// each task. It mirrors the entity shapes of the original task-queue
// service, with legacy-field defaulting rules preserved for
// backward-compatible deserialization.
package model

// Phase is a step in a task's development lifecycle, and also the
// short-lived execution labels (Pending, Running, Completed, Failed,
// Cancelled) that `Task.Status` can carry outside the phase ladder.
type Phase string

const (
	PhasePlanning       Phase = "Planning"
	PhaseImplementation Phase = "Implementation"
	PhaseTestCreation   Phase = "TestCreation"
	PhaseTesting        Phase = "Testing"
	PhaseAIReview       Phase = "AIReview"
	PhaseFinalized      Phase = "Finalized"

	// Execution / terminal labels.
	PhaseCompleted              Phase = "Completed"
	PhaseFailed                 Phase = "Failed"
	PhaseCancelled              Phase = "Cancelled"
	PhasePending                Phase = "Pending"
	PhaseRunning                Phase = "Running"
	PhaseWaitingForDependencies Phase = "WaitingForDependencies"

	// Legacy phase labels, accepted only when deserializing older records.
	PhaseAnalysisAndDocumentation Phase = "AnalysisAndDocumentation"
	PhaseInDiscussion             Phase = "InDiscussion"
	PhaseInImplementation         Phase = "InImplementation"
	PhaseInReview                 Phase = "InReview"
	PhaseInTesting                Phase = "InTesting"
)

// legacyPhaseAliases maps legacy phase labels onto their current
// equivalent, applied when materializing stored values.
var legacyPhaseAliases = map[Phase]Phase{
	PhaseAnalysisAndDocumentation: PhasePlanning,
	PhaseInDiscussion:             PhasePlanning,
	PhaseInImplementation:         PhaseImplementation,
	PhaseInReview:                 PhaseAIReview,
	PhaseInTesting:                PhaseTesting,
}

// Normalize resolves a legacy phase alias to its current equivalent. Phases
// that are not legacy aliases are returned unchanged.
func (p Phase) Normalize() Phase {
	if canonical, ok := legacyPhaseAliases[p]; ok {
		return canonical
	}
	return p
}

// WorkflowStatus is the development workflow's own coarser phase ladder,
// attached to a task via its DevelopmentWorkflow.
type WorkflowStatus string

const (
	WorkflowNotStarted       WorkflowStatus = "NotStarted"
	WorkflowPlanning         WorkflowStatus = "Planning"
	WorkflowInImplementation WorkflowStatus = "InImplementation"
	WorkflowTestCreation     WorkflowStatus = "TestCreation"
	WorkflowTesting          WorkflowStatus = "Testing"
	WorkflowAIReview         WorkflowStatus = "AIReview"
	WorkflowCompleted        WorkflowStatus = "Completed"
	WorkflowFailed           WorkflowStatus = "Failed"
)

// GroupStatus is the status of a Workflow (a group of tasks), distinct
// from WorkflowStatus (a single task's development-workflow ladder).
type GroupStatus string

const (
	GroupPending   GroupStatus = "Pending"
	GroupRunning   GroupStatus = "Running"
	GroupCompleted GroupStatus = "Completed"
	GroupFailed    GroupStatus = "Failed"
	GroupCancelled GroupStatus = "Cancelled"
)

// ProjectStatus is the lifecycle status of a Project.
type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "Planning"
	ProjectActive    ProjectStatus = "Active"
	ProjectOnHold    ProjectStatus = "OnHold"
	ProjectCompleted ProjectStatus = "Completed"
	ProjectCancelled ProjectStatus = "Cancelled"
)

// TaskType classifies how a task relates to others.
type TaskType string

const (
	TaskSimple    TaskType = "Simple"
	TaskDependent TaskType = "Dependent"
	TaskWorkflow  TaskType = "Workflow"
	TaskScheduled TaskType = "Scheduled"
)

// Priority is an ordered task priority. Higher numeric value means higher
// priority, so Priority values compare correctly with `<`.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

// String renders a Priority using its debug name.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityNormal:
		return "Normal"
	case PriorityHigh:
		return "High"
	case PriorityCritical:
		return "Critical"
	default:
		return "Normal"
	}
}

// ParsePriority parses a priority name case-insensitively, defaulting to
// Normal for unrecognized input.
func ParsePriority(s string) Priority {
	switch asciiLower(s) {
	case "low":
		return PriorityLow
	case "high":
		return PriorityHigh
	case "critical":
		return PriorityCritical
	default:
		return PriorityNormal
	}
}

// MarshalJSON renders a Priority by its debug name.
func (p Priority) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON parses a Priority from its debug name.
func (p *Priority) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	*p = ParsePriority(s)
	return nil
}

// DependencyCondition is the predicate a dependency's referenced task
// result must satisfy for the dependency to be considered met.
type DependencyCondition string

const (
	ConditionSuccess    DependencyCondition = "Success"
	ConditionFailure    DependencyCondition = "Failure"
	ConditionCompletion DependencyCondition = "Completion"
)

// IsCustomCondition reports whether a condition string is a custom serialized
// predicate rather than one of the three built-in conditions.
func IsCustomCondition(c DependencyCondition) bool {
	switch c {
	case ConditionSuccess, ConditionFailure, ConditionCompletion:
		return false
	default:
		return true
	}
}

// ReviewType tags an AI review report by the dimension it assessed.
type ReviewType string

const (
	ReviewCodeQuality  ReviewType = "CodeQuality"
	ReviewSecurity     ReviewType = "Security"
	ReviewPerformance  ReviewType = "Performance"
	ReviewDocumentation ReviewType = "Documentation"
	ReviewTesting      ReviewType = "Testing"
	ReviewArchitecture ReviewType = "Architecture"
)

// ResultKind tags the variant of a Result.
type ResultKind string

const (
	ResultSuccess   ResultKind = "Success"
	ResultFailure   ResultKind = "Failure"
	ResultCancelled ResultKind = "Cancelled"
)

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
