package model

// Metrics records best-effort execution metrics for a finished task. The
// service never computes these — it only stores whatever a caller reports.
type Metrics struct {
	ExecutionTimeMS int64   `json:"execution_time_ms,omitempty"`
	MemoryUsage     uint64  `json:"memory_usage,omitempty"`
	CPUUsage        float64 `json:"cpu_usage,omitempty"`
	DiskUsage       uint64  `json:"disk_usage,omitempty"`
	NetworkIO       uint64  `json:"network_io,omitempty"`
}

// Result is a tagged variant over a task's terminal outcome. Exactly one
// of the Kind-specific field groups is meaningful for a given Kind.
type Result struct {
	Kind ResultKind `json:"kind"`

	// Success fields.
	Output    string   `json:"output,omitempty"`
	Artifacts []string `json:"artifacts,omitempty"`
	Metrics   *Metrics `json:"metrics,omitempty"`

	// Failure fields.
	Error    string   `json:"error,omitempty"`
	ExitCode *int     `json:"exit_code,omitempty"`
	Logs     []string `json:"logs,omitempty"`

	// Cancelled fields.
	Reason string `json:"reason,omitempty"`
}

// SatisfiesCondition reports whether this result satisfies a dependency
// condition, per the rule in the domain spec: Completion matches any
// terminal result, Success matches only Success, Failure matches only
// Failure. Custom conditions are never satisfied by this rule alone.
func (r *Result) SatisfiesCondition(cond DependencyCondition) bool {
	if r == nil {
		return false
	}
	switch cond {
	case ConditionCompletion:
		return true
	case ConditionSuccess:
		return r.Kind == ResultSuccess
	case ConditionFailure:
		return r.Kind == ResultFailure
	default:
		return false
	}
}
