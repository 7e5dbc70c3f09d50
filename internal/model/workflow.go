package model

import "time"

// WorkflowEdge is a typed dependency edge between two tasks embedded in a
// Workflow (a group of tasks), distinct from a Task's own Dependency list.
type WorkflowEdge struct {
	FromTaskID string              `json:"from_task_id"`
	ToTaskID   string              `json:"to_task_id"`
	Condition  DependencyCondition `json:"condition"`
}

// Workflow is a named group of tasks with explicit dependency edges
// between them, tracked as a unit separate from each task's own phase
// ladder.
type Workflow struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Tasks       []Task         `json:"tasks"`
	Edges       []WorkflowEdge `json:"dependencies"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Status      GroupStatus    `json:"status"`
}

// NewWorkflow builds a Workflow in Pending status.
func NewWorkflow(id, name string) *Workflow {
	now := time.Now().UTC()
	return &Workflow{
		ID:        id,
		Name:      name,
		Tasks:     []Task{},
		Edges:     []WorkflowEdge{},
		CreatedAt: now,
		UpdatedAt: now,
		Status:    GroupPending,
	}
}

// GetReadyTasks returns the embedded tasks whose dependencies are all
// satisfied by completed, per Task.IsReady.
func (w *Workflow) GetReadyTasks(completed map[string]*Result) []*Task {
	var ready []*Task
	for i := range w.Tasks {
		if w.Tasks[i].IsReady(completed) {
			ready = append(ready, &w.Tasks[i])
		}
	}
	return ready
}

// HasCycle reports whether the dependency graph formed by the embedded
// tasks' own Dependencies lists (restricted to tasks within this
// workflow) contains a cycle, using three-color DFS.
func (w *Workflow) HasCycle() bool {
	adjacency := make(map[string][]string, len(w.Tasks))
	inWorkflow := make(map[string]bool, len(w.Tasks))
	for _, t := range w.Tasks {
		inWorkflow[t.ID] = true
	}
	for _, t := range w.Tasks {
		for _, dep := range t.Dependencies {
			if inWorkflow[dep.TaskID] {
				adjacency[t.ID] = append(adjacency[t.ID], dep.TaskID)
			}
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(w.Tasks))

	var visit func(node string) bool
	visit = func(node string) bool {
		color[node] = gray
		for _, next := range adjacency[node] {
			switch color[next] {
			case gray:
				return true
			case white:
				if visit(next) {
					return true
				}
			}
		}
		color[node] = black
		return false
	}

	for _, t := range w.Tasks {
		if color[t.ID] == white {
			if visit(t.ID) {
				return true
			}
		}
	}
	return false
}
