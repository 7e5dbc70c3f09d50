package httpapi

import (
	"github.com/hivellm/taskqueue-go/internal/model"
	"github.com/hivellm/taskqueue-go/internal/phase"
)

// taskView is the shape every task-returning response serializes: the
// task with its effective status substituted into Status, per spec.md
// §4.6's "substitutes effective status on every task serialization".
type taskView struct {
	*model.Task
}

func viewOf(t *model.Task) taskView {
	clone := *t
	clone.Status = phase.EffectiveStatus(t)
	return taskView{Task: &clone}
}

func viewsOf(tasks []*model.Task) []taskView {
	out := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, viewOf(t))
	}
	return out
}
