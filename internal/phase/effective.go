package phase

import "github.com/hivellm/taskqueue-go/internal/model"

// EffectiveStatus is the pure function of a task's two phase ladders that
// every read path reports as the task's single `status`. It never mutates
// the task and never consults storage.
//
// Rules, in order:
//  1. No workflow attached: effective = current phase.
//  2. Workflow attached, workflow_status == NotStarted: effective = current
//     phase, mapped through the same identity mapping as case 1 (falling
//     back to Planning for anything unrecognized).
//  3. Otherwise: effective is derived from workflow_status.
func EffectiveStatus(t *model.Task) model.Phase {
	wf := t.DevelopmentWorkflow
	if wf == nil {
		return t.CurrentPhase
	}

	if wf.WorkflowStatus == model.WorkflowNotStarted {
		switch t.CurrentPhase {
		case model.PhasePlanning, model.PhaseImplementation, model.PhaseTestCreation,
			model.PhaseTesting, model.PhaseAIReview, model.PhaseFinalized,
			model.PhaseCompleted, model.PhaseFailed, model.PhaseCancelled:
			return t.CurrentPhase
		default:
			return model.PhasePlanning
		}
	}

	switch wf.WorkflowStatus {
	case model.WorkflowNotStarted:
		return model.PhasePlanning
	case model.WorkflowPlanning:
		return model.PhasePlanning
	case model.WorkflowInImplementation:
		return model.PhaseImplementation
	case model.WorkflowTestCreation:
		return model.PhaseTestCreation
	case model.WorkflowTesting:
		return model.PhaseTesting
	case model.WorkflowAIReview:
		return model.PhaseAIReview
	case model.WorkflowCompleted:
		return model.PhaseCompleted
	case model.WorkflowFailed:
		return model.PhaseFailed
	default:
		return model.PhasePlanning
	}
}

// MatchesFilter reports whether a task's effective status matches a
// case-insensitive status filter name as accepted by the HTTP `/tasks`
// listing endpoint (planning, pending, running, completed, failed,
// cancelled, implementation, testcreation, testing, aireview).
func MatchesFilter(t *model.Task, filter string) bool {
	eff := EffectiveStatus(t)
	return string(eff) == canonicalFilterPhase(filter)
}

func canonicalFilterPhase(filter string) string {
	switch asciiLowerPhase(filter) {
	case "planning":
		return string(model.PhasePlanning)
	case "pending":
		return string(model.PhasePending)
	case "running":
		return string(model.PhaseRunning)
	case "completed":
		return string(model.PhaseCompleted)
	case "failed":
		return string(model.PhaseFailed)
	case "cancelled":
		return string(model.PhaseCancelled)
	case "implementation":
		return string(model.PhaseImplementation)
	case "testcreation":
		return string(model.PhaseTestCreation)
	case "testing":
		return string(model.PhaseTesting)
	case "aireview":
		return string(model.PhaseAIReview)
	default:
		return filter
	}
}

func asciiLowerPhase(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
