package phase

import (
	"strconv"

	"github.com/hivellm/taskqueue-go/internal/model"
)

// Instructions returns the "what must happen next" text for a task,
// computed purely from its effective phase. It is never stored on the
// task and is recomputed on every read by the MCP tool layer.
func Instructions(t *model.Task) string {
	switch EffectiveStatus(t) {
	case model.PhasePlanning:
		return "Planning: record a path to technical documentation via " +
			"set_technical_documentation, then call advance_workflow_phase " +
			"to move into Implementation."
	case model.PhaseImplementation:
		return "Implementation: implement according to the recorded technical " +
			"documentation. Call advance_workflow_phase when implementation is " +
			"complete to move into TestCreation."
	case model.PhaseTestCreation:
		return "TestCreation: write the automated test suite for this task. " +
			"Call advance_workflow_phase when tests are written to move into Testing."
	case model.PhaseTesting:
		return "Testing: execute the test suite and record the achieved " +
			"coverage fraction via set_test_coverage. Call advance_workflow_phase " +
			"when all tests pass to move into AIReview."
	case model.PhaseAIReview:
		if t.AIReviewsCompleted < t.AIReviewsRequired {
			return "AIReview: submit AI review reports via add_ai_review_report " +
				"until ai_reviews_completed reaches ai_reviews_required " +
				"(currently " + strconv.Itoa(t.AIReviewsCompleted) + "/" + strconv.Itoa(t.AIReviewsRequired) +
				"). advance_workflow_phase will then finalize the task."
		}
		return "AIReview: all required reviews are in. Call advance_workflow_phase " +
			"to finalize the task, or move it back to Implementation for remediation."
	case model.PhaseFinalized, model.PhaseCompleted:
		return "This task has completed its development lifecycle."
	case model.PhaseFailed:
		return "This task failed. It may be moved back to Implementation or Planning for remediation."
	case model.PhaseCancelled:
		return "This task was cancelled."
	default:
		return "Call advance_workflow_phase to begin the Planning phase."
	}
}
