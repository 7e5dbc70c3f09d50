// Package phase implements the task development-lifecycle state machine:
// the legal-transition table, prerequisite checks, phase-history
// bookkeeping, and the pure effective-status reconciliation function.
package phase

import (
	"errors"
	"fmt"
	"time"

	"github.com/hivellm/taskqueue-go/internal/model"
)

// ErrInvalidTransition is wrapped by every rejected transition, so callers
// can match it with errors.Is regardless of the offending phase pair.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrReviewsIncomplete is returned attempting AIReview -> Finalized before
// enough AI reviews have been completed.
var ErrReviewsIncomplete = errors.New("insufficient AI reviews completed")

// legalTransitions enumerates the §4.3 transition table. Cancellation
// (any -> Cancelled) and no-ops (any -> itself) are handled outside this
// table since they apply uniformly to every phase.
var legalTransitions = map[model.Phase][]model.Phase{
	model.PhasePlanning:       {model.PhaseImplementation},
	model.PhaseImplementation: {model.PhaseTestCreation},
	model.PhaseTestCreation:   {model.PhaseTesting},
	model.PhaseTesting:        {model.PhaseAIReview},
	model.PhaseAIReview:       {model.PhaseFinalized, model.PhaseImplementation},
	model.PhaseFailed:         {model.PhaseImplementation, model.PhasePlanning},
}

// CanTransition reports whether moving a task from `from` to `to` is
// structurally legal, ignoring phase-specific prerequisites (such as the
// AI-review count gate on AIReview -> Finalized).
func CanTransition(from, to model.Phase) bool {
	if from == to {
		return true
	}
	if to == model.PhaseCancelled {
		return true
	}
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Validate checks both structural legality and phase-specific
// prerequisites for a transition on the given task.
func Validate(t *model.Task, to model.Phase) error {
	from := t.CurrentPhase
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidTransition, from, to)
	}
	if from == model.PhaseAIReview && to == model.PhaseFinalized {
		if t.AIReviewsCompleted < t.AIReviewsRequired {
			return fmt.Errorf("%w: need %d, have %d", ErrReviewsIncomplete, t.AIReviewsRequired, t.AIReviewsCompleted)
		}
	}
	return nil
}

// Apply validates and then performs the transition, closing the current
// phase-history entry and appending a fresh one when the phase actually
// changes (a self-transition is a no-op on history). Finalized only
// closes the final phase entry; it never opens a new one.
func Apply(t *model.Task, to model.Phase) error {
	if err := Validate(t, to); err != nil {
		return err
	}

	from := t.CurrentPhase
	if from == to {
		return nil
	}

	now := time.Now().UTC()
	if len(t.Phases) > 0 {
		t.Phases[len(t.Phases)-1].CompletedAt = &now
	}

	if to != model.PhaseFinalized {
		t.Phases = append(t.Phases, model.TaskPhase{
			Phase:     to,
			StartedAt: &now,
		})
	}

	t.CurrentPhase = to
	t.Status = to
	t.UpdatedAt = now
	return nil
}

// AdvancePhase computes the single legal "forward" phase from the task's
// current phase and applies it. It mirrors the linear happy path
// Planning -> Implementation -> TestCreation -> Testing -> AIReview ->
// Finalized; it never produces a rollback or cancellation.
func AdvancePhase(t *model.Task) error {
	next, ok := nextForward(t.CurrentPhase)
	if !ok {
		return fmt.Errorf("%w: no forward phase from %s", ErrInvalidTransition, t.CurrentPhase)
	}
	return Apply(t, next)
}

func nextForward(from model.Phase) (model.Phase, bool) {
	switch from {
	case model.PhasePlanning:
		return model.PhaseImplementation, true
	case model.PhaseImplementation:
		return model.PhaseTestCreation, true
	case model.PhaseTestCreation:
		return model.PhaseTesting, true
	case model.PhaseTesting:
		return model.PhaseAIReview, true
	case model.PhaseAIReview:
		return model.PhaseFinalized, true
	default:
		return "", false
	}
}

// Cancel moves a task to Cancelled from any phase, closing the current
// phase-history entry.
func Cancel(t *model.Task, reason string) error {
	if err := Apply(t, model.PhaseCancelled); err != nil {
		return err
	}
	t.SetResult(&model.Result{Kind: model.ResultCancelled, Reason: reason})
	return nil
}
