package phase

import (
	"errors"
	"testing"

	"github.com/hivellm/taskqueue-go/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from model.Phase
		to   model.Phase
		want bool
	}{
		{"self transition always legal", model.PhasePlanning, model.PhasePlanning, true},
		{"planning to implementation", model.PhasePlanning, model.PhaseImplementation, true},
		{"planning to testing skips steps", model.PhasePlanning, model.PhaseTesting, false},
		{"implementation to test creation", model.PhaseImplementation, model.PhaseTestCreation, true},
		{"test creation to testing", model.PhaseTestCreation, model.PhaseTesting, true},
		{"testing to ai review", model.PhaseTesting, model.PhaseAIReview, true},
		{"ai review to finalized", model.PhaseAIReview, model.PhaseFinalized, true},
		{"ai review back to implementation", model.PhaseAIReview, model.PhaseImplementation, true},
		{"failed to implementation", model.PhaseFailed, model.PhaseImplementation, true},
		{"failed to planning", model.PhaseFailed, model.PhasePlanning, true},
		{"any phase to cancelled", model.PhasePlanning, model.PhaseCancelled, true},
		{"finalized is terminal", model.PhaseFinalized, model.PhaseImplementation, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestValidateGatesFinalizedOnReviewCount(t *testing.T) {
	task := model.NewTask("t1", "name", "cmd")
	task.CurrentPhase = model.PhaseAIReview
	task.AIReviewsRequired = 3
	task.AIReviewsCompleted = 1

	err := Validate(task, model.PhaseFinalized)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReviewsIncomplete))

	task.AIReviewsCompleted = 3
	assert.NoError(t, Validate(task, model.PhaseFinalized))
}

func TestApplyAppendsHistoryOnPhaseChange(t *testing.T) {
	task := model.NewTask("t1", "name", "cmd")
	require.Len(t, task.Phases, 1)

	require.NoError(t, Apply(task, model.PhaseImplementation))
	require.Len(t, task.Phases, 2)
	assert.NotNil(t, task.Phases[0].CompletedAt)
	assert.Nil(t, task.Phases[1].CompletedAt)
	assert.Equal(t, model.PhaseImplementation, task.CurrentPhase)
	assert.Equal(t, model.PhaseImplementation, task.Status)
}

func TestApplyToFinalizedClosesHistoryWithoutOpeningNewEntry(t *testing.T) {
	task := model.NewTask("t1", "name", "cmd")
	task.CurrentPhase = model.PhaseAIReview
	task.Phases = append(task.Phases, model.TaskPhase{Phase: model.PhaseAIReview})
	task.AIReviewsCompleted = task.AIReviewsRequired

	require.NoError(t, Apply(task, model.PhaseFinalized))
	assert.Len(t, task.Phases, 2)
	assert.NotNil(t, task.Phases[1].CompletedAt)
	assert.Equal(t, model.PhaseFinalized, task.CurrentPhase)
}

func TestApplySelfTransitionIsNoOp(t *testing.T) {
	task := model.NewTask("t1", "name", "cmd")
	before := len(task.Phases)
	require.NoError(t, Apply(task, model.PhasePlanning))
	assert.Len(t, task.Phases, before)
}

func TestAdvancePhaseWalksHappyPath(t *testing.T) {
	task := model.NewTask("t1", "name", "cmd")
	task.AIReviewsCompleted = task.AIReviewsRequired

	expected := []model.Phase{
		model.PhaseImplementation,
		model.PhaseTestCreation,
		model.PhaseTesting,
		model.PhaseAIReview,
		model.PhaseFinalized,
	}
	for _, want := range expected {
		require.NoError(t, AdvancePhase(task))
		assert.Equal(t, want, task.CurrentPhase)
	}

	err := AdvancePhase(task)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestCancelRecordsResult(t *testing.T) {
	task := model.NewTask("t1", "name", "cmd")
	require.NoError(t, Cancel(task, "no longer needed"))
	assert.Equal(t, model.PhaseCancelled, task.CurrentPhase)
	require.NotNil(t, task.Result)
	assert.Equal(t, model.ResultCancelled, task.Result.Kind)
	assert.Equal(t, "no longer needed", task.Result.Reason)
}
