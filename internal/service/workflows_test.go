package service

import (
	"testing"

	"github.com/hivellm/taskqueue-go/internal/model"
	"github.com/hivellm/taskqueue-go/internal/taskerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitWorkflowRejectsEmptyTaskList(t *testing.T) {
	svc := newTestService(t)
	w := model.NewWorkflow("", "release")
	_, err := svc.SubmitWorkflow(w)
	require.Error(t, err)
	assert.Equal(t, taskerr.KindWorkflowValidationFailed, taskerr.KindOf(err))
}

func TestSubmitWorkflowRejectsCycle(t *testing.T) {
	svc := newTestService(t)
	a := model.NewTask("a", "a", "cmd")
	b := model.NewTask("b", "b", "cmd")
	a.AddDependency("b", "b", model.ConditionSuccess, true)
	b.AddDependency("a", "a", model.ConditionSuccess, true)

	w := model.NewWorkflow("", "cyclic")
	w.Tasks = []model.Task{*a, *b}

	_, err := svc.SubmitWorkflow(w)
	require.Error(t, err)
	assert.Equal(t, taskerr.KindCircularDependency, taskerr.KindOf(err))
}

func TestSubmitWorkflowAssignsIDAndPendingStatus(t *testing.T) {
	svc := newTestService(t)
	a := model.NewTask("a", "a", "cmd")
	w := model.NewWorkflow("", "release")
	w.Tasks = []model.Task{*a}

	out, err := svc.SubmitWorkflow(w)
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, model.GroupPending, out.Status)
}

func TestApproveOnlyAllowedFromPending(t *testing.T) {
	svc := newTestService(t)
	a := model.NewTask("a", "a", "cmd")
	w := model.NewWorkflow("", "release")
	w.Tasks = []model.Task{*a}
	w, err := svc.SubmitWorkflow(w)
	require.NoError(t, err)

	w, err = svc.Approve(w.ID)
	require.NoError(t, err)
	assert.Equal(t, model.GroupRunning, w.Status)

	_, err = svc.Approve(w.ID)
	require.Error(t, err)
	assert.Equal(t, taskerr.KindInvalidStatusTransition, taskerr.KindOf(err))
}

func TestCancelWorkflowUnknownID(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CancelWorkflow("missing")
	require.Error(t, err)
	assert.Equal(t, taskerr.KindWorkflowNotFound, taskerr.KindOf(err))
}

func TestDeleteWorkflowRemovesFromStore(t *testing.T) {
	svc := newTestService(t)
	a := model.NewTask("a", "a", "cmd")
	w := model.NewWorkflow("", "release")
	w.Tasks = []model.Task{*a}
	w, err := svc.SubmitWorkflow(w)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteWorkflow(w.ID))
	_, err = svc.GetWorkflow(w.ID)
	require.Error(t, err)
	assert.Equal(t, taskerr.KindWorkflowNotFound, taskerr.KindOf(err))
}
