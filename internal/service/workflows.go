package service

import (
	"time"

	"github.com/hivellm/taskqueue-go/internal/model"
	"github.com/hivellm/taskqueue-go/internal/store"
	"github.com/hivellm/taskqueue-go/internal/taskerr"
)

// SubmitWorkflow validates name/task-list non-emptiness and acyclicity,
// then persists the workflow.
func (s *Service) SubmitWorkflow(w *model.Workflow) (*model.Workflow, error) {
	if w.Name == "" {
		return nil, taskerr.New(taskerr.KindWorkflowValidationFailed, "workflow name is required")
	}
	if len(w.Tasks) == 0 {
		return nil, taskerr.New(taskerr.KindWorkflowValidationFailed, "workflow must contain at least one task")
	}
	if w.HasCycle() {
		return nil, taskerr.New(taskerr.KindCircularDependency, "workflow %s has a circular dependency", w.Name)
	}

	if w.ID == "" {
		w.ID = newID()
	}
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now
	if w.Status == "" {
		w.Status = model.GroupPending
	}

	s.workflowsMu.Lock()
	defer s.workflowsMu.Unlock()

	if err := s.persistWorkflow(w); err != nil {
		return nil, err
	}
	s.workflows[w.ID] = w
	return w, nil
}

// GetWorkflow looks up a workflow by id.
func (s *Service) GetWorkflow(id string) (*model.Workflow, error) {
	s.workflowsMu.RLock()
	defer s.workflowsMu.RUnlock()

	w, ok := s.workflows[id]
	if !ok {
		return nil, taskerr.New(taskerr.KindWorkflowNotFound, "workflow %s not found", id)
	}
	return w, nil
}

// ListWorkflows returns every workflow.
func (s *Service) ListWorkflows() []*model.Workflow {
	s.workflowsMu.RLock()
	defer s.workflowsMu.RUnlock()

	out := make([]*model.Workflow, 0, len(s.workflows))
	for _, w := range s.workflows {
		out = append(out, w)
	}
	return out
}

// GetWorkflowStatus returns a workflow's group status.
func (s *Service) GetWorkflowStatus(id string) (model.GroupStatus, error) {
	w, err := s.GetWorkflow(id)
	if err != nil {
		return "", err
	}
	return w.Status, nil
}

func (s *Service) updateWorkflowStatusLocked(w *model.Workflow, to model.GroupStatus) error {
	before := *w
	w.Status = to
	w.UpdatedAt = time.Now().UTC()
	if err := s.persistWorkflow(w); err != nil {
		*w = before
		return err
	}
	return nil
}

// UpdateWorkflowStatus sets a workflow's status directly.
func (s *Service) UpdateWorkflowStatus(id string, to model.GroupStatus) (*model.Workflow, error) {
	s.workflowsMu.Lock()
	defer s.workflowsMu.Unlock()

	w, ok := s.workflows[id]
	if !ok {
		return nil, taskerr.New(taskerr.KindWorkflowNotFound, "workflow %s not found", id)
	}
	if err := s.updateWorkflowStatusLocked(w, to); err != nil {
		return nil, err
	}
	return w, nil
}

// Approve transitions a Pending workflow to Running.
func (s *Service) Approve(id string) (*model.Workflow, error) {
	s.workflowsMu.Lock()
	defer s.workflowsMu.Unlock()

	w, ok := s.workflows[id]
	if !ok {
		return nil, taskerr.New(taskerr.KindWorkflowNotFound, "workflow %s not found", id)
	}
	if w.Status != model.GroupPending {
		return nil, taskerr.New(taskerr.KindInvalidStatusTransition, "workflow %s is not Pending", id)
	}
	if err := s.updateWorkflowStatusLocked(w, model.GroupRunning); err != nil {
		return nil, err
	}
	return w, nil
}

// CancelWorkflow moves a workflow to Cancelled.
func (s *Service) CancelWorkflow(id string) (*model.Workflow, error) {
	s.workflowsMu.Lock()
	defer s.workflowsMu.Unlock()

	w, ok := s.workflows[id]
	if !ok {
		return nil, taskerr.New(taskerr.KindWorkflowNotFound, "workflow %s not found", id)
	}
	if err := s.updateWorkflowStatusLocked(w, model.GroupCancelled); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.WorkflowsCancelled.Inc()
	}
	return w, nil
}

// DeleteWorkflow removes a workflow from the map and the backing store.
func (s *Service) DeleteWorkflow(id string) error {
	s.workflowsMu.Lock()
	defer s.workflowsMu.Unlock()

	if _, ok := s.workflows[id]; !ok {
		return taskerr.New(taskerr.KindWorkflowNotFound, "workflow %s not found", id)
	}
	if err := s.kv.Delete(store.KeyspaceWorkflows, id); err != nil {
		return taskerr.Wrap(taskerr.KindStorageError, err, "deleting workflow %s", id)
	}
	delete(s.workflows, id)
	return nil
}
