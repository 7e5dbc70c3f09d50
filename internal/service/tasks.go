package service

import (
	"context"
	"time"

	"github.com/hivellm/taskqueue-go/internal/model"
	"github.com/hivellm/taskqueue-go/internal/phase"
	"github.com/hivellm/taskqueue-go/internal/store"
	"github.com/hivellm/taskqueue-go/internal/taskerr"
)

// TaskDraft carries the fields accepted on task submission.
type TaskDraft struct {
	Name                string
	Command             string
	Description         string
	TechnicalSpecs      string
	AcceptanceCriteria  []string
	ProjectID           string
	TaskType            model.TaskType
	Priority            model.Priority
	AIReviewsRequired   *int
	Timeout             time.Duration
	RetryAttempts       int
	RetryDelay          time.Duration
	Environment         map[string]string
	WorkingDirectory    string
}

// SubmitTask validates and persists a new task, firing the .tasks append
// and the vectorizer index call best-effort.
func (s *Service) SubmitTask(ctx context.Context, d TaskDraft) (*model.Task, error) {
	if d.Name == "" {
		return nil, taskerr.New(taskerr.KindInvalidTaskDefinition, "task name is required")
	}
	if d.Command == "" {
		return nil, taskerr.New(taskerr.KindInvalidTaskDefinition, "task command is required")
	}
	if d.ProjectID != "" {
		if _, err := s.GetProject(d.ProjectID); err != nil {
			return nil, taskerr.New(taskerr.KindInvalidTaskDefinition, "project %s does not exist", d.ProjectID)
		}
	}

	t := model.NewTask(newID(), d.Name, d.Command)
	if d.Description != "" {
		t.Description = d.Description
	}
	t.TechnicalSpecs = d.TechnicalSpecs
	t.AcceptanceCriteria = d.AcceptanceCriteria
	t.ProjectID = d.ProjectID
	if d.TaskType != "" {
		t.TaskType = d.TaskType
	}
	if d.Priority != 0 {
		t.Priority = d.Priority
	}
	if d.AIReviewsRequired != nil {
		t.AIReviewsRequired = *d.AIReviewsRequired
	}
	t.Timeout = d.Timeout
	if d.RetryAttempts != 0 {
		t.RetryAttempts = d.RetryAttempts
	}
	if d.RetryDelay != 0 {
		t.RetryDelay = d.RetryDelay
	}
	t.Environment = d.Environment
	t.WorkingDirectory = d.WorkingDirectory

	s.tasksMu.Lock()
	if err := s.persistTask(t); err != nil {
		s.tasksMu.Unlock()
		return nil, err
	}
	s.tasks[t.ID] = t
	s.tasksMu.Unlock()

	s.side.AppendTask(t)
	if err := s.vec.Index(ctx, t.ID, t.Name+" "+t.Description); err != nil {
		s.logger.Warn("vectorizer index failed", "task_id", t.ID, "error", err)
	}
	if s.metrics != nil {
		s.metrics.TasksSubmitted.Inc()
	}
	return t, nil
}

// GetTask looks up a task by id. The returned task's Status/CurrentPhase
// fields are the raw stored values — callers that need the reconciled
// view must call phase.EffectiveStatus themselves.
func (s *Service) GetTask(id string) (*model.Task, error) {
	s.tasksMu.RLock()
	defer s.tasksMu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, taskerr.New(taskerr.KindTaskNotFound, "task %s not found", id)
	}
	return t, nil
}

// ListTasks returns tasks optionally filtered by project id and/or
// effective-status name (case-insensitive).
func (s *Service) ListTasks(projectID, status string) []*model.Task {
	s.tasksMu.RLock()
	defer s.tasksMu.RUnlock()

	out := make([]*model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if projectID != "" && t.ProjectID != projectID {
			continue
		}
		if status != "" && !phase.MatchesFilter(t, status) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// TaskPatch carries the fields UpdatePartial accepts; nil means
// unchanged. Status, when present, always routes through the phase
// state machine — UpdateTaskPartial never writes Status directly,
// whether or not a workflow is attached.
type TaskPatch struct {
	Name        *string
	Command     *string
	Description *string
	Priority    *model.Priority
	Status      *model.Phase
	ProjectID   *string
}

// UpdateTaskPartial applies only the provided fields, routing a Status
// change through the phase validator.
func (s *Service) UpdateTaskPartial(id string, patch TaskPatch) (*model.Task, error) {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, taskerr.New(taskerr.KindTaskNotFound, "task %s not found", id)
	}

	before := *t
	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.Command != nil {
		t.Command = *patch.Command
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.ProjectID != nil {
		t.ProjectID = *patch.ProjectID
	}
	if patch.Status != nil {
		if err := phase.Apply(t, *patch.Status); err != nil {
			*t = before
			return nil, taskerr.Wrap(taskerr.KindInvalidStatusTransition, err, "updating status of task %s", id)
		}
	}
	t.UpdatedAt = time.Now().UTC()

	if err := s.persistTask(t); err != nil {
		*t = before
		return nil, err
	}
	return t, nil
}

// UpsertTaskByName mutates the existing task sharing name, or creates a
// new one if none exists.
func (s *Service) UpsertTaskByName(ctx context.Context, d TaskDraft) (*model.Task, error) {
	s.tasksMu.RLock()
	var existing *model.Task
	for _, t := range s.tasks {
		if t.Name == d.Name {
			existing = t
			break
		}
	}
	s.tasksMu.RUnlock()

	if existing == nil {
		return s.SubmitTask(ctx, d)
	}

	command := d.Command
	desc := d.Description
	projectID := d.ProjectID
	priority := d.Priority
	return s.UpdateTaskPartial(existing.ID, TaskPatch{
		Command:     &command,
		Description: &desc,
		ProjectID:   &projectID,
		Priority:    &priority,
	})
}

// SetStatus transitions a task's phase via the state machine.
func (s *Service) SetStatus(id string, to model.Phase) (*model.Task, error) {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, taskerr.New(taskerr.KindTaskNotFound, "task %s not found", id)
	}

	before := *t
	if err := phase.Apply(t, to); err != nil {
		return nil, taskerr.Wrap(taskerr.KindInvalidStatusTransition, err, "setting status of task %s", id)
	}
	if err := s.persistTask(t); err != nil {
		*t = before
		return nil, err
	}
	if to == model.PhaseFinalized && s.metrics != nil {
		s.metrics.TasksFinalized.Inc()
	}
	return t, nil
}

// AdvancePhase applies the single legal forward phase transition.
func (s *Service) AdvancePhase(id string) (*model.Task, error) {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, taskerr.New(taskerr.KindTaskNotFound, "task %s not found", id)
	}

	before := *t
	if err := phase.AdvancePhase(t); err != nil {
		return nil, taskerr.Wrap(taskerr.KindInvalidStatusTransition, err, "advancing phase of task %s", id)
	}
	if err := s.persistTask(t); err != nil {
		*t = before
		return nil, err
	}
	if t.CurrentPhase == model.PhaseFinalized && s.metrics != nil {
		s.metrics.TasksFinalized.Inc()
	}
	return t, nil
}

// AddDependency appends a dependency to a task.
func (s *Service) AddDependency(id, depTaskID, depTaskName string, cond model.DependencyCondition, required bool, correlationID string) (*model.Task, error) {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, taskerr.New(taskerr.KindTaskNotFound, "task %s not found", id)
	}

	before := *t
	if correlationID != "" {
		t.AddCorrelatedDependency(depTaskID, depTaskName, cond, required, correlationID)
	} else {
		t.AddDependency(depTaskID, depTaskName, cond, required)
	}

	if err := s.persistTask(t); err != nil {
		*t = before
		return nil, err
	}
	return t, nil
}

// GetDependencies returns the dependencies recorded on a task.
func (s *Service) GetDependencies(id string) ([]model.Dependency, error) {
	t, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}
	return t.Dependencies, nil
}

// GetCorrelations returns a task's dependencies sharing correlationID.
func (s *Service) GetCorrelations(id, correlationID string) ([]model.Dependency, error) {
	t, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}
	return t.DependenciesByCorrelation(correlationID), nil
}

// SetTechnicalDocumentation records the Planning-phase documentation path
// on the task's attached development workflow.
func (s *Service) SetTechnicalDocumentation(id, path string) (*model.Task, error) {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, taskerr.New(taskerr.KindTaskNotFound, "task %s not found", id)
	}
	if t.DevelopmentWorkflow == nil {
		t.DevelopmentWorkflow = model.NewDevelopmentWorkflow()
	}

	before := *t
	wf := t.DevelopmentWorkflow.Clone()
	wf.TechnicalDocumentationPath = path
	t.DevelopmentWorkflow = wf
	t.UpdatedAt = time.Now().UTC()

	if err := s.persistTask(t); err != nil {
		*t = before
		return nil, err
	}
	return t, nil
}

// SetTestCoverage records the Testing-phase coverage fraction, which must
// lie in [0,1].
func (s *Service) SetTestCoverage(id string, fraction float64) (*model.Task, error) {
	if fraction < 0 || fraction > 1 {
		return nil, taskerr.New(taskerr.KindValidationError, "test coverage %.4f out of range [0,1]", fraction)
	}

	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, taskerr.New(taskerr.KindTaskNotFound, "task %s not found", id)
	}
	if t.DevelopmentWorkflow == nil {
		t.DevelopmentWorkflow = model.NewDevelopmentWorkflow()
	}

	before := *t
	wf := t.DevelopmentWorkflow.Clone()
	wf.TestCoverage = &fraction
	t.DevelopmentWorkflow = wf
	t.UpdatedAt = time.Now().UTC()

	if err := s.persistTask(t); err != nil {
		*t = before
		return nil, err
	}
	return t, nil
}

// AddAIReviewReport appends a review report and increments
// ai_reviews_completed, maintaining invariant I2.
func (s *Service) AddAIReviewReport(id string, report model.AIReviewReport) (*model.Task, error) {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, taskerr.New(taskerr.KindTaskNotFound, "task %s not found", id)
	}
	if t.DevelopmentWorkflow == nil {
		t.DevelopmentWorkflow = model.NewDevelopmentWorkflow()
	}

	before := *t
	if report.ReviewedAt.IsZero() {
		report.ReviewedAt = time.Now().UTC()
	}
	wf := t.DevelopmentWorkflow.Clone()
	wf.AIReviewReports = append(wf.AIReviewReports, report)
	t.DevelopmentWorkflow = wf
	t.AIReviewsCompleted = len(wf.AIReviewReports)
	t.UpdatedAt = time.Now().UTC()

	if err := s.persistTask(t); err != nil {
		*t = before
		return nil, err
	}
	return t, nil
}

// AdvanceDevelopmentWorkflow advances workflow_status one step along
// NotStarted -> Planning -> InImplementation -> TestCreation -> Testing
// -> AIReview -> Completed. Unlike AdvancePhase (the fine-grained phase
// state machine driven by SetStatus), this is the single "advance
// workflow" transition the tool and HTTP layers invoke directly; it
// keeps the task's phase-history append-only log in lockstep with each
// step so invariant I1 (current_phase matches the last history entry)
// holds without ever going through the other ladder's transition table.
// The AIReview -> Completed step carries the same review-count gate as
// the phase ladder's AIReview -> Finalized step.
func (s *Service) AdvanceDevelopmentWorkflow(id string) (*model.Task, error) {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, taskerr.New(taskerr.KindTaskNotFound, "task %s not found", id)
	}
	if t.DevelopmentWorkflow == nil {
		t.DevelopmentWorkflow = model.NewDevelopmentWorkflow()
	}

	wf := t.DevelopmentWorkflow
	next := model.NextWorkflowStatus(wf.WorkflowStatus)
	if next == wf.WorkflowStatus {
		return nil, taskerr.New(taskerr.KindInvalidStatusTransition, "workflow for task %s has no further step from %s", id, wf.WorkflowStatus)
	}
	if wf.WorkflowStatus == model.WorkflowAIReview && next == model.WorkflowCompleted {
		if t.AIReviewsCompleted < t.AIReviewsRequired {
			return nil, taskerr.Wrap(taskerr.KindInvalidStatusTransition, phase.ErrReviewsIncomplete,
				"advancing workflow of task %s: need %d reviews, have %d", id, t.AIReviewsRequired, t.AIReviewsCompleted)
		}
	}

	before := *t
	now := time.Now().UTC()

	newWF := wf.Clone()
	if newWF.StartedAt == nil {
		newWF.StartedAt = &now
	}
	newWF.WorkflowStatus = next
	if next == model.WorkflowCompleted || next == model.WorkflowFailed {
		newWF.CompletedAt = &now
	}

	target := phaseForWorkflowStatus(next)
	if target != t.CurrentPhase {
		// Clone the phase history rather than mutating t.Phases in place:
		// the trailing entry's CompletedAt is set here, and before.Phases
		// shares this slice's backing array until a new one is built, so an
		// in-place mutation would survive a rollback via `*t = before`.
		phases := make([]model.TaskPhase, len(t.Phases), len(t.Phases)+1)
		copy(phases, t.Phases)
		if n := len(phases); n > 0 {
			phases[n-1].CompletedAt = &now
		}
		phases = append(phases, model.TaskPhase{Phase: target, StartedAt: &now})

		t.Phases = phases
		t.CurrentPhase = target
		t.Status = target
	}

	t.DevelopmentWorkflow = newWF
	t.UpdatedAt = now

	if err := s.persistTask(t); err != nil {
		*t = before
		return nil, err
	}
	if next == model.WorkflowCompleted && s.metrics != nil {
		s.metrics.TasksFinalized.Inc()
	}
	return t, nil
}

// phaseForWorkflowStatus maps a workflow_status value onto the phase name
// used in the task's append-only phase history.
func phaseForWorkflowStatus(ws model.WorkflowStatus) model.Phase {
	switch ws {
	case model.WorkflowNotStarted, model.WorkflowPlanning:
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

// Cancel marks a task Cancelled, recording reason in its Result.
func (s *Service) Cancel(id, reason string) (*model.Task, error) {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, taskerr.New(taskerr.KindTaskNotFound, "task %s not found", id)
	}

	before := *t
	if err := phase.Cancel(t, reason); err != nil {
		return nil, taskerr.Wrap(taskerr.KindInvalidStatusTransition, err, "cancelling task %s", id)
	}
	if err := s.persistTask(t); err != nil {
		*t = before
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.TasksCancelled.Inc()
	}
	return t, nil
}

// Retry resets a task to Pending, clearing its Result and optionally its
// retry_attempts counter.
func (s *Service) Retry(id string, resetRetryCount bool) (*model.Task, error) {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, taskerr.New(taskerr.KindTaskNotFound, "task %s not found", id)
	}

	before := *t
	t.Status = model.PhasePending
	t.Result = nil
	if resetRetryCount {
		t.RetryAttempts = 0
	}
	t.UpdatedAt = time.Now().UTC()

	if err := s.persistTask(t); err != nil {
		*t = before
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.TasksRetried.Inc()
	}
	return t, nil
}

// DeleteTask removes a task from the map and the backing store.
func (s *Service) DeleteTask(id string) error {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return taskerr.New(taskerr.KindTaskNotFound, "task %s not found", id)
	}
	if err := s.kv.Delete(store.KeyspaceTasks, id); err != nil {
		return taskerr.Wrap(taskerr.KindStorageError, err, "deleting task %s", id)
	}
	delete(s.tasks, id)
	return nil
}
