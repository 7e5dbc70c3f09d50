package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hivellm/taskqueue-go/internal/model"
	"github.com/hivellm/taskqueue-go/internal/service"
	"github.com/hivellm/taskqueue-go/internal/taskerr"
)

func (a *API) handleSubmitTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, taskerr.Wrap(taskerr.KindInvalidTaskDefinition, err, "invalid task request"))
		return
	}

	task, err := a.svc.SubmitTask(r.Context(), service.TaskDraft{
		Name:               req.Name,
		Command:            req.Command,
		Description:        req.Description,
		TechnicalSpecs:     req.TechnicalSpecs,
		AcceptanceCriteria: req.AcceptanceCriteria,
		ProjectID:          req.ProjectID,
		TaskType:           model.TaskType(req.TaskType),
		Priority:           model.ParsePriority(req.Priority),
		AIReviewsRequired:  req.AIReviewsRequired,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"task_id": task.ID, "status": "submitted"})
}

func (a *API) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := a.svc.GetTask(chi.URLParam(r, "taskID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(task))
}

func (a *API) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks := a.svc.ListTasks(r.URL.Query().Get("project_id"), r.URL.Query().Get("status"))
	writeJSON(w, http.StatusOK, map[string]any{"tasks": viewsOf(tasks), "count": len(tasks)})
}

func (a *API) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	patch := service.TaskPatch{
		Name:        req.Name,
		Command:     req.Command,
		Description: req.Description,
		ProjectID:   req.ProjectID,
	}
	if req.Priority != nil {
		p := model.ParsePriority(*req.Priority)
		patch.Priority = &p
	}
	if req.Status != nil {
		ph := model.Phase(*req.Status).Normalize()
		patch.Status = &ph
	}

	task, err := a.svc.UpdateTaskPartial(chi.URLParam(r, "taskID"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(task))
}

func (a *API) handleUpsertTask(w http.ResponseWriter, r *http.Request) {
	var req upsertTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, taskerr.Wrap(taskerr.KindInvalidTaskDefinition, err, "invalid upsert request"))
		return
	}

	task, err := a.svc.UpsertTaskByName(r.Context(), service.TaskDraft{
		Name:               req.Name,
		Command:            req.Command,
		Description:        req.Description,
		ProjectID:          req.ProjectID,
		Priority:           model.ParsePriority(req.Priority),
		TechnicalSpecs:     req.TechnicalSpecs,
		AcceptanceCriteria: req.AcceptanceCriteria,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(task))
}

func (a *API) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "taskID")
	if err := a.svc.DeleteTask(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"task_id": id, "deleted": true})
}

func (a *API) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	task, err := a.svc.SetStatus(chi.URLParam(r, "taskID"), model.Phase(req.Status).Normalize())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(task))
}

func (a *API) handleGetResult(w http.ResponseWriter, r *http.Request) {
	task, err := a.svc.GetTask(chi.URLParam(r, "taskID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": task.Result})
}

func (a *API) handleCancel(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	_ = decodeJSON(r, &req)
	task, err := a.svc.Cancel(chi.URLParam(r, "taskID"), req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(task))
}

func (a *API) handleRetry(w http.ResponseWriter, r *http.Request) {
	var req retryRequest
	_ = decodeJSON(r, &req)
	task, err := a.svc.Retry(chi.URLParam(r, "taskID"), req.ResetRetryCount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(task))
}

func (a *API) handleSetPriority(w http.ResponseWriter, r *http.Request) {
	var req priorityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	priority := model.ParsePriority(req.Priority)
	task, err := a.svc.UpdateTaskPartial(chi.URLParam(r, "taskID"), service.TaskPatch{Priority: &priority})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(task))
}

func (a *API) handleAdvancePhase(w http.ResponseWriter, r *http.Request) {
	task, err := a.svc.AdvancePhase(chi.URLParam(r, "taskID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(task))
}

func (a *API) handleAdvanceDevelopmentWorkflow(w http.ResponseWriter, r *http.Request) {
	task, err := a.svc.AdvanceDevelopmentWorkflow(chi.URLParam(r, "taskID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(task))
}

func (a *API) handleGetDependencies(w http.ResponseWriter, r *http.Request) {
	deps, err := a.svc.GetDependencies(chi.URLParam(r, "taskID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dependencies": deps})
}

func (a *API) handleAddDependency(w http.ResponseWriter, r *http.Request) {
	var req addDependencyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, taskerr.Wrap(taskerr.KindValidationError, err, "invalid dependency request"))
		return
	}
	cond := model.DependencyCondition(req.Condition)
	if cond == "" {
		cond = model.ConditionCompletion
	}
	task, err := a.svc.AddDependency(chi.URLParam(r, "taskID"), req.TaskID, req.TaskName, cond, req.Required, req.CorrelationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(task))
}

func (a *API) handleGetCorrelations(w http.ResponseWriter, r *http.Request) {
	deps, err := a.svc.GetCorrelations(chi.URLParam(r, "taskID"), r.URL.Query().Get("correlation_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dependencies": deps})
}

func (a *API) handleSetTechnicalDocumentation(w http.ResponseWriter, r *http.Request) {
	var req technicalDocumentationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, taskerr.Wrap(taskerr.KindValidationError, err, "invalid technical documentation request"))
		return
	}
	task, err := a.svc.SetTechnicalDocumentation(chi.URLParam(r, "taskID"), req.Path)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(task))
}

func (a *API) handleSetTestCoverage(w http.ResponseWriter, r *http.Request) {
	var req testCoverageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	task, err := a.svc.SetTestCoverage(chi.URLParam(r, "taskID"), req.Fraction)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(task))
}

func (a *API) handleAddAIReviewReport(w http.ResponseWriter, r *http.Request) {
	var req aiReviewReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, taskerr.Wrap(taskerr.KindValidationError, err, "invalid AI review report"))
		return
	}
	task, err := a.svc.AddAIReviewReport(chi.URLParam(r, "taskID"), model.AIReviewReport{
		ModelName:   req.ModelName,
		ReviewType:  model.ReviewType(req.ReviewType),
		Content:     req.Content,
		Score:       req.Score,
		Approved:    req.Approved,
		Suggestions: req.Suggestions,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(task))
}
