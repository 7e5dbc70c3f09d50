package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hivellm/taskqueue-go/internal/model"
	"github.com/hivellm/taskqueue-go/internal/taskerr"
)

func (a *API) handleCreateWorkflow(w http.ResponseWriter, r *http.Request) {
	var req createWorkflowRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, taskerr.Wrap(taskerr.KindWorkflowValidationFailed, err, "invalid workflow request"))
		return
	}
	wf := &model.Workflow{
		Name:        req.Name,
		Description: req.Description,
		Tasks:       req.Tasks,
		Edges:       req.Edges,
	}
	created, err := a.svc.SubmitWorkflow(wf)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func (a *API) handleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	wf, err := a.svc.GetWorkflow(chi.URLParam(r, "workflowID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wf)
}

func (a *API) handleListWorkflows(w http.ResponseWriter, r *http.Request) {
	workflows := a.svc.ListWorkflows()
	writeJSON(w, http.StatusOK, map[string]any{"workflows": workflows, "count": len(workflows)})
}

func (a *API) handleDeleteWorkflow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "workflowID")
	if err := a.svc.DeleteWorkflow(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workflow_id": id, "deleted": true})
}

func (a *API) handleGetWorkflowStatus(w http.ResponseWriter, r *http.Request) {
	status, err := a.svc.GetWorkflowStatus(chi.URLParam(r, "workflowID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": status})
}

func (a *API) handleSetWorkflowStatus(w http.ResponseWriter, r *http.Request) {
	var req workflowStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	wf, err := a.svc.UpdateWorkflowStatus(chi.URLParam(r, "workflowID"), model.GroupStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wf)
}

func (a *API) handleApproveWorkflow(w http.ResponseWriter, r *http.Request) {
	wf, err := a.svc.Approve(chi.URLParam(r, "workflowID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wf)
}

func (a *API) handleCancelWorkflow(w http.ResponseWriter, r *http.Request) {
	wf, err := a.svc.CancelWorkflow(chi.URLParam(r, "workflowID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wf)
}
