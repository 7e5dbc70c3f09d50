package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hivellm/taskqueue-go/internal/model"
	"github.com/hivellm/taskqueue-go/internal/taskerr"
)

func (a *API) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, taskerr.Wrap(taskerr.KindInvalidTaskDefinition, err, "invalid project request"))
		return
	}
	p, err := a.svc.CreateProject(req.Name, req.Description, req.Tags)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := a.svc.GetProject(chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects := a.svc.ListProjects()
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects, "count": len(projects)})
}

func (a *API) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req updateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	update := model.ProjectUpdate{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
	}
	if req.Status != nil {
		s := model.ProjectStatus(*req.Status)
		update.Status = &s
	}
	p, err := a.svc.UpdateProjectPartial(chi.URLParam(r, "projectID"), update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "projectID")
	if err := a.svc.DeleteProject(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"project_id": id, "deleted": true})
}

func (a *API) handleProjectTasks(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "projectID")
	if _, err := a.svc.GetProject(id); err != nil {
		writeError(w, err)
		return
	}
	tasks := a.svc.ProjectTasks(id)
	writeJSON(w, http.StatusOK, map[string]any{"tasks": viewsOf(tasks), "count": len(tasks)})
}
