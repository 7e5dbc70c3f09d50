package service

import (
	"github.com/hivellm/taskqueue-go/internal/model"
	"github.com/hivellm/taskqueue-go/internal/store"
	"github.com/hivellm/taskqueue-go/internal/taskerr"
)

// CreateProject builds and persists a new Project, firing the .tasks
// header write best-effort.
func (s *Service) CreateProject(name, description string, tags []string) (*model.Project, error) {
	if name == "" {
		return nil, taskerr.New(taskerr.KindInvalidTaskDefinition, "project name is required")
	}

	p := model.NewProject(newID(), name)
	p.Description = description
	if tags != nil {
		p.Tags = tags
	}

	s.projectsMu.Lock()
	defer s.projectsMu.Unlock()

	if err := s.persistProject(p); err != nil {
		return nil, err
	}
	s.projects[p.ID] = p

	s.side.WriteProjectHeader(p)
	return p, nil
}

// GetProject looks up a project by id.
func (s *Service) GetProject(id string) (*model.Project, error) {
	s.projectsMu.RLock()
	defer s.projectsMu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, taskerr.New(taskerr.KindProjectNotFound, "project %s not found", id)
	}
	return p, nil
}

// ListProjects returns every project, in no particular order.
func (s *Service) ListProjects() []*model.Project {
	s.projectsMu.RLock()
	defer s.projectsMu.RUnlock()

	out := make([]*model.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	return out
}

// UpdateProjectPartial applies only the provided fields and persists the
// result.
func (s *Service) UpdateProjectPartial(id string, update model.ProjectUpdate) (*model.Project, error) {
	s.projectsMu.Lock()
	defer s.projectsMu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, taskerr.New(taskerr.KindProjectNotFound, "project %s not found", id)
	}

	before := *p
	p.ApplyUpdate(update)

	if err := s.persistProject(p); err != nil {
		*p = before
		return nil, err
	}
	return p, nil
}

// DeleteProject removes the project and clears project_id on every task
// that referenced it, without deleting those tasks.
func (s *Service) DeleteProject(id string) error {
	s.projectsMu.Lock()
	defer s.projectsMu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return taskerr.New(taskerr.KindProjectNotFound, "project %s not found", id)
	}

	if err := s.kv.Delete(store.KeyspaceProjects, id); err != nil {
		return taskerr.Wrap(taskerr.KindStorageError, err, "deleting project %s", id)
	}
	delete(s.projects, id)

	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()
	for _, t := range s.tasks {
		if t.ProjectID == id {
			t.ProjectID = ""
			if err := s.persistTask(t); err != nil {
				s.logger.Warn("project delete: failed to persist detached task", "task_id", t.ID, "error", err)
			}
		}
	}
	return nil
}

// ProjectTasks lists the tasks currently referencing a project.
func (s *Service) ProjectTasks(projectID string) []*model.Task {
	s.tasksMu.RLock()
	defer s.tasksMu.RUnlock()

	var out []*model.Task
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out
}
