package model

import "time"

// Project groups tasks under a name, optional description, status, tags,
// and open-ended metadata.
type Project struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Status      ProjectStatus  `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// NewProject builds a Project in its initial Planning status.
func NewProject(id, name string) *Project {
	now := time.Now().UTC()
	return &Project{
		ID:        id,
		Name:      name,
		Status:    ProjectPlanning,
		CreatedAt: now,
		UpdatedAt: now,
		Tags:      []string{},
		Metadata:  map[string]any{},
	}
}

// ProjectUpdate carries the partial fields UpdatePartial accepts; nil
// pointers (and a nil Tags slice) mean "leave unchanged".
type ProjectUpdate struct {
	Name        *string
	Description *string
	Status      *ProjectStatus
	Tags        []string
}

// ApplyUpdate mutates p in place with the provided partial fields,
// touching UpdatedAt only if at least one field changed.
func (p *Project) ApplyUpdate(u ProjectUpdate) {
	changed := false
	if u.Name != nil {
		p.Name = *u.Name
		changed = true
	}
	if u.Description != nil {
		p.Description = *u.Description
		changed = true
	}
	if u.Status != nil {
		p.Status = *u.Status
		changed = true
	}
	if u.Tags != nil {
		p.Tags = u.Tags
		changed = true
	}
	if changed {
		p.UpdatedAt = time.Now().UTC()
	}
}
