// Package tools adapts the service layer's operations into MCP tools:
// one struct per tool, each implementing mcp.Tool, mirroring the
// input-schema/Execute shape used throughout this server's tool surface.
package tools

import (
	"github.com/hivellm/taskqueue-go/internal/model"
	"github.com/hivellm/taskqueue-go/internal/phase"
)

// taskView is the JSON shape every task-returning tool responds with:
// the task itself (with its effective status substituted into Status),
// plus the dynamic instruction string for what must happen next.
type taskView struct {
	*model.Task
	Instructions string `json:"instructions"`
}

func viewOf(t *model.Task) taskView {
	eff := phase.EffectiveStatus(t)
	clone := *t
	clone.Status = eff
	return taskView{Task: &clone, Instructions: phase.Instructions(t)}
}
