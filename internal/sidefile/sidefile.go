// Package sidefile implements the best-effort `.tasks` tracking file:
// a human-readable breadcrumb written alongside the working directory,
// updated on project creation and task submission. All failures are
// logged and swallowed — this is never allowed to fail a mutation.
package sidefile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hivellm/taskqueue-go/internal/model"
)

const taskIDsHeader = "# Task IDs (add new tasks below):"

// Writer appends to a `.tasks` file rooted at Dir. The zero value writes
// to the current working directory.
type Writer struct {
	Dir    string
	Logger *slog.Logger
}

func (w *Writer) path() string {
	if w.Dir == "" {
		return ".tasks"
	}
	return filepath.Join(w.Dir, ".tasks")
}

func (w *Writer) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}

// WriteProjectHeader writes (or overwrites) the `.tasks` file with a
// header block describing the newly created project. Failures are
// logged only.
func (w *Writer) WriteProjectHeader(p *model.Project) {
	var content string
	content += "# Project: " + p.Name + "\n"
	content += "# ID: " + p.ID + "\n"
	if p.Description != "" {
		content += "# Description: " + p.Description + "\n"
	}
	content += "# Created: " + p.CreatedAt.Format(time.RFC3339) + "\n"
	content += "#\n"
	content += taskIDsHeader + "\n"

	if err := os.WriteFile(w.path(), []byte(content), 0o644); err != nil {
		w.logger().Warn("sidefile: failed to write project header", "project_id", p.ID, "error", err)
	}
}

// AppendTask appends a block describing a newly submitted task under the
// tracking header. If the file does not exist yet, it is created with
// just the header line. Failures are logged only.
func (w *Writer) AppendTask(t *model.Task) {
	path := w.path()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if werr := os.WriteFile(path, []byte(taskIDsHeader+"\n"), 0o644); werr != nil {
			w.logger().Warn("sidefile: failed to initialize tracking file", "error", werr)
			return
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		w.logger().Warn("sidefile: failed to open tracking file", "task_id", t.ID, "error", err)
		return
	}
	defer f.Close()

	block := fmt.Sprintf("- id: %s\n  name: %s\n  command: %s\n  status: %s\n  created: %s\n",
		t.ID, t.Name, t.Command, t.Status, t.CreatedAt.Format(time.RFC3339))

	if _, err := f.WriteString(block); err != nil {
		w.logger().Warn("sidefile: failed to append task entry", "task_id", t.ID, "error", err)
	}
}
