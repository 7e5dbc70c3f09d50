package sidefile

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/hivellm/taskqueue-go/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWriter(t *testing.T) (*Writer, string) {
	dir := t.TempDir()
	return &Writer{Dir: dir, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}, dir
}

func TestWriteProjectHeaderCreatesFile(t *testing.T) {
	w, dir := testWriter(t)
	p := model.NewProject("p1", "search")
	p.Description = "rewrite ranking"

	w.WriteProjectHeader(p)

	data, err := os.ReadFile(filepath.Join(dir, ".tasks"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# Project: search")
	assert.Contains(t, content, "# ID: p1")
	assert.Contains(t, content, "# Description: rewrite ranking")
	assert.Contains(t, content, taskIDsHeader)
}

func TestAppendTaskCreatesFileWhenMissing(t *testing.T) {
	w, dir := testWriter(t)
	task := model.NewTask("t1", "build", "make build")

	w.AppendTask(task)

	data, err := os.ReadFile(filepath.Join(dir, ".tasks"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, taskIDsHeader)
	assert.Contains(t, content, "id: t1")
	assert.Contains(t, content, "name: build")
}

func TestAppendTaskAppendsAfterHeader(t *testing.T) {
	w, dir := testWriter(t)
	p := model.NewProject("p1", "search")
	w.WriteProjectHeader(p)

	task := model.NewTask("t1", "build", "make build")
	w.AppendTask(task)

	data, err := os.ReadFile(filepath.Join(dir, ".tasks"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# Project: search")
	assert.Contains(t, content, "id: t1")
}

func TestWriterZeroValueDoesNotPanic(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(cwd)

	w := &Writer{}
	w.WriteProjectHeader(model.NewProject("p1", "search"))

	_, statErr := os.Stat(".tasks")
	assert.NoError(t, statErr)
}
