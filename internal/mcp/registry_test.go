package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTool struct{ name string }

func (s stubTool) Name() string                  { return s.name }
func (s stubTool) Description() string           { return "stub" }
func (s stubTool) InputSchema() json.RawMessage  { return json.RawMessage(`{"type":"object"}`) }
func (s stubTool) Execute(ctx context.Context, params json.RawMessage) (*ToolsCallResult, error) {
	return JSONResult(map[string]string{"ok": "true"})
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(stubTool{name: "echo"})

	assert.NotNil(t, r.Get("echo"))
	assert.Nil(t, r.Get("missing"))
}

func TestRegistryRegisterPanicsOnDuplicateName(t *testing.T) {
	r := NewRegistry()
	r.Register(stubTool{name: "echo"})

	assert.Panics(t, func() {
		r.Register(stubTool{name: "echo"})
	})
}

func TestRegistryListPreservesRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(stubTool{name: "b"})
	r.Register(stubTool{name: "a"})

	defs := r.List()
	require.Len(t, defs, 2)
	assert.Equal(t, "b", defs[0].Name)
	assert.Equal(t, "a", defs[1].Name)
}
