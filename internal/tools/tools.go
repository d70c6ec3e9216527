// Package tools holds the callable capabilities exposed to the agent:
// the knowledge-base retriever, web search and financial fundamentals.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stocksage/stocksage/internal/core"
)

// Tool is one stateless callable with a declared argument schema.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Call(ctx context.Context, args json.RawMessage) (string, error)
}

// Registry is the fixed set of tools declared once per process. It
// implements core.ToolRunner.
type Registry struct {
	order  []string
	byName map[string]Tool
}

func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{byName: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.order = append(r.order, t.Name())
		r.byName[t.Name()] = t
	}
	return r
}

func (r *Registry) Definitions() []core.ToolDefinition {
	defs := make([]core.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.byName[name]
		defs = append(defs, core.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

// Call dispatches to the named tool. An unknown name is returned to the
// model as a tool result rather than failing the request, so the model can
// recover from a hallucinated tool.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (string, error) {
	t, ok := r.byName[name]
	if !ok {
		return fmt.Sprintf("Unknown tool: %s", name), nil
	}
	return t.Call(ctx, args)
}
