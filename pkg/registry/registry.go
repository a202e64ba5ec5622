// Package registry manages the tools an agent may call.
//
// A Registry is built once at startup and treated as read-only afterwards;
// the common pattern is one registry shared by every agent in a pool. The
// mutex only guards the build phase.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
)

// Registry maps tool names to descriptors. Names are unique; registering a
// name twice silently replaces the earlier descriptor.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]domain.Tool
	order []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		tools: make(map[string]domain.Tool),
	}
}

// Register adds a tool. If a tool with the same name exists it is
// overwritten and keeps its original position in the listing order.
func (r *Registry) Register(tool domain.Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name]; !exists {
		r.order = append(r.order, tool.Name)
	}
	r.tools[tool.Name] = tool
}

// Get returns the tool with the given name.
func (r *Registry) Get(name string) (domain.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// List returns all registered tools in insertion order.
func (r *Registry) List() []domain.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tools := make([]domain.Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// Names returns the registered tool names in insertion order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Schemas returns the tool descriptors as offered to the backend, in
// insertion order. Handlers are not included.
func (r *Registry) Schemas() []domain.Tool {
	tools := r.List()
	schemas := make([]domain.Tool, len(tools))
	for i, tool := range tools {
		schemas[i] = domain.Tool{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  tool.Parameters,
		}
	}
	return schemas
}

// Execute looks up a tool by name and runs it.
// Returns an error if the tool is not found.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	tool, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("tool not found: %s", name)
	}
	return tool.Handler(ctx, args)
}
