// Package tools implements the named side-effect functions callable by the
// pipeline and by tool-capable generation backends: text extraction helpers,
// order status lookup, and profile fetch.
package tools

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/firstlinehq/firstline/internal/providers"
)

// ErrUnknownTool is returned when a tool name is not registered. It only
// arises from a programming or configuration error and is treated as an
// ordinary per-tool failure by callers.
var ErrUnknownTool = errors.New("unknown tool")

// Tool is a named callable with a JSON-schema argument description.
type Tool interface {
	Name() string
	Description() string

	// Parameters returns the JSON schema of the argument map.
	Parameters() map[string]any

	// Execute runs the tool. The returned value must be JSON-serializable.
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// Registry holds tools by name. Registration happens once at startup; after
// that the registry is read-only and safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

// Get returns the named tool, nil when absent.
func (r *Registry) Get(name string) Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// Names returns the registered tool names (unordered).
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for n := range r.tools {
		names = append(names, n)
	}
	return names
}

// Execute runs a tool by name. Unregistered names fail with ErrUnknownTool.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	t := r.Get(name)
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t.Execute(ctx, args)
}

// ProviderDefs exposes the registry as tool schemas for a generation backend.
func (r *Registry) ProviderDefs() []providers.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]providers.ToolDefinition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, providers.ToolDefinition{
			Type: "function",
			Function: providers.ToolFunctionSchema{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return defs
}

// stringArg reads a string argument, tolerating absent keys.
func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}
