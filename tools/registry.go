// Package tools provides the name-keyed tool registry the executor dispatches to.
package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/rickchristie/reactloop"
)

// RegistryEntry pairs a descriptor with its implementation.
type RegistryEntry struct {
	Descriptor reactloop.ToolDescriptor
	Tool       reactloop.Tool
}

// Entry is shorthand for building a RegistryEntry.
func Entry(desc reactloop.ToolDescriptor, tool reactloop.Tool) RegistryEntry {
	return RegistryEntry{Descriptor: desc, Tool: tool}
}

// Registry is an ordered set of uniquely named tools.
//
// A Registry is usually filled once and then shared by every run of an executor. Lookups
// take a read lock, so concurrent runs never block each other.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]RegistryEntry
}

// NewRegistry creates a registry holding entries in the given order.
// It fails with a *reactloop.ConfigurationError wrapping ErrDuplicateToolName when two
// entries share a name.
func NewRegistry(entries ...RegistryEntry) (*Registry, error) {
	r := &Registry{entries: make(map[string]RegistryEntry, len(entries))}
	for _, e := range entries {
		if err := r.Register(e.Descriptor, e.Tool); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on error.
func MustNewRegistry(entries ...RegistryEntry) *Registry {
	r, err := NewRegistry(entries...)
	if err != nil {
		panic(err)
	}
	return r
}

// Register adds a tool. Names must be non-empty and unique.
func (r *Registry) Register(desc reactloop.ToolDescriptor, tool reactloop.Tool) error {
	if desc.Name == "" {
		return reactloop.NewConfigurationError("registry", "tool name must not be empty")
	}
	if tool == nil {
		return reactloop.NewConfigurationError("registry", "tool %q has no implementation", desc.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[desc.Name]; exists {
		return &reactloop.ConfigurationError{
			Component: "registry",
			Err:       fmt.Errorf("%w: %s", reactloop.ErrDuplicateToolName, desc.Name),
		}
	}
	r.order = append(r.order, desc.Name)
	r.entries[desc.Name] = RegistryEntry{Descriptor: desc, Tool: tool}
	return nil
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Descriptors returns the registered descriptors in registration order.
func (r *Registry) Descriptors() []reactloop.ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]reactloop.ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.entries[name].Descriptor)
	}
	return result
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Invoke runs the named tool synchronously.
//
// An unregistered name fails with *reactloop.UnknownToolError. A tool error or panic is
// returned as *reactloop.ToolExecutionError.
func (r *Registry) Invoke(ctx context.Context, name, input string) (string, error) {
	entry, ok := r.Lookup(name)
	if !ok {
		return "", r.unknown(name)
	}
	return runTool(ctx, name, entry.Tool, input)
}

// InvokeAsync runs the named tool through its RunAsync method and waits for the result or
// for ctx to be done.
//
// Tools that do not implement reactloop.AsyncTool fail with an error wrapping
// reactloop.ErrUnsupportedOperation.
func (r *Registry) InvokeAsync(ctx context.Context, name, input string) (string, error) {
	entry, ok := r.Lookup(name)
	if !ok {
		return "", r.unknown(name)
	}
	async, ok := entry.Tool.(reactloop.AsyncTool)
	if !ok {
		return "", fmt.Errorf("tool %q does not support async calls: %w", name, reactloop.ErrUnsupportedOperation)
	}

	select {
	case res, ok := <-async.RunAsync(ctx, input):
		if !ok {
			return "", &reactloop.ToolExecutionError{Tool: name, Err: fmt.Errorf("result channel closed")}
		}
		if res.Err != nil {
			return "", &reactloop.ToolExecutionError{Tool: name, Err: res.Err}
		}
		return res.Output, nil
	case <-ctx.Done():
		return "", &reactloop.ToolExecutionError{Tool: name, Err: ctx.Err()}
	}
}

func (r *Registry) unknown(name string) error {
	return &reactloop.UnknownToolError{Name: name, Valid: r.Names()}
}

func runTool(ctx context.Context, name string, tool reactloop.Tool, input string) (out string, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = ""
			err = &reactloop.ToolExecutionError{Tool: name, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	out, err = tool.Run(ctx, input)
	if err != nil {
		return "", &reactloop.ToolExecutionError{Tool: name, Err: err}
	}
	return out, nil
}
