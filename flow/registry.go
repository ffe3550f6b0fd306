package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Runner is the type-erased view of a flow held by the registry.
type Runner interface {
	// Name returns the flow's registered name.
	Name() string
	// RunJSON executes the flow with a raw JSON input payload.
	RunJSON(ctx context.Context, input json.RawMessage) (json.RawMessage, error)
}

// Registry maps flow names to runners. Lookup is a single-level map access;
// there is no dynamic dispatch beyond it.
type Registry struct {
	mu    sync.RWMutex
	flows map[string]Runner
}

// NewRegistry creates an empty flow registry.
func NewRegistry() *Registry {
	return &Registry{flows: make(map[string]Runner)}
}

// Register adds a flow to the registry. Registering a second flow under an
// already taken name is an error.
func (r *Registry) Register(f Runner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.flows[f.Name()]; exists {
		return fmt.Errorf("flow %q already registered", f.Name())
	}
	r.flows[f.Name()] = f

	return nil
}

// Get returns the flow registered under name.
func (r *Registry) Get(name string) (Runner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.flows[name]

	return f, ok
}

// Names returns the registered flow names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.flows))
	for name := range r.flows {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// RunJSON looks up a flow by name and executes it with the raw input.
func (r *Registry) RunJSON(ctx context.Context, name string, input json.RawMessage) (json.RawMessage, error) {
	f, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("flow %q not registered", name)
	}

	return f.RunJSON(ctx, input)
}
