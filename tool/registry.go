package tool

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/genflow/genflow/model"
)

// toolCallRecorder is implemented by loggers that record per-call execution
// metrics, such as logging.FlowLogger.
type toolCallRecorder interface {
	LogToolCall(tool string, dur time.Duration, success bool, err error)
}

// Registry maps tool names to handlers. It backs the single-level dispatch of
// model-emitted tool calls: look up by name, validate, execute.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool to the registry. Registering a second tool under an
// already taken name is an error.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Name()]; exists {
		return fmt.Errorf("tool %q already registered", t.Name())
	}
	r.tools[t.Name()] = t

	return nil
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]

	return t, ok
}

// Definitions returns the registered tools as model-facing function
// declarations, ordered by name for deterministic request payloads.
func (r *Registry) Definitions() []model.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]model.ToolDefinition, 0, len(names))
	for _, name := range names {
		t := r.tools[name]
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}

	return defs
}

// Dispatch resolves a model-emitted tool call to its registered handler,
// decodes the JSON arguments and executes it. Unknown tool names and
// malformed argument payloads surface as *ToolError.
func (r *Registry) Dispatch(toolCtx *Context, call model.ToolCall) (any, error) {
	t, ok := r.Get(call.Function.Name)
	if !ok {
		return nil, NewToolError(call.Function.Name, "no tool registered under this name", "UNKNOWN_TOOL")
	}

	args := map[string]any{}
	if len(call.Function.Arguments) > 0 {
		if err := json.Unmarshal(call.Function.Arguments, &args); err != nil {
			return nil, &ToolError{
				Tool:    call.Function.Name,
				Message: fmt.Sprintf("malformed arguments payload: %v", err),
				Code:    "VALIDATION_ERROR",
			}
		}
	}

	start := time.Now()
	result, err := t.Call(toolCtx, args)
	if rec, ok := toolCtx.Logger().(toolCallRecorder); ok {
		rec.LogToolCall(call.Function.Name, time.Since(start), err == nil, err)
	}

	return result, err
}
