// Package tool implements the function / tool calling subsystem that lets
// flows and models invoke structured capabilities with schema validated
// arguments, consistent error handling and rich metadata for LLM guidance.
package tool

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/genflow/genflow/internal/util"
	"github.com/genflow/genflow/logging"
)

// Tool defines a callable unit with a declared input shape.
//
// A tool can be invoked directly by application code or surfaced to a model
// as a function declaration so the model may call it during generation.
//
// Tool implementations should:
//   - Provide clear, descriptive names (snake_case recommended) and descriptions
//   - Define proper JSON schema for parameters
//   - Handle errors gracefully
//   - Be safe for concurrent use
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description of what this tool does.
	// It is provided to the LLM to help it decide when to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected input format.
	// The schema drives both argument validation and LLM function calling.
	Parameters() map[string]any

	// Call executes the tool. Arguments have been parsed from JSON and are
	// validated against the tool's schema before the handler runs.
	Call(toolCtx *Context, args map[string]any) (any, error)
}

// ValidationError represents parameter validation errors with detailed information.
type ValidationError = util.ValidationError

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}

// Context provides a constrained surface for tool implementations: the
// invocation context, a logger and a function call identifier correlating
// model request and tool execution.
type Context struct {
	ctx            context.Context
	functionCallID string
	logger         logging.Logger
}

// ContextOptions configure construction of a tool Context.
type ContextOptions struct {
	// FunctionCallID correlates a model-emitted call with its execution.
	// A random identifier is generated when empty.
	FunctionCallID string
	Logger         logging.Logger
}

// NewContext constructs a tool context bound to a parent context.Context.
func NewContext(ctx context.Context, optFns ...func(o *ContextOptions)) *Context {
	opts := ContextOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.FunctionCallID == "" {
		opts.FunctionCallID = uuid.NewString()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Context{
		ctx:            ctx,
		functionCallID: opts.FunctionCallID,
		logger:         opts.Logger,
	}
}

// Context returns the context associated with the tool invocation.
func (tc *Context) Context() context.Context { return tc.ctx }

// FunctionCallID returns the function call ID associated with the tool invocation.
func (tc *Context) FunctionCallID() string { return tc.functionCallID }

// Logger returns the logger associated with the tool invocation.
func (tc *Context) Logger() logging.Logger { return tc.logger }
