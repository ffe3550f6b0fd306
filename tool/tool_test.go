package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genflow/genflow/logging"
	"github.com/genflow/genflow/model"
)

// -------------------- FunctionTool Tests --------------------

type sumArgs struct {
	A float64 `json:"a" description:"First addend"`
	B float64 `json:"b" description:"Second addend"`
}

func newSumTool() *FunctionTool {
	return NewFunctionToolFromStruct(
		"calculate_sum",
		"Calculate the sum of two numbers",
		sumArgs{},
		func(_ *Context, args map[string]any) (any, error) {
			return args["a"].(float64) + args["b"].(float64), nil
		},
	)
}

func TestFunctionToolCall(t *testing.T) {
	sum := newSumTool()
	toolCtx := NewContext(context.Background())

	result, err := sum.Call(toolCtx, map[string]any{"a": 2.0, "b": 3.0})
	require.NoError(t, err)
	assert.Equal(t, 5.0, result)
}

func TestFunctionToolValidationError(t *testing.T) {
	sum := newSumTool()
	toolCtx := NewContext(context.Background())

	_, err := sum.Call(toolCtx, map[string]any{"a": 2.0})
	require.Error(t, err)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
	assert.Equal(t, "calculate_sum", toolErr.Tool)
}

func TestFunctionToolExecutionError(t *testing.T) {
	failing := NewFunctionTool(
		"always_fails",
		"Always returns an error",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ *Context, _ map[string]any) (any, error) {
			return nil, errors.New("boom")
		},
	)
	toolCtx := NewContext(context.Background())

	_, err := failing.Call(toolCtx, map[string]any{})
	require.Error(t, err)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Equal(t, "boom", toolErr.Message)
}

func TestFunctionToolCustomToolErrorPreserved(t *testing.T) {
	custom := NewFunctionTool(
		"custom_error",
		"Returns a custom ToolError",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ *Context, _ map[string]any) (any, error) {
			return nil, NewToolError("custom_error", "quota exceeded", "QUOTA")
		},
	)
	toolCtx := NewContext(context.Background())

	_, err := custom.Call(toolCtx, map[string]any{})
	require.Error(t, err)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "QUOTA", toolErr.Code)
}

func TestToolErrorMessage(t *testing.T) {
	withCode := NewToolError("t", "failed", "CODE")
	assert.Contains(t, withCode.Error(), "[CODE]")

	withoutCode := &ToolError{Tool: "t", Message: "failed"}
	assert.Equal(t, "tool error in t: failed", withoutCode.Error())
}

// -------------------- Context Tests --------------------

func TestNewContextDefaults(t *testing.T) {
	toolCtx := NewContext(context.Background())
	assert.NotEmpty(t, toolCtx.FunctionCallID())
	assert.NotNil(t, toolCtx.Logger())

	other := NewContext(context.Background())
	assert.NotEqual(t, toolCtx.FunctionCallID(), other.FunctionCallID())
}

func TestNewContextExplicitCallID(t *testing.T) {
	toolCtx := NewContext(context.Background(), func(o *ContextOptions) {
		o.FunctionCallID = "fc-123"
	})
	assert.Equal(t, "fc-123", toolCtx.FunctionCallID())
}

// -------------------- Registry Tests --------------------

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newSumTool()))

	got, ok := registry.Get("calculate_sum")
	require.True(t, ok)
	assert.Equal(t, "calculate_sum", got.Name())

	_, ok = registry.Get("missing")
	assert.False(t, ok)
}

func TestRegistryDuplicateName(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newSumTool()))
	assert.Error(t, registry.Register(newSumTool()))
}

func TestRegistryDefinitions(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newSumTool()))

	defs := registry.Definitions()
	require.Len(t, defs, 1)
	assert.Equal(t, "function", defs[0].Type)
	assert.Equal(t, "calculate_sum", defs[0].Function.Name)
	assert.Contains(t, defs[0].Function.Parameters, "properties")
}

func TestRegistryDispatch(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newSumTool()))

	toolCtx := NewContext(context.Background())
	result, err := registry.Dispatch(toolCtx, model.ToolCall{
		Type: "function",
		Function: model.ToolCallFunction{
			Name:      "calculate_sum",
			Arguments: json.RawMessage(`{"a": 1, "b": 2}`),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3.0, result)
}

func TestRegistryDispatchRecordsToolCall(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&logging.Config{Level: logging.LogLevelDebug, Format: "json", Output: &buf})

	registry := NewRegistry()
	require.NoError(t, registry.Register(newSumTool()))

	toolCtx := NewContext(context.Background(), func(o *ContextOptions) { o.Logger = logger })
	_, err := registry.Dispatch(toolCtx, model.ToolCall{
		Type: "function",
		Function: model.ToolCallFunction{
			Name:      "calculate_sum",
			Arguments: json.RawMessage(`{"a": 1, "b": 2}`),
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Tool execution completed")
	assert.Contains(t, out, "calculate_sum")
}

func TestRegistryDispatchUnknownTool(t *testing.T) {
	registry := NewRegistry()
	toolCtx := NewContext(context.Background())

	_, err := registry.Dispatch(toolCtx, model.ToolCall{
		Type:     "function",
		Function: model.ToolCallFunction{Name: "nope"},
	})
	require.Error(t, err)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "UNKNOWN_TOOL", toolErr.Code)
}

func TestRegistryDispatchMalformedArguments(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newSumTool()))

	toolCtx := NewContext(context.Background())
	_, err := registry.Dispatch(toolCtx, model.ToolCall{
		Type: "function",
		Function: model.ToolCallFunction{
			Name:      "calculate_sum",
			Arguments: json.RawMessage(`not json`),
		},
	})
	require.Error(t, err)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
}
