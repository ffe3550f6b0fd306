package model

import (
	"context"
	"encoding/json"
	"fmt"
)

// Message is a single role-tagged content item in a model request.
type Message struct {
	Role  string `json:"role"` // "system", "user", "assistant"
	Parts []Part `json:"parts"`
}

// Part represents a polymorphic segment of message content. Concrete part
// types implement the unexported isPart marker enabling a closed set.
type Part interface{ isPart() }

// TextPart is a plain text content segment.
type TextPart struct {
	Text string
}

// isPart implements the Part interface for TextPart.
func (TextPart) isPart() {}

// ImagePart is an inline image content segment. Data carries the raw bytes;
// providers encode to their own transport representation (base64, data URI).
type ImagePart struct {
	MIMEType string
	Data     []byte
}

// isPart implements the Part interface for ImagePart.
func (ImagePart) isPart() {}

// NewSystemText builds a system message from plain text.
func NewSystemText(text string) Message {
	return Message{Role: "system", Parts: []Part{TextPart{Text: text}}}
}

// NewUserText builds a user message from plain text.
func NewUserText(text string) Message {
	return Message{Role: "user", Parts: []Part{TextPart{Text: text}}}
}

// ToolCall represents a function call request surfaced by a model provider.
// Unified across vendors so downstream logic does not need per-provider branching.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"` // "function"
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction describes the concrete function target of a tool call.
type ToolCallFunction struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"` // JSON string of arguments
}

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// Request captures the normalized model input produced by flows.
type Request struct {
	// Model optionally overrides the adapter's default model identifier.
	Model    string           `json:"model,omitempty"`
	Messages []Message        `json:"messages"`
	Tools    []ToolDefinition `json:"tools,omitempty"`

	// OutputSchema constrains generation to a JSON payload matching the
	// given schema. Providers surface the payload in Response.Output.
	OutputSchema map[string]any `json:"output_schema,omitempty"`
	// OutputName names the output schema for providers that require one.
	OutputName string `json:"output_name,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the settled result of a generation call.
type Response struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
	// Output holds the schema-constrained structured payload when the
	// request carried an OutputSchema. Nil when the model produced none.
	Output       json.RawMessage `json:"output,omitempty"`
	ToolCalls    []ToolCall      `json:"tool_calls,omitempty"`
	FinishReason string          `json:"finish_reason"` // "stop", "length", "tool_calls", etc.
	Usage        *TokenUsage     `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "gemini", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by flows to drive generation.
// Generate blocks until the remote call settles; cancellation is handled
// through the supplied context only.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// CatalogEntry describes one model in a provider's catalog.
type CatalogEntry struct {
	Name             string `json:"name"` // Full identifier, e.g. "models/gemini-1.5-flash"
	DisplayName      string `json:"display_name,omitempty"`
	Description      string `json:"description,omitempty"`
	InputTokenLimit  int    `json:"input_token_limit,omitempty"`
	OutputTokenLimit int    `json:"output_token_limit,omitempty"`
}

// Catalog is implemented by providers able to enumerate their model catalog.
// Providers without the capability simply do not implement it; callers probe
// with a type assertion.
type Catalog interface {
	ListModels(ctx context.Context) ([]CatalogEntry, error)
}

// MockModel is a lightweight in‑memory Model useful for tests & examples.
// Canned completions are keyed by the text of the last message.
type MockModel struct {
	info            Info
	responses       map[string]string
	structured      map[string]json.RawMessage
	toolCalls       map[string][]ToolCall
	defaultResponse *string
}

// NewMockModel constructs a MockModel with basic tool support enabled.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info: Info{
			Name:          name,
			Provider:      provider,
			SupportsTools: true,
		},
		responses:  make(map[string]string),
		structured: make(map[string]json.RawMessage),
		toolCalls:  make(map[string][]ToolCall),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// AddStructuredResponse registers a canned structured payload for an input prompt.
// The payload is returned in Response.Output when the request carries an OutputSchema.
func (m *MockModel) AddStructuredResponse(prompt string, output json.RawMessage) {
	m.structured[prompt] = output
}

// AddToolCalls registers canned tool calls emitted for an input prompt.
func (m *MockModel) AddToolCalls(prompt string, calls ...ToolCall) {
	m.toolCalls[prompt] = calls
}

// SetDefaultResponse overrides the generic completion returned for prompts
// without a registered response. Setting "" exercises empty-text paths.
func (m *MockModel) SetDefaultResponse(response string) {
	m.defaultResponse = &response
}

// Generate implements Model. Unregistered prompts echo a generic completion;
// requests with an OutputSchema and no registered structured payload settle
// with a nil Output so callers can exercise the empty-output path.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("no messages provided")
	}

	last := req.Messages[len(req.Messages)-1]
	var inputText string
	for _, p := range last.Parts {
		if tp, ok := p.(TextPart); ok {
			inputText += tp.Text
		}
	}

	resp := &Response{FinishReason: "stop"}

	if calls, ok := m.toolCalls[inputText]; ok {
		resp.ToolCalls = calls
		resp.FinishReason = "tool_calls"
		return resp, nil
	}

	if req.OutputSchema != nil {
		resp.Output = m.structured[inputText]
		return resp, nil
	}

	if text, ok := m.responses[inputText]; ok {
		resp.Text = text
	} else if m.defaultResponse != nil {
		resp.Text = *m.defaultResponse
	} else {
		resp.Text = fmt.Sprintf("Mock response to: %s", inputText)
	}

	return resp, nil
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
