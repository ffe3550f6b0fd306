// Package openai provides an implementation of model.Model using the OpenAI
// Chat Completions API (including function/tool calling and JSON-schema
// constrained output). It adapts genflow's normalized Request/Response
// structures into the SDK's message format and back.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"

	"github.com/genflow/genflow/model"
)

// Options configure the OpenAI model adapter.
// Fields mirror a subset of Chat Completion parameters intentionally kept
// minimal; extend via functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Model wraps the OpenAI Chat Completions API behind the generic model.Model interface.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI model using the official client
func NewModel(optFns ...func(o *Options)) *Model {
	client := openai.NewClient()
	return NewModelFromClient(&client, optFns...)
}

// NewModelFromClient creates a new OpenAI model from an existing client
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Generate implements model.Model. It issues one blocking Chat Completion
// call and reshapes the first choice into a model.Response.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	messages, err := buildMessages(req)
	if err != nil {
		return nil, err
	}

	params, err := m.buildParams(req, messages)
	if err != nil {
		return nil, err
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}

	ch0 := resp.Choices[0]
	out := &model.Response{
		ID:           resp.ID,
		Text:         ch0.Message.Content,
		FinishReason: ch0.FinishReason,
	}

	for _, tc := range ch0.Message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, model.ToolCall{
			ID:   tc.ID,
			Type: "function",
			Function: model.ToolCallFunction{
				Name:      tc.Function.Name,
				Arguments: json.RawMessage(tc.Function.Arguments),
			},
		})
	}

	if req.OutputSchema != nil && json.Valid([]byte(ch0.Message.Content)) {
		out.Output = json.RawMessage(ch0.Message.Content)
	}

	if resp.Usage.TotalTokens > 0 {
		out.Usage = &model.TokenUsage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		}
	}

	return out, nil
}

// buildMessages converts normalized messages into OpenAI chat messages.
func buildMessages(req model.Request) ([]openai.ChatCompletionMessageParamUnion, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	for _, msg := range req.Messages {
		var textBuilder strings.Builder
		for _, p := range msg.Parts {
			switch tp := p.(type) {
			case model.TextPart:
				textBuilder.WriteString(tp.Text)
			case model.ImagePart:
				return nil, fmt.Errorf("image parts not supported by the openai adapter")
			}
		}
		text := textBuilder.String()
		switch msg.Role {
		case "system":
			messages = append(messages, openai.SystemMessage(text))
		case "user":
			messages = append(messages, openai.UserMessage(text))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(text))
		default:
			if text != "" {
				messages = append(messages, openai.UserMessage(text))
			}
		}
	}
	return messages, nil
}

// buildParams assembles the OpenAI request parameters including tool
// definitions and the optional JSON-schema response format.
func (m *Model) buildParams(
	req model.Request,
	messages []openai.ChatCompletionMessageParamUnion,
) (openai.ChatCompletionNewParams, error) {
	modelID := m.opts.Model
	if req.Model != "" {
		modelID = req.Model
	}

	params := openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               modelID,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}

	if len(req.Tools) > 0 {
		tools := make([]openai.ChatCompletionToolParam, len(req.Tools))
		for i, tdef := range req.Tools {
			tools[i] = openai.ChatCompletionToolParam{
				Type: "function",
				Function: openai.FunctionDefinitionParam{
					Name:        tdef.Function.Name,
					Description: openai.String(tdef.Function.Description),
					Parameters:  tdef.Function.Parameters,
				},
			}
		}
		params.Tools = tools
	}

	if req.OutputSchema != nil {
		name := req.OutputName
		if name == "" {
			name = "output"
		}
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   name,
					Schema: req.OutputSchema,
				},
			},
		}
	}

	return params, nil
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "openai",
		SupportsTools: true,
	}
}
