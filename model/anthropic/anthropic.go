// Package anthropic provides a model wrapper for the Anthropic Claude API.
//
// Structured generation is implemented through forced tool use: the output
// schema is exposed as a single synthetic tool the model must call, and the
// call input becomes the structured payload.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"

	"github.com/genflow/genflow/model"
)

// Options configures the Anthropic model adapter (temperature, model id,
// max tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Model wraps the Anthropic Messages API behind the generic model.Model interface.
type Model struct {
	client *anthropic.Client
	opts   Options
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
}

// NewModel creates a new Anthropic model using the official client
func NewModel(optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Model{
		client: &client,
		opts:   opts,
	}
}

// NewModelFromClient creates a new Anthropic model from an existing client
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{
		client: client,
		opts:   opts,
	}
}

// Generate implements model.Model. It issues one blocking Messages API call
// and reshapes the content blocks into a model.Response.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	messages, err := buildMessages(req.Messages)
	if err != nil {
		return nil, err
	}

	modelID := m.opts.Model
	if req.Model != "" {
		modelID = anthropic.Model(req.Model)
	}

	params := anthropic.MessageNewParams{
		Model:       modelID,
		Messages:    messages,
		MaxTokens:   m.opts.MaxTokens,
		Temperature: anthropic.Float(m.opts.Temperature),
	}

	if systemBlocks := extractSystemMessage(req.Messages); len(systemBlocks) > 0 {
		params.System = systemBlocks
	}

	if len(req.Tools) > 0 {
		params.Tools = buildTools(req.Tools)
	}

	outputToolName := ""
	if req.OutputSchema != nil {
		outputToolName = req.OutputName
		if outputToolName == "" {
			outputToolName = "record_output"
		}
		params.Tools = append(params.Tools, buildOutputTool(outputToolName, req.OutputSchema))
		params.ToolChoice = anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: outputToolName},
		}
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	out := &model.Response{ID: resp.ID, FinishReason: "stop"}
	if resp.StopReason != "" {
		out.FinishReason = string(resp.StopReason)
	}

	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			out.Text += block.AsText().Text
		case "tool_use":
			toolBlock := block.AsToolUse()
			args, merr := json.Marshal(toolBlock.Input)
			if merr != nil {
				continue
			}
			if toolBlock.Name == outputToolName {
				out.Output = args
				continue
			}
			out.ToolCalls = append(out.ToolCalls, model.ToolCall{
				ID:   toolBlock.ID,
				Type: "function",
				Function: model.ToolCallFunction{
					Name:      toolBlock.Name,
					Arguments: args,
				},
			})
		}
	}

	if resp.Usage.InputTokens > 0 || resp.Usage.OutputTokens > 0 {
		out.Usage = &model.TokenUsage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		}
	}

	return out, nil
}

// buildMessages converts normalized messages to Anthropic message format.
func buildMessages(msgs []model.Message) ([]anthropic.MessageParam, error) {
	var messages []anthropic.MessageParam

	for _, msg := range msgs {
		if msg.Role == "system" {
			continue // System messages handled separately
		}

		var textBuilder strings.Builder
		for _, p := range msg.Parts {
			switch tp := p.(type) {
			case model.TextPart:
				textBuilder.WriteString(tp.Text)
			case model.ImagePart:
				return nil, fmt.Errorf("image parts not supported by the anthropic adapter")
			}
		}
		text := textBuilder.String()
		if text == "" {
			continue
		}

		switch msg.Role {
		case "assistant":
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(text)))
		default:
			// Treat unknown roles as user
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(text)))
		}
	}

	return messages, nil
}

// extractSystemMessage extracts system message blocks
func extractSystemMessage(msgs []model.Message) []anthropic.TextBlockParam {
	var systemBlocks []anthropic.TextBlockParam

	for _, msg := range msgs {
		if msg.Role != "system" {
			continue
		}
		for _, p := range msg.Parts {
			if tp, ok := p.(model.TextPart); ok && tp.Text != "" {
				systemBlocks = append(systemBlocks, anthropic.TextBlockParam{
					Text: tp.Text,
				})
			}
		}
	}

	return systemBlocks
}

// buildTools converts genflow tool definitions to Anthropic tool format
func buildTools(tools []model.ToolDefinition) []anthropic.ToolUnionParam {
	anthropicTools := make([]anthropic.ToolUnionParam, len(tools))

	for i, tdef := range tools {
		anthropicTools[i] = anthropic.ToolUnionParamOfTool(
			buildInputSchema(tdef.Function.Parameters),
			tdef.Function.Name,
		)
	}

	return anthropicTools
}

// buildOutputTool builds the synthetic tool carrying the output schema for
// structured generation.
func buildOutputTool(name string, schema map[string]any) anthropic.ToolUnionParam {
	return anthropic.ToolUnionParamOfTool(buildInputSchema(schema), name)
}

// buildInputSchema copies a JSON-schema map into the SDK's input schema shape.
func buildInputSchema(params map[string]any) anthropic.ToolInputSchemaParam {
	inputSchema := anthropic.ToolInputSchemaParam{
		Type: constant.Object("object"),
	}

	if params == nil {
		return inputSchema
	}

	if properties, exists := params["properties"]; exists {
		inputSchema.Properties = properties
	}
	if required, exists := params["required"]; exists {
		switch req := required.(type) {
		case []string:
			inputSchema.Required = req
		case []any:
			var reqStrings []string
			for _, r := range req {
				if s, ok := r.(string); ok {
					reqStrings = append(reqStrings, s)
				}
			}
			inputSchema.Required = reqStrings
		}
	}

	return inputSchema
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          string(m.opts.Model),
		Provider:      "anthropic",
		SupportsTools: true,
	}
}
