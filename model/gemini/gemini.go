// Package gemini provides a model wrapper for the Google Gemini REST API
// (generateContent plus the models catalog). The API is spoken directly over
// net/http with typed request/response structs; authentication uses the
// x-goog-api-key header.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/genflow/genflow/model"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Options configures the Gemini model adapter.
type Options struct {
	Model           string
	Temperature     float64
	MaxOutputTokens int
	// APIKey falls back to the GEMINI_API_KEY environment variable.
	APIKey  string
	BaseURL string
	// HTTPClient overrides the default client (60s timeout).
	HTTPClient *http.Client
}

// Model wraps the Gemini generateContent and models endpoints behind the
// generic model.Model and model.Catalog interfaces.
type Model struct {
	client *http.Client
	opts   Options
}

// NewModel creates a new Gemini model.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:           "gemini-1.5-flash",
		Temperature:     0.7,
		MaxOutputTokens: 4096,
		APIKey:          os.Getenv("GEMINI_API_KEY"),
		BaseURL:         defaultBaseURL,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	return &Model{client: client, opts: opts}
}

// Wire structures for the v1beta REST API.

type geminiContent struct {
	Role  string       `json:"role,omitempty"` // user, model
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text         string              `json:"text,omitempty"`
	InlineData   *geminiInlineData   `json:"inlineData,omitempty"`
	FunctionCall *geminiFunctionCall `json:"functionCall,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64 encoded
}

type geminiFunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

type geminiTool struct {
	FunctionDeclarations []geminiFunctionDeclaration `json:"functionDeclarations,omitempty"`
}

type geminiFunctionDeclaration struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"` // JSON Schema
}

type geminiGenerationConfig struct {
	Temperature      float64        `json:"temperature,omitempty"`
	MaxOutputTokens  int            `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	Tools             []geminiTool            `json:"tools,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiUsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type geminiResponse struct {
	Candidates    []geminiCandidate    `json:"candidates"`
	UsageMetadata *geminiUsageMetadata `json:"usageMetadata,omitempty"`
	ResponseID    string               `json:"responseId,omitempty"`
}

type geminiModelEntry struct {
	Name             string `json:"name"`
	DisplayName      string `json:"displayName,omitempty"`
	Description      string `json:"description,omitempty"`
	InputTokenLimit  int    `json:"inputTokenLimit,omitempty"`
	OutputTokenLimit int    `json:"outputTokenLimit,omitempty"`
}

type geminiModelsPage struct {
	Models        []geminiModelEntry `json:"models"`
	NextPageToken string             `json:"nextPageToken,omitempty"`
}

type geminiErrorResp struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate implements model.Model. It issues one blocking generateContent
// call and reshapes the first candidate into a model.Response.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	body := geminiRequest{}

	for _, msg := range req.Messages {
		parts := buildParts(msg.Parts)
		if len(parts) == 0 {
			continue
		}
		switch msg.Role {
		case "system":
			body.SystemInstruction = &geminiContent{Parts: parts}
		case "assistant":
			body.Contents = append(body.Contents, geminiContent{Role: "model", Parts: parts})
		default:
			body.Contents = append(body.Contents, geminiContent{Role: "user", Parts: parts})
		}
	}

	if len(req.Tools) > 0 {
		tool := geminiTool{}
		for _, tdef := range req.Tools {
			tool.FunctionDeclarations = append(tool.FunctionDeclarations, geminiFunctionDeclaration{
				Name:        tdef.Function.Name,
				Description: tdef.Function.Description,
				Parameters:  tdef.Function.Parameters,
			})
		}
		body.Tools = []geminiTool{tool}
	}

	genCfg := &geminiGenerationConfig{
		Temperature:     m.opts.Temperature,
		MaxOutputTokens: m.opts.MaxOutputTokens,
	}
	if req.OutputSchema != nil {
		genCfg.ResponseMimeType = "application/json"
		genCfg.ResponseSchema = req.OutputSchema
	}
	body.GenerationConfig = genCfg

	modelID := m.opts.Model
	if req.Model != "" {
		modelID = req.Model
	}

	endpoint := fmt.Sprintf("%s/v1beta/%s:generateContent",
		strings.TrimRight(m.opts.BaseURL, "/"), qualifyModelName(modelID))

	var resp geminiResponse
	if err := m.do(ctx, http.MethodPost, endpoint, &body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini api error: no candidates returned")
	}

	cand := resp.Candidates[0]
	out := &model.Response{
		ID:           resp.ResponseID,
		FinishReason: strings.ToLower(cand.FinishReason),
	}
	if out.FinishReason == "" {
		out.FinishReason = "stop"
	}

	for _, p := range cand.Content.Parts {
		if p.Text != "" {
			out.Text += p.Text
		}
		if p.FunctionCall != nil {
			args, err := json.Marshal(p.FunctionCall.Args)
			if err != nil {
				continue
			}
			out.ToolCalls = append(out.ToolCalls, model.ToolCall{
				Type: "function",
				Function: model.ToolCallFunction{
					Name:      p.FunctionCall.Name,
					Arguments: args,
				},
			})
		}
	}

	if req.OutputSchema != nil && out.Text != "" && json.Valid([]byte(out.Text)) {
		out.Output = json.RawMessage(out.Text)
	}

	if u := resp.UsageMetadata; u != nil {
		out.Usage = &model.TokenUsage{
			PromptTokens:     u.PromptTokenCount,
			CompletionTokens: u.CandidatesTokenCount,
			TotalTokens:      u.TotalTokenCount,
		}
	}

	return out, nil
}

// ListModels implements model.Catalog by walking the paginated models endpoint.
func (m *Model) ListModels(ctx context.Context) ([]model.CatalogEntry, error) {
	var entries []model.CatalogEntry
	pageToken := ""

	for {
		endpoint := fmt.Sprintf("%s/v1beta/models", strings.TrimRight(m.opts.BaseURL, "/"))
		if pageToken != "" {
			endpoint += "?pageToken=" + url.QueryEscape(pageToken)
		}

		var page geminiModelsPage
		if err := m.do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}

		for _, entry := range page.Models {
			entries = append(entries, model.CatalogEntry{
				Name:             entry.Name,
				DisplayName:      entry.DisplayName,
				Description:      entry.Description,
				InputTokenLimit:  entry.InputTokenLimit,
				OutputTokenLimit: entry.OutputTokenLimit,
			})
		}

		if page.NextPageToken == "" {
			return entries, nil
		}
		pageToken = page.NextPageToken
	}
}

// do executes one request against the API and decodes the JSON response,
// converting non-200 statuses into errors carrying the API message.
func (m *Model) do(ctx context.Context, method, endpoint string, body, result any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal gemini request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build gemini request: %w", err)
	}
	httpReq.Header.Set("x-goog-api-key", m.opts.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := m.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("gemini api error: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("read gemini response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var errResp geminiErrorResp
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error.Message != "" {
			return fmt.Errorf("gemini api error: status=%d %s", httpResp.StatusCode, errResp.Error.Message)
		}
		return fmt.Errorf("gemini api error: status=%d", httpResp.StatusCode)
	}

	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}

	return nil
}

func buildParts(parts []model.Part) []geminiPart {
	var out []geminiPart
	for _, p := range parts {
		switch tp := p.(type) {
		case model.TextPart:
			if tp.Text != "" {
				out = append(out, geminiPart{Text: tp.Text})
			}
		case model.ImagePart:
			out = append(out, geminiPart{InlineData: &geminiInlineData{
				MimeType: tp.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(tp.Data),
			}})
		}
	}
	return out
}

// qualifyModelName prefixes bare identifiers with "models/" as the REST
// endpoints require fully qualified names.
func qualifyModelName(name string) string {
	if strings.Contains(name, "/") {
		return name
	}
	return "models/" + name
}

// Info returns metadata describing this Gemini model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "gemini",
		SupportsTools: true,
	}
}
