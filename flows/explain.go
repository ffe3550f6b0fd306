package flows

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/genflow/genflow/flow"
	"github.com/genflow/genflow/logging"
	"github.com/genflow/genflow/model"
)

const (
	defaultExplainPrompt  = "Explain how generative AI works in a few sentences."
	defaultDescribePrompt = "Describe this image in one sentence."
)

// ExplainRequest is the input of the explain flow. An empty prompt falls back
// to the default.
type ExplainRequest struct {
	Prompt string `json:"prompt,omitempty" description:"Question or topic to explain"`
	// Model optionally names the model variant to use for this call.
	Model string `json:"model,omitempty"`
}

// ExplainResponse is the explain flow's output.
type ExplainResponse struct {
	Explanation string `json:"explanation"`
}

// ExplainFlowOptions configure the explain flow.
type ExplainFlowOptions struct {
	Logger logging.Logger
}

// NewExplainFlow builds the explain flow: one generation call against the
// configured (or per-request) model variant, with a default prompt when none
// is supplied.
func NewExplainFlow(m model.Model, optFns ...func(o *ExplainFlowOptions)) *flow.Flow[ExplainRequest, ExplainResponse] {
	opts := ExplainFlowOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	handler := func(ctx context.Context, in ExplainRequest) (ExplainResponse, error) {
		prompt := strings.TrimSpace(in.Prompt)
		if prompt == "" {
			prompt = defaultExplainPrompt
		}

		resp, err := generate(ctx, m, model.Request{
			Model:    in.Model,
			Messages: []model.Message{model.NewUserText(prompt)},
		}, opts.Logger)
		if err != nil {
			return ExplainResponse{}, err
		}

		if strings.TrimSpace(resp.Text) == "" {
			return ExplainResponse{}, fmt.Errorf("model returned no explanation")
		}

		return ExplainResponse{Explanation: resp.Text}, nil
	}

	return flow.New("explainFlow", handler, func(o *flow.Options) { o.Logger = opts.Logger })
}

// DescribeImageRequest is the input of the describe-image flow. The image is
// supplied inline as base64 data plus its MIME type.
type DescribeImageRequest struct {
	Prompt   string `json:"prompt,omitempty" description:"Instruction for describing the image"`
	Image    string `json:"image" description:"Base64-encoded image bytes"`
	MIMEType string `json:"mimeType" description:"Image MIME type, e.g. image/png"`
	// Model optionally names a vision-capable model variant.
	Model string `json:"model,omitempty"`
}

// DescribeImageResponse is the describe-image flow's output.
type DescribeImageResponse struct {
	Description string `json:"description"`
}

// DescribeImageFlowOptions configure the describe-image flow.
type DescribeImageFlowOptions struct {
	Logger logging.Logger
}

// NewDescribeImageFlow builds the image-explanation flow: one generation call
// carrying an inline image part, with a default prompt when none is supplied.
func NewDescribeImageFlow(m model.Model, optFns ...func(o *DescribeImageFlowOptions)) *flow.Flow[DescribeImageRequest, DescribeImageResponse] {
	opts := DescribeImageFlowOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	handler := func(ctx context.Context, in DescribeImageRequest) (DescribeImageResponse, error) {
		prompt := strings.TrimSpace(in.Prompt)
		if prompt == "" {
			prompt = defaultDescribePrompt
		}

		data, err := base64.StdEncoding.DecodeString(in.Image)
		if err != nil {
			return DescribeImageResponse{}, fmt.Errorf("decode image payload: %w", err)
		}

		resp, err := generate(ctx, m, model.Request{
			Model: in.Model,
			Messages: []model.Message{{
				Role: "user",
				Parts: []model.Part{
					model.TextPart{Text: prompt},
					model.ImagePart{MIMEType: in.MIMEType, Data: data},
				},
			}},
		}, opts.Logger)
		if err != nil {
			return DescribeImageResponse{}, err
		}

		if strings.TrimSpace(resp.Text) == "" {
			return DescribeImageResponse{}, fmt.Errorf("model returned no description")
		}

		return DescribeImageResponse{Description: resp.Text}, nil
	}

	return flow.New("describeImageFlow", handler, func(o *flow.Options) { o.Logger = opts.Logger })
}
