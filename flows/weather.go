package flows

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/genflow/genflow/flow"
	"github.com/genflow/genflow/logging"
	"github.com/genflow/genflow/model"
	"github.com/genflow/genflow/tool"
)

// WeatherConditions is the fixed set of conditions the weather tool reports.
var WeatherConditions = []string{"sunny", "cloudy", "rainy", "snowy"}

// WeatherRequest is the input of the weather flow and the weather tool.
type WeatherRequest struct {
	Location string `json:"location" description:"The location to get the current weather for"`
}

// WeatherToolResult is the weather tool's output: a pseudo-random reading,
// not a model generation.
type WeatherToolResult struct {
	Temperature int    `json:"temperature"` // Degrees Fahrenheit in [50,80)
	Condition   string `json:"condition" enum:"sunny,cloudy,rainy,snowy"`
}

// WeatherResponse is the weather flow's output. Temperature and Condition
// come straight from the tool; Message is model-generated free text.
type WeatherResponse struct {
	Location    string `json:"location"`
	Temperature int    `json:"temperature"`
	Condition   string `json:"condition"`
	Message     string `json:"message"`
}

// WeatherToolOptions configure the weather tool.
type WeatherToolOptions struct {
	// Rand overrides the randomness source, mainly for deterministic tests.
	Rand *rand.Rand
}

// NewWeatherTool returns the get_weather tool: given a location it reports a
// uniformly random temperature in [50,80) and a uniformly random condition.
// No external call is made; malformed input is rejected by schema validation
// before the handler runs.
func NewWeatherTool(optFns ...func(o *WeatherToolOptions)) *tool.FunctionTool {
	opts := WeatherToolOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	intN := rand.IntN
	if opts.Rand != nil {
		intN = opts.Rand.IntN
	}

	return tool.NewFunctionToolFromStruct(
		"get_weather",
		"Get the current weather for a location",
		WeatherRequest{},
		func(_ *tool.Context, args map[string]any) (any, error) {
			return WeatherToolResult{
				Temperature: 50 + intN(30),
				Condition:   WeatherConditions[intN(len(WeatherConditions))],
			}, nil
		},
	)
}

// WeatherFlowOptions configure the weather flow.
type WeatherFlowOptions struct {
	Logger logging.Logger
	// Tool overrides the weather tool, mainly for deterministic tests.
	Tool tool.Tool
}

// NewWeatherFlow builds the weather flow: it dispatches the weather tool for
// the requested location, then asks the model to phrase a one-sentence
// friendly description of the reading. When the model returns empty text the
// message falls back to a templated sentence. Any tool or model failure
// propagates to the caller.
func NewWeatherFlow(m model.Model, optFns ...func(o *WeatherFlowOptions)) *flow.Flow[WeatherRequest, WeatherResponse] {
	opts := WeatherFlowOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	weatherTool := opts.Tool
	if weatherTool == nil {
		weatherTool = NewWeatherTool()
	}

	registry := tool.NewRegistry()
	registerErr := registry.Register(weatherTool)

	handler := func(ctx context.Context, in WeatherRequest) (WeatherResponse, error) {
		if registerErr != nil {
			return WeatherResponse{}, registerErr
		}

		args, err := json.Marshal(map[string]any{"location": in.Location})
		if err != nil {
			return WeatherResponse{}, err
		}

		toolCtx := tool.NewContext(ctx, func(o *tool.ContextOptions) { o.Logger = opts.Logger })
		result, err := registry.Dispatch(toolCtx, model.ToolCall{
			Type: "function",
			Function: model.ToolCallFunction{
				Name:      weatherTool.Name(),
				Arguments: args,
			},
		})
		if err != nil {
			return WeatherResponse{}, err
		}

		reading, ok := result.(WeatherToolResult)
		if !ok {
			return WeatherResponse{}, fmt.Errorf("unexpected weather tool result type %T", result)
		}

		prompt := fmt.Sprintf(
			"The weather in %s is currently %s with a temperature of %d°F. "+
				"Reply with one short, friendly sentence describing it.",
			in.Location, reading.Condition, reading.Temperature,
		)

		// The tool is declared on the phrasing request too, so the model may
		// call it again instead of answering with text. The fallback below
		// covers a response that carries no text.
		resp, err := generate(ctx, m, model.Request{
			Messages: []model.Message{model.NewUserText(prompt)},
			Tools:    registry.Definitions(),
		}, opts.Logger)
		if err != nil {
			return WeatherResponse{}, err
		}

		message := strings.TrimSpace(resp.Text)
		if message == "" {
			message = fmt.Sprintf("It's currently %s and %d°F in %s.",
				reading.Condition, reading.Temperature, in.Location)
		}

		return WeatherResponse{
			Location:    in.Location,
			Temperature: reading.Temperature,
			Condition:   reading.Condition,
			Message:     message,
		}, nil
	}

	return flow.New("weatherFlow", handler, func(o *flow.Options) { o.Logger = opts.Logger })
}
