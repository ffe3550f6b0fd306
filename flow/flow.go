// Package flow provides named, schema-validated request/response units over
// generative-model backends.
//
// A Flow pairs a typed handler with JSON schemas derived from its input and
// output types. Input is validated against the schema before the handler
// runs; handler failures propagate unchanged to the caller. Flows are
// registered in a Registry under their name, enabling single-level lookup
// and invocation with raw JSON payloads.
package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/genflow/genflow/internal/util"
	"github.com/genflow/genflow/logging"
)

// Handler is the function executed by a flow for a validated input.
type Handler[In, Out any] func(ctx context.Context, in In) (Out, error)

// runRecorder is implemented by loggers that record aggregate run metrics,
// such as logging.FlowLogger.
type runRecorder interface {
	LogFlowRun(flow, runID string, dur time.Duration, success bool, err error)
}

// Options configure a flow.
type Options struct {
	Logger logging.Logger
}

// Flow is a named request/response unit. The input schema is derived from In
// via reflection; construction-time validation keeps malformed requests from
// ever reaching the handler.
type Flow[In, Out any] struct {
	name        string
	inputSchema map[string]any
	handler     Handler[In, Out]
	logger      logging.Logger
}

// New creates a flow with the given name and handler.
func New[In, Out any](name string, handler Handler[In, Out], optFns ...func(o *Options)) *Flow[In, Out] {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	var zero In

	return &Flow[In, Out]{
		name:        name,
		inputSchema: util.CreateSchema(zero),
		handler:     handler,
		logger:      opts.Logger,
	}
}

// Name returns the flow's registered name.
func (f *Flow[In, Out]) Name() string { return f.name }

// InputSchema returns the JSON schema derived from the flow's input type.
func (f *Flow[In, Out]) InputSchema() map[string]any { return f.inputSchema }

// Run validates the input shape and executes the handler. Any handler error
// is returned as-is; there are no retries and no partial results.
func (f *Flow[In, Out]) Run(ctx context.Context, in In) (Out, error) {
	var zero Out

	runID := uuid.NewString()
	start := time.Now()

	f.logger.Debug("flow.run.start", "flow", f.name, "run_id", runID)

	if err := f.validateInput(in); err != nil {
		f.logger.Warn("flow.run.invalid_input", "flow", f.name, "run_id", runID, "error", err.Error())
		return zero, fmt.Errorf("flow %s: invalid input: %w", f.name, err)
	}

	out, err := f.handler(ctx, in)
	f.recordRun(runID, start, err)
	if err != nil {
		return zero, err
	}

	return out, nil
}

// recordRun logs the outcome of a run, preferring the logger's run metrics
// recorder when it provides one.
func (f *Flow[In, Out]) recordRun(runID string, start time.Time, err error) {
	if rec, ok := f.logger.(runRecorder); ok {
		rec.LogFlowRun(f.name, runID, time.Since(start), err == nil, err)
		return
	}
	if err != nil {
		f.logger.Error("flow.run.failed", "flow", f.name, "run_id", runID, "error", err.Error())
		return
	}
	f.logger.Info("flow.run.completed", "flow", f.name, "run_id", runID,
		"duration_ms", time.Since(start).Milliseconds())
}

// RunJSON implements Runner: it decodes the raw input into In, runs the flow
// and encodes the typed output back to JSON.
func (f *Flow[In, Out]) RunJSON(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in In
	if len(input) > 0 {
		if err := json.Unmarshal(input, &in); err != nil {
			return nil, fmt.Errorf("flow %s: decode input: %w", f.name, err)
		}
	}

	out, err := f.Run(ctx, in)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("flow %s: encode output: %w", f.name, err)
	}

	return encoded, nil
}

// validateInput round-trips the typed input through JSON and checks the
// resulting map against the derived schema.
func (f *Flow[In, Out]) validateInput(in In) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}

	params := map[string]any{}
	if err := json.Unmarshal(raw, &params); err != nil {
		// Non-object inputs (scalars, arrays) skip schema validation.
		return nil
	}

	return util.ValidateParameters(params, f.inputSchema)
}
