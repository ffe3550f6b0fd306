package flows

import (
	"context"
	"time"

	"github.com/genflow/genflow/logging"
	"github.com/genflow/genflow/model"
)

// modelCallRecorder is implemented by loggers that record model call latency,
// such as logging.FlowLogger.
type modelCallRecorder interface {
	LogModelCall(model string, dur time.Duration, success bool, err error)
}

// generate issues one blocking model call, recording its latency when the
// logger provides a model call recorder.
func generate(ctx context.Context, m model.Model, req model.Request, logger logging.Logger) (*model.Response, error) {
	start := time.Now()
	resp, err := m.Generate(ctx, req)

	if rec, ok := logger.(modelCallRecorder); ok {
		name := req.Model
		if name == "" {
			name = m.Info().Name
		}
		rec.LogModelCall(name, time.Since(start), err == nil, err)
	}

	return resp, err
}
