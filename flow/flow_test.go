package flow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genflow/genflow/logging"
)

type greetIn struct {
	Name string `json:"name"`
}

type greetOut struct {
	Greeting string `json:"greeting"`
}

func newGreetFlow() *Flow[greetIn, greetOut] {
	return New("greetFlow", func(_ context.Context, in greetIn) (greetOut, error) {
		return greetOut{Greeting: "Hello, " + in.Name}, nil
	})
}

func TestFlowRun(t *testing.T) {
	f := newGreetFlow()

	out, err := f.Run(context.Background(), greetIn{Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, Ada", out.Greeting)
}

func TestFlowInputSchema(t *testing.T) {
	f := newGreetFlow()

	schema := f.InputSchema()
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "name")
	assert.Equal(t, []string{"name"}, schema["required"])
}

func TestFlowRunJSON(t *testing.T) {
	f := newGreetFlow()

	out, err := f.RunJSON(context.Background(), json.RawMessage(`{"name":"Ada"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"greeting":"Hello, Ada"}`, string(out))
}

func TestFlowRunJSONDecodeError(t *testing.T) {
	f := newGreetFlow()

	_, err := f.RunJSON(context.Background(), json.RawMessage(`{"name":42}`))
	assert.Error(t, err)
}

func TestFlowHandlerErrorPropagates(t *testing.T) {
	sentinel := errors.New("handler failed")
	f := New("failing", func(_ context.Context, _ greetIn) (greetOut, error) {
		return greetOut{}, sentinel
	})

	_, err := f.Run(context.Background(), greetIn{Name: "Ada"})
	assert.ErrorIs(t, err, sentinel)
}

func TestFlowRunRecordedByFlowLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&logging.Config{Level: logging.LogLevelDebug, Format: "json", Output: &buf})

	f := New("greetFlow", func(_ context.Context, in greetIn) (greetOut, error) {
		return greetOut{Greeting: "Hello, " + in.Name}, nil
	}, func(o *Options) { o.Logger = logger })

	_, err := f.Run(context.Background(), greetIn{Name: "Ada"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Flow run completed")
	assert.Contains(t, out, "greetFlow")
}

func TestFlowRunFailureRecordedByFlowLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&logging.Config{Level: logging.LogLevelDebug, Format: "json", Output: &buf})

	f := New("failing", func(_ context.Context, _ greetIn) (greetOut, error) {
		return greetOut{}, errors.New("handler failed")
	}, func(o *Options) { o.Logger = logger })

	_, err := f.Run(context.Background(), greetIn{Name: "Ada"})
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "Flow run failed")
	assert.Contains(t, out, "handler failed")
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newGreetFlow()))

	got, ok := registry.Get("greetFlow")
	require.True(t, ok)
	assert.Equal(t, "greetFlow", got.Name())

	_, ok = registry.Get("missing")
	assert.False(t, ok)
}

func TestRegistryDuplicateName(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newGreetFlow()))
	assert.Error(t, registry.Register(newGreetFlow()))
}

func TestRegistryNames(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(New("bFlow", func(_ context.Context, in greetIn) (greetOut, error) {
		return greetOut{}, nil
	})))
	require.NoError(t, registry.Register(New("aFlow", func(_ context.Context, in greetIn) (greetOut, error) {
		return greetOut{}, nil
	})))

	assert.Equal(t, []string{"aFlow", "bFlow"}, registry.Names())
}

func TestRegistryRunJSON(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newGreetFlow()))

	out, err := registry.RunJSON(context.Background(), "greetFlow", json.RawMessage(`{"name":"Ada"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"greeting":"Hello, Ada"}`, string(out))

	_, err = registry.RunJSON(context.Background(), "missing", nil)
	assert.Error(t, err)
}
