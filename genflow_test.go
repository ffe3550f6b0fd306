package genflow

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genflow/genflow/model"
)

func TestNewRegistersAllFlows(t *testing.T) {
	registry, err := New(model.NewMockModel("test", "mock"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"describeImageFlow",
		"explainFlow",
		"listModelsFlow",
		"recipeGeneratorFlow",
		"weatherFlow",
	}, registry.Names())
}

func TestRegistryRunsFlowByName(t *testing.T) {
	mock := model.NewMockModel("test", "mock")
	mock.AddResponse("What is Go?", "A programming language.")

	registry, err := New(mock)
	require.NoError(t, err)

	out, err := registry.RunJSON(context.Background(), "explainFlow", json.RawMessage(`{"prompt":"What is Go?"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"explanation":"A programming language."}`, string(out))
}

func TestRegistryUnknownFlow(t *testing.T) {
	registry, err := New(model.NewMockModel("test", "mock"))
	require.NoError(t, err)

	_, err = registry.RunJSON(context.Background(), "missingFlow", nil)
	assert.Error(t, err)
}
