// Package genflow provides a high-level façade over the flow registry and
// the built-in demo flows. Most applications interact with this package by:
//  1. Constructing a model provider (gemini, openai, anthropic or a mock)
//  2. Creating a registry via New() with every built-in flow registered
//  3. Invoking flows by name with raw JSON (Registry.RunJSON) or using the
//     typed constructors in the flows package directly
//
// All defaults are safe for local development; supply a structured logger
// via Options for observability.
package genflow

import (
	"github.com/genflow/genflow/flow"
	"github.com/genflow/genflow/flows"
	"github.com/genflow/genflow/logging"
	"github.com/genflow/genflow/model"
)

// Options configures the registry construction.
type Options struct {
	Logger logging.Logger
}

// New builds a flow registry with all built-in flows registered against the
// given model provider.
func New(m model.Model, optFns ...func(o *Options)) (*flow.Registry, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	registry := flow.NewRegistry()

	runners := []flow.Runner{
		flows.NewWeatherFlow(m, func(o *flows.WeatherFlowOptions) { o.Logger = opts.Logger }),
		flows.NewRecipeFlow(m, func(o *flows.RecipeFlowOptions) { o.Logger = opts.Logger }),
		flows.NewExplainFlow(m, func(o *flows.ExplainFlowOptions) { o.Logger = opts.Logger }),
		flows.NewDescribeImageFlow(m, func(o *flows.DescribeImageFlowOptions) { o.Logger = opts.Logger }),
		flows.NewListModelsFlow(m, func(o *flows.ListModelsFlowOptions) { o.Logger = opts.Logger }),
	}

	for _, r := range runners {
		if err := registry.Register(r); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
