// Command genflow runs a fixed demonstration sequence of the built-in flows
// against a hosted model backend and prints results to standard output. It
// takes no flags; the backend is selected from the environment. The process
// exits non-zero on the first flow failure.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/genflow/genflow"
	"github.com/genflow/genflow/logging"
	"github.com/genflow/genflow/model"
	"github.com/genflow/genflow/model/anthropic"
	"github.com/genflow/genflow/model/gemini"
	"github.com/genflow/genflow/model/openai"
)

func main() {
	m, err := modelFromEnv()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.NewSlogLogger(logging.LogLevelInfo, "text", false)

	registry, err := genflow.New(m, func(o *genflow.Options) {
		o.Logger = logger.WithComponent("flow")
	})
	if err != nil {
		log.Fatalf("registry setup failed: %v", err)
	}

	steps := []struct {
		flow  string
		input string
	}{
		{"weatherFlow", `{"location":"New York"}`},
		{"recipeGeneratorFlow", `{"ingredient":"avocado","dietaryRestrictions":"vegetarian"}`},
		{"explainFlow", `{}`},
		{"listModelsFlow", `{}`},
	}

	ctx := context.Background()

	for _, step := range steps {
		out, err := registry.RunJSON(ctx, step.flow, json.RawMessage(step.input))
		if err != nil {
			log.Fatalf("%s failed: %v", step.flow, err)
		}
		fmt.Printf("=== %s ===\n%s\n", step.flow, indent(out))
	}
}

// modelFromEnv selects the generation backend from the first configured API
// key. Gemini is preferred as the only backend exposing a model catalog.
func modelFromEnv() (model.Model, error) {
	switch {
	case os.Getenv("GEMINI_API_KEY") != "":
		return gemini.NewModel(), nil
	case os.Getenv("OPENAI_API_KEY") != "":
		return openai.NewModel(), nil
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		return anthropic.NewModel(), nil
	default:
		return nil, fmt.Errorf("set GEMINI_API_KEY, OPENAI_API_KEY or ANTHROPIC_API_KEY")
	}
}

func indent(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
