package flows

import (
	"context"
	"fmt"
	"strings"

	"github.com/genflow/genflow/flow"
	"github.com/genflow/genflow/logging"
	"github.com/genflow/genflow/model"
)

// ListModelsRequest is the (empty) input of the list-models flow.
type ListModelsRequest struct{}

// ModelSupports carries capability flags guessed from the model identifier.
type ModelSupports struct {
	Image bool `json:"image"`
}

// ModelSummary is the reshaped view of one catalog entry.
type ModelSummary struct {
	Name             string        `json:"name"`
	Label            string        `json:"label"`
	Description      string        `json:"description,omitempty"`
	InputTokenLimit  int           `json:"inputTokenLimit,omitempty"`
	OutputTokenLimit int           `json:"outputTokenLimit,omitempty"`
	Supports         ModelSupports `json:"supports"`
}

// ListModelsResponse is the list-models flow's output.
type ListModelsResponse struct {
	Models []ModelSummary `json:"models"`
}

// ListModelsFlowOptions configure the list-models flow.
type ListModelsFlowOptions struct {
	Logger logging.Logger
}

// NewListModelsFlow builds the list-models flow: it queries the provider for
// its catalog and reshapes each entry into a summary record. Providers that
// do not implement model.Catalog fail the flow.
func NewListModelsFlow(m model.Model, optFns ...func(o *ListModelsFlowOptions)) *flow.Flow[ListModelsRequest, ListModelsResponse] {
	opts := ListModelsFlowOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	handler := func(ctx context.Context, _ ListModelsRequest) (ListModelsResponse, error) {
		catalog, ok := m.(model.Catalog)
		if !ok {
			return ListModelsResponse{}, fmt.Errorf("provider %q does not expose a model catalog", m.Info().Provider)
		}

		entries, err := catalog.ListModels(ctx)
		if err != nil {
			return ListModelsResponse{}, err
		}

		summaries := make([]ModelSummary, len(entries))
		for i, entry := range entries {
			summaries[i] = summarizeEntry(entry)
		}

		return ListModelsResponse{Models: summaries}, nil
	}

	return flow.New("listModelsFlow", handler, func(o *flow.Options) { o.Logger = opts.Logger })
}

// summarizeEntry derives the display label from the trailing segment of the
// slash-delimited identifier and guesses capability flags from substring
// checks on it. The heuristic is knowingly approximate and kept as-is.
func summarizeEntry(entry model.CatalogEntry) ModelSummary {
	label := entry.Name
	if idx := strings.LastIndex(label, "/"); idx >= 0 {
		label = label[idx+1:]
	}

	lower := strings.ToLower(entry.Name)

	return ModelSummary{
		Name:             entry.Name,
		Label:            label,
		Description:      entry.Description,
		InputTokenLimit:  entry.InputTokenLimit,
		OutputTokenLimit: entry.OutputTokenLimit,
		Supports: ModelSupports{
			Image: strings.Contains(lower, "vision") || strings.Contains(lower, "flash"),
		},
	}
}
