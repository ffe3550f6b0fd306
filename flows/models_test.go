package flows

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genflow/genflow/model"
)

// catalogModel pairs a mock generation backend with a canned catalog.
type catalogModel struct {
	*model.MockModel
	entries []model.CatalogEntry
	err     error
}

func (c *catalogModel) ListModels(context.Context) ([]model.CatalogEntry, error) {
	return c.entries, c.err
}

func TestListModelsFlowReshaping(t *testing.T) {
	m := &catalogModel{
		MockModel: model.NewMockModel("test", "mock"),
		entries: []model.CatalogEntry{
			{Name: "providers/x/models/gemini-1.5-flash", Description: "Fast multimodal model"},
			{Name: "models/gemini-1.0-pro"},
			{Name: "models/gemini-pro-vision"},
		},
	}

	listFlow := NewListModelsFlow(m)

	resp, err := listFlow.Run(context.Background(), ListModelsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Models, 3)

	flash := resp.Models[0]
	assert.Equal(t, "gemini-1.5-flash", flash.Label)
	assert.True(t, flash.Supports.Image)
	assert.Equal(t, "Fast multimodal model", flash.Description)

	pro := resp.Models[1]
	assert.Equal(t, "gemini-1.0-pro", pro.Label)
	assert.False(t, pro.Supports.Image)

	vision := resp.Models[2]
	assert.Equal(t, "gemini-pro-vision", vision.Label)
	assert.True(t, vision.Supports.Image)
}

func TestListModelsFlowLabelWithoutSlash(t *testing.T) {
	m := &catalogModel{
		MockModel: model.NewMockModel("test", "mock"),
		entries:   []model.CatalogEntry{{Name: "gpt-4o-mini"}},
	}

	listFlow := NewListModelsFlow(m)

	resp, err := listFlow.Run(context.Background(), ListModelsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Models, 1)
	assert.Equal(t, "gpt-4o-mini", resp.Models[0].Label)
	assert.False(t, resp.Models[0].Supports.Image)
}

func TestListModelsFlowNoCatalog(t *testing.T) {
	// Plain mock does not implement model.Catalog.
	listFlow := NewListModelsFlow(model.NewMockModel("test", "mock"))

	_, err := listFlow.Run(context.Background(), ListModelsRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog")
}

func TestListModelsFlowCatalogErrorPropagates(t *testing.T) {
	m := &catalogModel{
		MockModel: model.NewMockModel("test", "mock"),
		err:       errors.New("catalog unavailable"),
	}

	listFlow := NewListModelsFlow(m)

	_, err := listFlow.Run(context.Background(), ListModelsRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog unavailable")
}
