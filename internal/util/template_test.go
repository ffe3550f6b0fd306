package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplatePlainText(t *testing.T) {
	out, err := RenderTemplate("no markers here", nil)
	require.NoError(t, err)
	assert.Equal(t, "no markers here", out)
}

func TestRenderTemplateVariables(t *testing.T) {
	out, err := RenderTemplate("Main ingredient: {{.ingredient}}", map[string]any{
		"ingredient": "avocado",
	})
	require.NoError(t, err)
	assert.Equal(t, "Main ingredient: avocado", out)
}

func TestRenderTemplateDefaultFunc(t *testing.T) {
	tmpl := `Dietary restrictions: {{default "none" .restrictions}}`

	out, err := RenderTemplate(tmpl, map[string]any{"restrictions": ""})
	require.NoError(t, err)
	assert.Equal(t, "Dietary restrictions: none", out)

	out, err = RenderTemplate(tmpl, map[string]any{"restrictions": "vegetarian"})
	require.NoError(t, err)
	assert.Equal(t, "Dietary restrictions: vegetarian", out)
}

func TestRenderTemplateParseError(t *testing.T) {
	_, err := RenderTemplate("{{.broken", nil)
	assert.Error(t, err)
}
