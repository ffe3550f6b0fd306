package flows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/genflow/genflow/flow"
	"github.com/genflow/genflow/internal/util"
	"github.com/genflow/genflow/logging"
	"github.com/genflow/genflow/model"
)

// ErrRecipeGeneration is returned when the model yields no structured payload
// for a recipe request. No partial response is produced.
var ErrRecipeGeneration = errors.New("failed to generate recipe")

// RecipeRequest is the input of the recipe flow.
type RecipeRequest struct {
	Ingredient          string `json:"ingredient" description:"Main ingredient or cuisine type"`
	DietaryRestrictions string `json:"dietaryRestrictions,omitempty" description:"Any dietary restrictions"`
}

// RecipeResponse is the recipe flow's output, produced by constrained model
// generation against this exact shape.
type RecipeResponse struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	PrepTime     string   `json:"prepTime"`
	CookTime     string   `json:"cookTime"`
	Servings     int      `json:"servings"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Tips         []string `json:"tips,omitempty"`
}

const recipePromptTemplate = `Create a recipe with the following requirements:
Main ingredient: {{.ingredient}}
Dietary restrictions: {{default "none" .dietaryRestrictions}}`

// RecipeFlowOptions configure the recipe flow.
type RecipeFlowOptions struct {
	Logger logging.Logger
}

// NewRecipeFlow builds the recipe flow: it renders a natural-language prompt
// from the ingredient and optional dietary restrictions, then requests one
// generation constrained to the RecipeResponse shape. An empty structured
// payload is an explicit failure (ErrRecipeGeneration).
func NewRecipeFlow(m model.Model, optFns ...func(o *RecipeFlowOptions)) *flow.Flow[RecipeRequest, RecipeResponse] {
	opts := RecipeFlowOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	outputSchema := util.CreateSchema(RecipeResponse{})

	handler := func(ctx context.Context, in RecipeRequest) (RecipeResponse, error) {
		prompt, err := util.RenderTemplate(recipePromptTemplate, map[string]any{
			"ingredient":          in.Ingredient,
			"dietaryRestrictions": in.DietaryRestrictions,
		})
		if err != nil {
			return RecipeResponse{}, err
		}

		resp, err := generate(ctx, m, model.Request{
			Messages:     []model.Message{model.NewUserText(prompt)},
			OutputSchema: outputSchema,
			OutputName:   "recipe",
		}, opts.Logger)
		if err != nil {
			return RecipeResponse{}, err
		}

		if len(resp.Output) == 0 {
			return RecipeResponse{}, ErrRecipeGeneration
		}

		var recipe RecipeResponse
		if err := json.Unmarshal(resp.Output, &recipe); err != nil {
			return RecipeResponse{}, fmt.Errorf("%w: malformed payload: %v", ErrRecipeGeneration, err)
		}

		return recipe, nil
	}

	return flow.New("recipeGeneratorFlow", handler, func(o *flow.Options) { o.Logger = opts.Logger })
}
