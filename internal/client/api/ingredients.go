package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/models"
)

func (c *RESTClient) ListIngredients(ctx context.Context, recipeID string) ([]models.IngredientLine, error) {
	var lines []models.IngredientLine
	path := "/receitasingredientes/receita/" + url.PathEscape(recipeID)
	if err := c.do(ctx, http.MethodGet, path, nil, &lines); err != nil {
		return nil, fmt.Errorf("list ingredients error: %w", err)
	}
	return lines, nil
}

// CreateIngredients persists all new lines for a recipe in one call; the
// create endpoint accepts a list.
func (c *RESTClient) CreateIngredients(ctx context.Context, recipeID string, lines []models.IngredientLine) error {
	env := ingredientsEnvelope{RecipeID: recipeID, Ingredients: lines}
	if err := c.do(ctx, http.MethodPost, "/receitasingredientes", env, nil); err != nil {
		return fmt.Errorf("create ingredients error: %w", err)
	}
	return nil
}

// UpdateIngredient replaces one line. The update endpoint is single-item
// oriented, so the envelope carries exactly one ingredient.
func (c *RESTClient) UpdateIngredient(ctx context.Context, recipeID string, line models.IngredientLine) error {
	env := ingredientsEnvelope{RecipeID: recipeID, Ingredients: []models.IngredientLine{line}}
	if err := c.do(ctx, http.MethodPut, "/receitasingredientes", env, nil); err != nil {
		return fmt.Errorf("update ingredient error: %w", err)
	}
	return nil
}

func (c *RESTClient) DeleteIngredient(ctx context.Context, recipeID, productID string) error {
	env := ingredientsDeleteEnvelope{
		RecipeID:    recipeID,
		Ingredients: []ingredientKey{{ProductID: productID}},
	}
	if err := c.do(ctx, http.MethodDelete, "/receitasingredientes", env, nil); err != nil {
		return fmt.Errorf("delete ingredient error: %w", err)
	}
	return nil
}
