package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/models"
)

func (c *RESTClient) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := c.do(ctx, http.MethodGet, "/receitas", nil, &recipes); err != nil {
		return nil, fmt.Errorf("list recipes error: %w", err)
	}
	return recipes, nil
}

func (c *RESTClient) GetRecipe(ctx context.Context, recipeID string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := c.do(ctx, http.MethodGet, "/receitas/"+url.PathEscape(recipeID), nil, &recipe); err != nil {
		return nil, fmt.Errorf("get recipe error: %w", err)
	}
	return &recipe, nil
}

func (c *RESTClient) CreateRecipe(ctx context.Context, recipe models.Recipe) (*models.Recipe, error) {
	var created models.Recipe
	if err := c.do(ctx, http.MethodPost, "/receitas", recipe, &created); err != nil {
		return nil, fmt.Errorf("create recipe error: %w", err)
	}
	return &created, nil
}

func (c *RESTClient) UpdateRecipe(ctx context.Context, recipe models.Recipe) error {
	if err := c.do(ctx, http.MethodPut, "/receitas/"+url.PathEscape(recipe.ID), recipe, nil); err != nil {
		return fmt.Errorf("update recipe error: %w", err)
	}
	return nil
}

func (c *RESTClient) DeleteRecipe(ctx context.Context, recipeID string) error {
	if err := c.do(ctx, http.MethodDelete, "/receitas/"+url.PathEscape(recipeID), nil, nil); err != nil {
		return fmt.Errorf("delete recipe error: %w", err)
	}
	return nil
}

func (c *RESTClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/produtos", nil, &products); err != nil {
		return nil, fmt.Errorf("list products error: %w", err)
	}
	return products, nil
}
