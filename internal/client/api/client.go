// Package api is the HTTP transport for the ReceitaSecreta backend. A single
// client holds one base endpoint; every request carries the bearer token read
// from the credential store, and a 401 response evicts the stored credentials
// and notifies eviction subscribers.
package api

import (
	"context"

	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/models"
)

// ProgressFunc receives upload progress. It is called from the goroutine
// performing the request; callbacks must be quick.
type ProgressFunc func(models.UploadProgress)

// Client is the remote operation surface of the backend.
type Client interface {
	Close() error

	// Auth.
	Login(ctx context.Context, creds models.Credentials) (string, *models.User, error)
	Register(ctx context.Context, reg models.Registration) (string, *models.User, error)

	// Recipes and products.
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, recipeID string) (*models.Recipe, error)
	CreateRecipe(ctx context.Context, recipe models.Recipe) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, recipe models.Recipe) error
	DeleteRecipe(ctx context.Context, recipeID string) error
	ListProducts(ctx context.Context) ([]models.Product, error)

	// Ingredient lines keyed by (recipeId, productId).
	ListIngredients(ctx context.Context, recipeID string) ([]models.IngredientLine, error)
	CreateIngredients(ctx context.Context, recipeID string, lines []models.IngredientLine) error
	UpdateIngredient(ctx context.Context, recipeID string, line models.IngredientLine) error
	DeleteIngredient(ctx context.Context, recipeID, productID string) error

	// Recipe images.
	UploadImage(ctx context.Context, recipeID string, d models.UploadDescriptor, onProgress ProgressFunc) (*models.Image, error)
	ListImages(ctx context.Context, recipeID string) ([]models.Image, error)
	GetPrincipalImage(ctx context.Context, recipeID string) (*models.Image, error)
	UpdateImage(ctx context.Context, recipeID string, img models.Image) error
	DeleteImage(ctx context.Context, recipeID, imageID string) error
	ReorderImages(ctx context.Context, recipeID string, order []models.Image) error
	SetPrincipalImage(ctx context.Context, recipeID, imageID string) error
	GetImageConfig(ctx context.Context) (*models.ImageConfig, error)
	GetImageStats(ctx context.Context, recipeID string) (*models.ImageStats, error)

	// SubscribeEvictions returns a channel that receives a signal each time
	// the transport evicts credentials after a 401.
	SubscribeEvictions() <-chan struct{}
}
