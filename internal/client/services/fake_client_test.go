package services

import (
	"context"
	"errors"
	"sync"

	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/api"
	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/models"
)

// errAny is a generic failure injected into fakes.
var errAny = errors.New("boom")

// fakeClient implements api.Client for unit tests. Each operation records
// its arguments and returns the configured result.
type fakeClient struct {
	mu sync.Mutex

	// login/register
	LoginToken string
	LoginUser  *models.User
	LoginErr   error

	RegisterToken string
	RegisterUser  *models.User
	RegisterErr   error

	LastLogin    models.Credentials
	LastRegister models.Registration

	// ingredients
	ListIngredientsRet []models.IngredientLine
	ListIngredientsErr error
	CreateErr          error
	UpdateErr          error
	DeleteErr          error

	// Calls records ingredient mutations in order, e.g. "update:A", "delete:B",
	// "create:[C D]".
	Calls []string

	CreatedBatches [][]models.IngredientLine

	// recipes
	CreateRecipeRet *models.Recipe
	CreateRecipeErr error

	// images
	ListImagesRet   []models.Image
	ListImagesErr   error
	PrincipalRet    *models.Image
	PrincipalErr    error
	UploadRet       *models.Image
	UploadErr       error
	UploadedDescs   []models.UploadDescriptor
	ConfigRet       *models.ImageConfig
	ConfigErr       error
	StatsRet        *models.ImageStats
	StatsErr        error
	ReorderErr      error
	ReorderedOrders [][]models.Image
	SetPrincipalErr error
	UpdateImageErr  error
	UpdatedImages   []models.Image
	DeleteImageErr  error
	DeletedImages   []string

	evictions chan struct{}
}

func newFakeClient() *fakeClient {
	return &fakeClient{evictions: make(chan struct{}, 1)}
}

func (f *fakeClient) record(call string) {
	f.mu.Lock()
	f.Calls = append(f.Calls, call)
	f.mu.Unlock()
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) Login(ctx context.Context, creds models.Credentials) (string, *models.User, error) {
	f.LastLogin = creds
	return f.LoginToken, f.LoginUser, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, reg models.Registration) (string, *models.User, error) {
	f.LastRegister = reg
	return f.RegisterToken, f.RegisterUser, f.RegisterErr
}

func (f *fakeClient) ListRecipes(ctx context.Context) ([]models.Recipe, error) { return nil, nil }

func (f *fakeClient) GetRecipe(ctx context.Context, recipeID string) (*models.Recipe, error) {
	return nil, nil
}

func (f *fakeClient) CreateRecipe(ctx context.Context, recipe models.Recipe) (*models.Recipe, error) {
	return f.CreateRecipeRet, f.CreateRecipeErr
}

func (f *fakeClient) UpdateRecipe(ctx context.Context, recipe models.Recipe) error { return nil }
func (f *fakeClient) DeleteRecipe(ctx context.Context, recipeID string) error      { return nil }
func (f *fakeClient) ListProducts(ctx context.Context) ([]models.Product, error)   { return nil, nil }

func (f *fakeClient) ListIngredients(ctx context.Context, recipeID string) ([]models.IngredientLine, error) {
	return f.ListIngredientsRet, f.ListIngredientsErr
}

func (f *fakeClient) CreateIngredients(ctx context.Context, recipeID string, lines []models.IngredientLine) error {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	f.record("create:" + join(ids))
	f.CreatedBatches = append(f.CreatedBatches, lines)
	return f.CreateErr
}

func (f *fakeClient) UpdateIngredient(ctx context.Context, recipeID string, line models.IngredientLine) error {
	f.record("update:" + line.ProductID)
	return f.UpdateErr
}

func (f *fakeClient) DeleteIngredient(ctx context.Context, recipeID, productID string) error {
	f.record("delete:" + productID)
	return f.DeleteErr
}

func (f *fakeClient) UploadImage(ctx context.Context, recipeID string, d models.UploadDescriptor, onProgress api.ProgressFunc) (*models.Image, error) {
	f.UploadedDescs = append(f.UploadedDescs, d)
	if onProgress != nil {
		onProgress(models.UploadProgress{Loaded: 1, Total: 1, Percentage: 100})
	}
	return f.UploadRet, f.UploadErr
}

func (f *fakeClient) ListImages(ctx context.Context, recipeID string) ([]models.Image, error) {
	return f.ListImagesRet, f.ListImagesErr
}

func (f *fakeClient) GetPrincipalImage(ctx context.Context, recipeID string) (*models.Image, error) {
	return f.PrincipalRet, f.PrincipalErr
}

func (f *fakeClient) UpdateImage(ctx context.Context, recipeID string, img models.Image) error {
	f.UpdatedImages = append(f.UpdatedImages, img)
	return f.UpdateImageErr
}

func (f *fakeClient) DeleteImage(ctx context.Context, recipeID, imageID string) error {
	f.DeletedImages = append(f.DeletedImages, imageID)
	return f.DeleteImageErr
}

func (f *fakeClient) ReorderImages(ctx context.Context, recipeID string, order []models.Image) error {
	f.ReorderedOrders = append(f.ReorderedOrders, order)
	return f.ReorderErr
}

func (f *fakeClient) SetPrincipalImage(ctx context.Context, recipeID, imageID string) error {
	return f.SetPrincipalErr
}

func (f *fakeClient) GetImageConfig(ctx context.Context) (*models.ImageConfig, error) {
	return f.ConfigRet, f.ConfigErr
}

func (f *fakeClient) GetImageStats(ctx context.Context, recipeID string) (*models.ImageStats, error) {
	return f.StatsRet, f.StatsErr
}

func (f *fakeClient) SubscribeEvictions() <-chan struct{} { return f.evictions }

func join(ids []string) string {
	out := "["
	for i, id := range ids {
		if i > 0 {
			out += " "
		}
		out += id
	}
	return out + "]"
}
