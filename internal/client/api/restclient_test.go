package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/models"
	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCreds is an in-memory credentials.Repository for transport tests.
type fakeCreds struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCreds() *fakeCreds {
	return &fakeCreds{data: make(map[string][]byte)}
}

func (f *fakeCreds) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[key], nil
}

func (f *fakeCreds) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakeCreds) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeCreds) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = make(map[string][]byte)
	return nil
}

func (f *fakeCreds) Token(ctx context.Context) (string, error) {
	v, _ := f.Get(ctx, "token")
	return string(v), nil
}

func (f *fakeCreds) SaveSession(ctx context.Context, token string, user *models.User) error {
	blob, err := json.Marshal(user)
	if err != nil {
		return err
	}
	_ = f.Set(ctx, "token", []byte(token))
	return f.Set(ctx, "user", blob)
}

func (f *fakeCreds) ClearSession(ctx context.Context) error {
	_ = f.Delete(ctx, "token")
	return f.Delete(ctx, "user")
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestClient(t *testing.T, handler http.Handler) (*RESTClient, *fakeCreds) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	creds := newFakeCreds()
	client := NewRESTClient(srv.URL, creds, testLogger())
	t.Cleanup(func() { _ = client.Close() })
	return client, creds
}

func TestBearerInjection(t *testing.T) {
	var gotAuth string
	client, creds := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]models.Recipe{})
	}))
	require.NoError(t, creds.Set(context.Background(), "token", []byte("tok")))

	_, err := client.ListRecipes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestNoTokenNoHeader(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]models.Recipe{})
	}))

	_, err := client.ListRecipes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestUnauthorizedEvictsAndNotifies(t *testing.T) {
	client, creds := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	ctx := context.Background()
	require.NoError(t, creds.SaveSession(ctx, "tok", &models.User{ID: "u1"}))
	evictions := client.SubscribeEvictions()

	_, err := client.ListRecipes(ctx)
	require.ErrorIs(t, err, ErrUnauthorized)

	token, _ := creds.Token(ctx)
	assert.Empty(t, token, "401 must wipe the stored session")
	user, _ := creds.Get(ctx, "user")
	assert.Nil(t, user)

	select {
	case <-evictions:
	default:
		t.Fatal("eviction subscriber was not notified")
	}
}

func TestNotFoundMapping(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetPrincipalImage(context.Background(), "r1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestServerErrorMessageSurfaced(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "produto duplicado"})
	}))

	err := client.CreateIngredients(context.Background(), "r1", []models.IngredientLine{{ProductID: "A", Quantity: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "produto duplicado")
	assert.Contains(t, err.Error(), "409")
}

func TestUnreachableServerIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewRESTClient(url, newFakeCreds(), testLogger())
	t.Cleanup(func() { _ = client.Close() })

	_, err := client.ListRecipes(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestLoginRoundTrip(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var creds models.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "maria", creds.Login)

		_ = json.NewEncoder(w).Encode(authResponse{
			Token: "tok",
			User:  &models.User{ID: "u1", Username: "maria"},
		})
	}))

	token, user, err := client.Login(context.Background(), models.Credentials{Login: "maria", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, "maria", user.Username)
}

func TestIngredientEnvelopes(t *testing.T) {
	type recorded struct {
		method string
		path   string
		body   map[string]any
	}
	var calls []recorded

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		calls = append(calls, recorded{method: r.Method, path: r.URL.Path, body: body})
		w.WriteHeader(http.StatusOK)
	}))

	ctx := context.Background()
	require.NoError(t, client.UpdateIngredient(ctx, "r1", models.IngredientLine{ProductID: "A", Quantity: 5}))
	require.NoError(t, client.DeleteIngredient(ctx, "r1", "B"))
	require.NoError(t, client.CreateIngredients(ctx, "r1", []models.IngredientLine{
		{ProductID: "C", Quantity: 1, Unit: "g"},
	}))

	require.Len(t, calls, 3)

	assert.Equal(t, http.MethodPut, calls[0].method)
	assert.Equal(t, "/receitasingredientes", calls[0].path)
	assert.Equal(t, "r1", calls[0].body["receitaId"])

	assert.Equal(t, http.MethodDelete, calls[1].method)
	dels := calls[1].body["ingredientes"].([]any)
	require.Len(t, dels, 1)
	assert.Equal(t, "B", dels[0].(map[string]any)["produtoId"])

	assert.Equal(t, http.MethodPost, calls[2].method)
	creates := calls[2].body["ingredientes"].([]any)
	require.Len(t, creates, 1)
	created := creates[0].(map[string]any)
	assert.Equal(t, "C", created["produtoId"])
	assert.Equal(t, float64(1), created["quantidade"])
	assert.Equal(t, "g", created["unidadeMedida"])
}

func TestListIngredientsPath(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/receitasingredientes/receita/r1", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]models.IngredientLine{{ProductID: "A", Quantity: 2}})
	}))

	lines, err := client.ListIngredients(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "A", lines[0].ProductID)
}

func TestUploadImageMultipart(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/receitas/r1/imagens", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(10<<20))

		file, header, err := r.FormFile("arquivo")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "cake.jpg", header.Filename)

		assert.Equal(t, "cover shot", r.FormValue("descricao"))
		assert.Equal(t, "true", r.FormValue("ehPrincipal"))
		assert.Equal(t, "3", r.FormValue("ordemExibicao"))

		_ = json.NewEncoder(w).Encode(models.Image{ImageID: "img1", OriginalName: header.Filename})
	}))

	dir := t.TempDir()
	path := filepath.Join(dir, "cake.jpg")
	require.NoError(t, os.WriteFile(path, make([]byte, 4096), 0o660))

	var last models.UploadProgress
	img, err := client.UploadImage(context.Background(), "r1", models.UploadDescriptor{
		Path:         path,
		Description:  "cover shot",
		IsPrincipal:  true,
		DisplayOrder: 3,
	}, func(p models.UploadProgress) { last = p })

	require.NoError(t, err)
	assert.Equal(t, "img1", img.ImageID)
	assert.Equal(t, last.Total, last.Loaded, "progress should end at the full body size")
	assert.Equal(t, 100, last.Percentage)
}

func TestReorderEnvelope(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/receitas/r1/imagens/reordenar", r.URL.Path)
		require.Equal(t, http.MethodPut, r.Method)

		var env reorderEnvelope
		require.NoError(t, json.NewDecoder(r.Body).Decode(&env))
		require.Len(t, env.Images, 2)
		assert.Equal(t, "b", env.Images[0].ImageID)
		assert.Equal(t, 1, env.Images[0].DisplayOrder)
		w.WriteHeader(http.StatusOK)
	}))

	err := client.ReorderImages(context.Background(), "r1", []models.Image{
		{ImageID: "b", DisplayOrder: 1},
		{ImageID: "a", DisplayOrder: 2},
	})
	require.NoError(t, err)
}

func TestUpdateImagePath(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/receitas/r1/imagens/img1", r.URL.Path)
		require.Equal(t, http.MethodPut, r.Method)

		var img models.Image
		require.NoError(t, json.NewDecoder(r.Body).Decode(&img))
		assert.Equal(t, "new caption", img.Description)
		w.WriteHeader(http.StatusOK)
	}))

	err := client.UpdateImage(context.Background(), "r1", models.Image{ImageID: "img1", Description: "new caption"})
	require.NoError(t, err)
}

func TestSetPrincipalPath(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/receitas/r1/imagens/img1/principal", r.URL.Path)
		require.Equal(t, http.MethodPut, r.Method)
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, client.SetPrincipalImage(context.Background(), "r1", "img1"))
}

func TestImageConfigDecoding(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/receitas/imagens/config", r.URL.Path)
		_ = json.NewEncoder(w).Encode(models.ImageConfig{
			MaxFileSize:        1 << 20,
			AllowedExtensions:  []string{"jpg", "png"},
			MaxImagesPerRecipe: 5,
		})
	}))

	cfg, err := client.GetImageConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1<<20), cfg.MaxFileSize)
	assert.Equal(t, 5, cfg.MaxImagesPerRecipe)
}
