package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/models"
	"github.com/google/uuid"
)

func imagesPath(recipeID string, extra ...string) string {
	p := "/api/receitas/" + url.PathEscape(recipeID) + "/imagens"
	for _, e := range extra {
		p += "/" + url.PathEscape(e)
	}
	return p
}

// UploadImage streams the file as multipart form data, reporting progress as
// the body is drained. The whole body is assembled up front; the upload
// policy caps file size well below anything that would make that a problem.
func (c *RESTClient) UploadImage(ctx context.Context, recipeID string, d models.UploadDescriptor, onProgress ProgressFunc) (*models.Image, error) {
	f, err := os.Open(d.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("arquivo", filepath.Base(d.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if d.Description != "" {
		_ = w.WriteField("descricao", d.Description)
	}
	_ = w.WriteField("ehPrincipal", strconv.FormatBool(d.IsPrincipal))
	if d.DisplayOrder > 0 {
		_ = w.WriteField("ordemExibicao", strconv.Itoa(d.DisplayOrder))
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	total := int64(buf.Len())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+imagesPath(recipeID), newProgressReader(&buf, total, onProgress))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload error: %w", c.mapNetworkError(ctx, err))
	}
	defer resp.Body.Close()

	var img models.Image
	if err := c.decode(resp, &img); err != nil {
		return nil, fmt.Errorf("upload error: %w", err)
	}
	return &img, nil
}

func (c *RESTClient) ListImages(ctx context.Context, recipeID string) ([]models.Image, error) {
	var images []models.Image
	if err := c.do(ctx, http.MethodGet, imagesPath(recipeID), nil, &images); err != nil {
		return nil, fmt.Errorf("list images error: %w", err)
	}
	return images, nil
}

// GetPrincipalImage returns ErrNotFound untouched when the recipe has no
// principal image; the upload service normalizes that into an empty result.
func (c *RESTClient) GetPrincipalImage(ctx context.Context, recipeID string) (*models.Image, error) {
	var img models.Image
	if err := c.do(ctx, http.MethodGet, imagesPath(recipeID, "principal"), nil, &img); err != nil {
		return nil, err
	}
	return &img, nil
}

func (c *RESTClient) UpdateImage(ctx context.Context, recipeID string, img models.Image) error {
	if err := c.do(ctx, http.MethodPut, imagesPath(recipeID, img.ImageID), img, nil); err != nil {
		return fmt.Errorf("update image error: %w", err)
	}
	return nil
}

func (c *RESTClient) DeleteImage(ctx context.Context, recipeID, imageID string) error {
	if err := c.do(ctx, http.MethodDelete, imagesPath(recipeID, imageID), nil, nil); err != nil {
		return fmt.Errorf("delete image error: %w", err)
	}
	return nil
}

// ReorderImages sends the full desired ordering; display order is taken from
// each image's position-adjusted DisplayOrder field.
func (c *RESTClient) ReorderImages(ctx context.Context, recipeID string, order []models.Image) error {
	env := reorderEnvelope{Images: make([]imageOrder, 0, len(order))}
	for _, img := range order {
		env.Images = append(env.Images, imageOrder{ImageID: img.ImageID, DisplayOrder: img.DisplayOrder})
	}
	if err := c.do(ctx, http.MethodPut, imagesPath(recipeID)+"/reordenar", env, nil); err != nil {
		return fmt.Errorf("reorder images error: %w", err)
	}
	return nil
}

func (c *RESTClient) SetPrincipalImage(ctx context.Context, recipeID, imageID string) error {
	if err := c.do(ctx, http.MethodPut, imagesPath(recipeID, imageID)+"/principal", nil, nil); err != nil {
		return fmt.Errorf("set principal image error: %w", err)
	}
	return nil
}

func (c *RESTClient) GetImageConfig(ctx context.Context) (*models.ImageConfig, error) {
	var cfg models.ImageConfig
	if err := c.do(ctx, http.MethodGet, "/api/receitas/imagens/config", nil, &cfg); err != nil {
		return nil, fmt.Errorf("image config error: %w", err)
	}
	return &cfg, nil
}

func (c *RESTClient) GetImageStats(ctx context.Context, recipeID string) (*models.ImageStats, error) {
	var stats models.ImageStats
	if err := c.do(ctx, http.MethodGet, imagesPath(recipeID)+"/estatisticas", nil, &stats); err != nil {
		return nil, fmt.Errorf("image stats error: %w", err)
	}
	return &stats, nil
}
