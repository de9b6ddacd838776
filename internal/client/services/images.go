package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/api"
	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/cache"
	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/models"
	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/filex"
	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/logging"
	"github.com/google/uuid"
)

// Upload policy defaults, used when the server config endpoint is
// unavailable or reports zero values.
const (
	DefaultMaxFileSize        = 5 << 20 // 5 MiB
	MinFileSize               = 1 << 10 // 1 KiB
	DefaultMaxImagesPerRecipe = 10
	maxFileNameLength         = 255
)

var defaultAllowedExtensions = []string{"jpg", "jpeg", "png", "webp"}

// mimeByExtension maps allowed extensions to the content type their files
// must sniff as. Extensions outside this map get no content check.
var mimeByExtension = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
	"gif":  "image/gif",
}

const imagesCacheTTL = 5 * time.Minute

// UploadState is the per-upload state machine:
// Idle -> Validating -> Uploading -> Succeeded | Failed.
type UploadState string

const (
	UploadStateIdle       UploadState = "idle"
	UploadStateValidating UploadState = "validating"
	UploadStateUploading  UploadState = "uploading"
	UploadStateSucceeded  UploadState = "succeeded"
	UploadStateFailed     UploadState = "failed"
)

// UploadSession tracks one file through the upload state machine.
type UploadSession struct {
	ID       string
	Path     string
	State    UploadState
	Progress models.UploadProgress
	Err      string
}

// UploadResult is the outcome of one file in a batch upload. Outcomes are
// independent: one file failing does not block the rest.
type UploadResult struct {
	Path  string
	Image *models.Image
	Err   error
}

// ImageService orchestrates recipe image uploads: client-side policy checks,
// sequential multi-file upload with per-file progress, and invalidation of
// the image list, principal image, and statistics cache keys after every
// mutation.
type ImageService interface {
	Policy(ctx context.Context) models.ImageConfig
	ValidateFile(meta models.FileMeta, cfg models.ImageConfig) models.ValidationResult
	ValidateFiles(metas []models.FileMeta, currentCount int, cfg models.ImageConfig) models.ValidationResult

	UploadSingle(ctx context.Context, recipeID string, d models.UploadDescriptor, onProgress api.ProgressFunc) (*models.Image, error)
	UploadAll(ctx context.Context, recipeID string, paths []string, descriptions []string, onProgress api.ProgressFunc) ([]UploadResult, error)

	Images(ctx context.Context, recipeID string) ([]models.Image, error)
	Principal(ctx context.Context, recipeID string) (*models.Image, error)
	Stats(ctx context.Context, recipeID string) (*models.ImageStats, error)

	Reorder(ctx context.Context, recipeID string, order []models.Image) error
	SetPrincipal(ctx context.Context, recipeID, imageID string) error
	SetDescription(ctx context.Context, recipeID, imageID, description string) error
	DeleteImage(ctx context.Context, recipeID, imageID string) error

	Sessions() []UploadSession
}

type imageService struct {
	client api.Client
	cache  cache.Cache
	log    logging.Logger

	mu       sync.Mutex
	sessions map[string]*UploadSession
}

func NewImageService(client api.Client, c cache.Cache, log logging.Logger) ImageService {
	return &imageService{
		client:   client,
		cache:    c,
		log:      log.With("component", "images"),
		sessions: make(map[string]*UploadSession),
	}
}

// Policy returns the server-reported upload constraints with defaults filled
// in for anything missing. A failed config fetch degrades to the defaults.
func (s *imageService) Policy(ctx context.Context) models.ImageConfig {
	cfg, err := s.client.GetImageConfig(ctx)
	if err != nil {
		s.log.Warn(ctx, "image config unavailable, using defaults", "error", err)
	}
	if cfg == nil {
		cfg = &models.ImageConfig{}
	}
	out := *cfg
	if out.MaxFileSize <= 0 {
		out.MaxFileSize = DefaultMaxFileSize
	}
	if len(out.AllowedExtensions) == 0 {
		out.AllowedExtensions = defaultAllowedExtensions
	}
	if out.MaxImagesPerRecipe <= 0 {
		out.MaxImagesPerRecipe = DefaultMaxImagesPerRecipe
	}
	return out
}

// ValidateFile checks one file against the upload policy. Failures are
// returned as messages, never as errors; nothing here touches the network.
func (s *imageService) ValidateFile(meta models.FileMeta, cfg models.ImageConfig) models.ValidationResult {
	var errs []string

	if len(meta.Name) > maxFileNameLength {
		errs = append(errs, fmt.Sprintf("file name exceeds %d characters", maxFileNameLength))
	}

	ext := filex.Ext(meta.Name)
	if ext == "" {
		errs = append(errs, "file has no extension")
	} else if !containsFold(cfg.AllowedExtensions, ext) {
		errs = append(errs, fmt.Sprintf("file type %q is not allowed (allowed: %v)", ext, cfg.AllowedExtensions))
	}

	if meta.Size > cfg.MaxFileSize {
		errs = append(errs, fmt.Sprintf("file exceeds the maximum size of %d bytes", cfg.MaxFileSize))
	}
	if meta.Size < MinFileSize {
		errs = append(errs, fmt.Sprintf("file is smaller than the minimum size of %d bytes", MinFileSize))
	}

	if meta.MIME != "" && !containsFold(allowedMIMETypes(cfg), meta.MIME) {
		errs = append(errs, fmt.Sprintf("file content is %q, not an allowed image type", meta.MIME))
	}

	return models.ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// allowedMIMETypes derives the content-type allow-list from the policy's
// extension allow-list.
func allowedMIMETypes(cfg models.ImageConfig) []string {
	out := make([]string, 0, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		if mime, ok := mimeByExtension[strings.ToLower(strings.TrimPrefix(ext, "."))]; ok {
			out = append(out, mime)
		}
	}
	return out
}

// ValidateFiles validates each file and the resulting collection size.
// Per-file messages are prefixed with the file's 1-based index so the caller
// can attribute them.
func (s *imageService) ValidateFiles(metas []models.FileMeta, currentCount int, cfg models.ImageConfig) models.ValidationResult {
	var errs []string

	if currentCount+len(metas) > cfg.MaxImagesPerRecipe {
		errs = append(errs, countLimitMessage(currentCount, len(metas), cfg.MaxImagesPerRecipe))
	}

	for i, meta := range metas {
		res := s.ValidateFile(meta, cfg)
		for _, msg := range res.Errors {
			errs = append(errs, fmt.Sprintf("file %d: %s", i+1, msg))
		}
	}

	return models.ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

func countLimitMessage(currentCount, adding, limit int) string {
	return fmt.Sprintf("recipe already has %d images; adding %d would exceed the limit of %d",
		currentCount, adding, limit)
}

// UploadSingle validates then uploads one file, reporting progress, and
// invalidates the recipe's image caches on success. Validation failures and
// upload errors both surface to the caller; there is no retry.
func (s *imageService) UploadSingle(ctx context.Context, recipeID string, d models.UploadDescriptor, onProgress api.ProgressFunc) (*models.Image, error) {
	sess := s.newSession(d.Path)

	s.transition(sess, UploadStateValidating)
	name, size, err := filex.Describe(d.Path)
	if err != nil {
		s.fail(sess, err)
		return nil, err
	}
	mime, err := filex.MIMEType(d.Path)
	if err != nil {
		s.fail(sess, err)
		return nil, err
	}
	if res := s.ValidateFile(models.FileMeta{Name: name, Size: size, MIME: mime}, s.Policy(ctx)); !res.IsValid {
		err := fmt.Errorf("file rejected: %v", res.Errors)
		s.fail(sess, err)
		return nil, err
	}

	s.transition(sess, UploadStateUploading)
	img, err := s.client.UploadImage(ctx, recipeID, d, func(p models.UploadProgress) {
		s.setProgress(sess, p)
		if onProgress != nil {
			onProgress(p)
		}
	})
	if err != nil {
		s.fail(sess, err)
		return nil, err
	}

	s.transition(sess, UploadStateSucceeded)
	s.invalidate(ctx, recipeID)
	return img, nil
}

// UploadAll uploads the files strictly in order, one at a time. The first
// file is marked principal only when the recipe has no principal image yet,
// and display order continues after the recipe's current image count. Each
// file gets an independent outcome; the error is non-nil only when the batch
// as a whole could not start.
func (s *imageService) UploadAll(ctx context.Context, recipeID string, paths []string, descriptions []string, onProgress api.ProgressFunc) ([]UploadResult, error) {
	existing, err := s.client.ListImages(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list current images: %w", err)
	}
	principal, err := s.Principal(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check principal image: %w", err)
	}

	// The count limit gates the whole batch; per-file checks stay with each
	// file so one bad upload does not block the rest.
	if cfg := s.Policy(ctx); len(existing)+len(paths) > cfg.MaxImagesPerRecipe {
		return nil, errors.New(countLimitMessage(len(existing), len(paths), cfg.MaxImagesPerRecipe))
	}

	results := make([]UploadResult, 0, len(paths))
	for i, path := range paths {
		d := models.UploadDescriptor{
			Path:         path,
			IsPrincipal:  i == 0 && principal == nil,
			DisplayOrder: len(existing) + i + 1,
		}
		if i < len(descriptions) {
			d.Description = descriptions[i]
		}

		img, err := s.UploadSingle(ctx, recipeID, d, onProgress)
		results = append(results, UploadResult{Path: path, Image: img, Err: err})
	}
	return results, nil
}

// Images reads the recipe's image list through the cache.
func (s *imageService) Images(ctx context.Context, recipeID string) ([]models.Image, error) {
	return cache.GetJSON(ctx, s.cache, cache.KeyImages(recipeID), imagesCacheTTL,
		func(ctx context.Context) ([]models.Image, error) {
			return s.client.ListImages(ctx, recipeID)
		})
}

// Principal returns the recipe's principal image, normalizing a not-found
// response into (nil, nil): a recipe without a principal image is a valid
// empty state, not an error.
func (s *imageService) Principal(ctx context.Context, recipeID string) (*models.Image, error) {
	return cache.GetJSON(ctx, s.cache, cache.KeyPrincipal(recipeID), imagesCacheTTL,
		func(ctx context.Context) (*models.Image, error) {
			img, err := s.client.GetPrincipalImage(ctx, recipeID)
			if errors.Is(err, api.ErrNotFound) {
				return nil, nil
			}
			return img, err
		})
}

// Stats reads the recipe's image statistics through the cache.
func (s *imageService) Stats(ctx context.Context, recipeID string) (*models.ImageStats, error) {
	return cache.GetJSON(ctx, s.cache, cache.KeyStats(recipeID), imagesCacheTTL,
		func(ctx context.Context) (*models.ImageStats, error) {
			return s.client.GetImageStats(ctx, recipeID)
		})
}

func (s *imageService) Reorder(ctx context.Context, recipeID string, order []models.Image) error {
	if err := s.client.ReorderImages(ctx, recipeID, order); err != nil {
		return err
	}
	s.invalidate(ctx, recipeID)
	return nil
}

func (s *imageService) SetPrincipal(ctx context.Context, recipeID, imageID string) error {
	if err := s.client.SetPrincipalImage(ctx, recipeID, imageID); err != nil {
		return err
	}
	s.invalidate(ctx, recipeID)
	return nil
}

// SetDescription replaces one image's description, keeping the rest of the
// record as the backend last reported it.
func (s *imageService) SetDescription(ctx context.Context, recipeID, imageID, description string) error {
	images, err := s.Images(ctx, recipeID)
	if err != nil {
		return err
	}
	for _, img := range images {
		if img.ImageID != imageID {
			continue
		}
		img.Description = description
		if err := s.client.UpdateImage(ctx, recipeID, img); err != nil {
			return err
		}
		s.invalidate(ctx, recipeID)
		return nil
	}
	return fmt.Errorf("image %s not found on recipe %s", imageID, recipeID)
}

func (s *imageService) DeleteImage(ctx context.Context, recipeID, imageID string) error {
	if err := s.client.DeleteImage(ctx, recipeID, imageID); err != nil {
		return err
	}
	s.invalidate(ctx, recipeID)
	return nil
}

// Sessions returns a snapshot of all upload sessions for UI display.
func (s *imageService) Sessions() []UploadSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]UploadSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, *sess)
	}
	return out
}

// invalidate drops the three cache keys every image mutation affects.
func (s *imageService) invalidate(ctx context.Context, recipeID string) {
	err := s.cache.Invalidate(ctx,
		cache.KeyImages(recipeID),
		cache.KeyPrincipal(recipeID),
		cache.KeyStats(recipeID),
	)
	if err != nil {
		s.log.Error(ctx, "failed to invalidate image caches", "recipe", recipeID, "error", err)
	}
}

func (s *imageService) newSession(path string) *UploadSession {
	sess := &UploadSession{ID: uuid.NewString(), Path: path, State: UploadStateIdle}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *imageService) transition(sess *UploadSession, state UploadState) {
	s.mu.Lock()
	sess.State = state
	s.mu.Unlock()
}

func (s *imageService) setProgress(sess *UploadSession, p models.UploadProgress) {
	s.mu.Lock()
	sess.Progress = p
	s.mu.Unlock()
}

func (s *imageService) fail(sess *UploadSession, err error) {
	s.mu.Lock()
	sess.State = UploadStateFailed
	sess.Err = err.Error()
	s.mu.Unlock()
}

// containsFold matches v against the allow-list case-insensitively, accepting
// entries with or without a leading dot.
func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimPrefix(item, "."), v) {
			return true
		}
	}
	return false
}
