package cli

import (
	"context"
	"fmt"

	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/models"
)

// Images lists a recipe's images, marking the principal one.
func (a *App) Images(ctx context.Context, recipeID string) error {
	images, err := a.images.Images(ctx, recipeID)
	if err != nil {
		return err
	}
	if len(images) == 0 {
		fmt.Println("No images yet.")
		return nil
	}
	for _, img := range images {
		marker := " "
		if img.IsPrincipal {
			marker = "*"
		}
		fmt.Printf("%s %2d  %s  %s (%d bytes)\n", marker, img.DisplayOrder, img.ImageID, img.OriginalName, img.SizeBytes)
	}

	if stats, err := a.images.Stats(ctx, recipeID); err == nil {
		fmt.Printf("%d images, %d bytes total\n", stats.TotalImages, stats.TotalBytes)
	}
	return nil
}

// Upload validates the given files against the server policy and uploads
// them one at a time, printing per-file progress and outcome.
func (a *App) Upload(ctx context.Context, recipeID string, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no files given")
	}

	results, err := a.images.UploadAll(ctx, recipeID, paths, nil, func(p models.UploadProgress) {
		fmt.Printf("\r%d%% (%d/%d bytes)", p.Percentage, p.Loaded, p.Total)
	})
	if err != nil {
		return err
	}
	fmt.Println()

	for _, res := range results {
		if res.Err != nil {
			fmt.Printf("FAILED  %s: %v\n", res.Path, res.Err)
			continue
		}
		fmt.Printf("ok      %s -> %s\n", res.Path, res.Image.ImageID)
	}
	return nil
}

// SetPrincipal flags one image as the recipe's cover image.
func (a *App) SetPrincipal(ctx context.Context, recipeID, imageID string) error {
	if err := a.images.SetPrincipal(ctx, recipeID, imageID); err != nil {
		return err
	}
	fmt.Println("Principal image updated.")
	return nil
}

// DescribeImage sets or replaces an image's description text.
func (a *App) DescribeImage(ctx context.Context, recipeID, imageID, text string) error {
	if err := a.images.SetDescription(ctx, recipeID, imageID, text); err != nil {
		return err
	}
	fmt.Println("Description saved.")
	return nil
}

// RemoveImage deletes one image from a recipe.
func (a *App) RemoveImage(ctx context.Context, recipeID, imageID string) error {
	if err := a.images.DeleteImage(ctx, recipeID, imageID); err != nil {
		return err
	}
	fmt.Println("Image removed.")
	return nil
}

// Reorder moves an image to a new display position and pushes the whole
// resulting ordering to the backend.
func (a *App) Reorder(ctx context.Context, recipeID, imageID string, position int) error {
	images, err := a.images.Images(ctx, recipeID)
	if err != nil {
		return err
	}
	if position < 1 || position > len(images) {
		return fmt.Errorf("position must be between 1 and %d", len(images))
	}

	var moved *models.Image
	rest := make([]models.Image, 0, len(images))
	for _, img := range images {
		if img.ImageID == imageID {
			m := img
			moved = &m
			continue
		}
		rest = append(rest, img)
	}
	if moved == nil {
		return fmt.Errorf("image %s not found on recipe %s", imageID, recipeID)
	}

	ordered := make([]models.Image, 0, len(images))
	ordered = append(ordered, rest[:position-1]...)
	ordered = append(ordered, *moved)
	ordered = append(ordered, rest[position-1:]...)
	for i := range ordered {
		ordered[i].DisplayOrder = i + 1
	}

	if err := a.images.Reorder(ctx, recipeID, ordered); err != nil {
		return err
	}
	fmt.Println("Order saved.")
	return nil
}
