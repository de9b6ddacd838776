package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/api"
	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/cache"
	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/models"
	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/logging"
)

// ErrReconcileInFlight is returned when a reconciliation for the same recipe
// is already running; concurrent submits for one recipe are rejected rather
// than interleaved.
var ErrReconcileInFlight = errors.New("reconciliation already in flight for recipe")

const ingredientsCacheTTL = 5 * time.Minute

// Plan is the minimal mutation set that moves a recipe's remote ingredient
// collection from an existing snapshot to a desired one. Updates and deletes
// address existing lines and are applied before the create batch, so a
// re-identified line is never simultaneously deleted and recreated.
type Plan struct {
	Updates []models.IngredientLine
	Deletes []string
	Creates []models.IngredientLine
}

// Empty reports whether applying the plan would issue no remote calls.
func (p Plan) Empty() bool {
	return len(p.Updates) == 0 && len(p.Deletes) == 0 && len(p.Creates) == 0
}

// BuildPlan diffs the two snapshots by product id. Desired lines that are
// incomplete (no product, non-positive quantity) are dropped; a product id
// appearing twice in desired keeps the last occurrence. A line whose tracked
// fields match the existing one produces no operation. With no existing
// snapshot the whole desired set becomes one create batch.
func BuildPlan(existing, desired []models.IngredientLine) Plan {
	valid := make([]models.IngredientLine, 0, len(desired))
	desiredByID := make(map[string]models.IngredientLine, len(desired))
	for _, line := range desired {
		if !line.Valid() {
			continue
		}
		valid = append(valid, line)
		desiredByID[line.ProductID] = line
	}

	var plan Plan

	if len(existing) == 0 {
		plan.Creates = dedupeByProduct(valid, desiredByID)
		return plan
	}

	existingByID := make(map[string]models.IngredientLine, len(existing))
	for _, line := range existing {
		existingByID[line.ProductID] = line

		d, ok := desiredByID[line.ProductID]
		if !ok {
			plan.Deletes = append(plan.Deletes, line.ProductID)
			continue
		}
		if !d.Equal(line) {
			plan.Updates = append(plan.Updates, d)
		}
	}

	for _, line := range dedupeByProduct(valid, desiredByID) {
		if _, ok := existingByID[line.ProductID]; !ok {
			plan.Creates = append(plan.Creates, line)
		}
	}
	return plan
}

// dedupeByProduct keeps first-seen order but the last-seen value per product.
func dedupeByProduct(lines []models.IngredientLine, byID map[string]models.IngredientLine) []models.IngredientLine {
	seen := make(map[string]bool, len(lines))
	out := make([]models.IngredientLine, 0, len(lines))
	for _, line := range lines {
		if seen[line.ProductID] {
			continue
		}
		seen[line.ProductID] = true
		out = append(out, byID[line.ProductID])
	}
	return out
}

// IngredientService reconciles a recipe's remote ingredient collection with
// locally edited state.
type IngredientService interface {
	List(ctx context.Context, recipeID string) ([]models.IngredientLine, error)
	Reconcile(ctx context.Context, recipeID string, existing, desired []models.IngredientLine) error
	CreateRecipeWithIngredients(ctx context.Context, recipe models.Recipe, desired []models.IngredientLine) (*models.Recipe, error)
}

type ingredientService struct {
	client api.Client
	cache  cache.Cache
	log    logging.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewIngredientService(client api.Client, c cache.Cache, log logging.Logger) IngredientService {
	return &ingredientService{
		client:   client,
		cache:    c,
		log:      log.With("component", "ingredients"),
		inFlight: make(map[string]struct{}),
	}
}

// List reads the recipe's ingredient lines through the cache.
func (s *ingredientService) List(ctx context.Context, recipeID string) ([]models.IngredientLine, error) {
	return cache.GetJSON(ctx, s.cache, cache.KeyIngredients(recipeID), ingredientsCacheTTL,
		func(ctx context.Context) ([]models.IngredientLine, error) {
			return s.client.ListIngredients(ctx, recipeID)
		})
}

// Reconcile computes and applies the minimal mutation set. Updates and
// deletes are issued one line at a time, then all new lines go out as a
// single create batch. The first failure aborts the remaining steps and
// propagates; mutations already applied stay applied.
func (s *ingredientService) Reconcile(ctx context.Context, recipeID string, existing, desired []models.IngredientLine) error {
	if err := s.acquire(recipeID); err != nil {
		return err
	}
	defer s.release(recipeID)

	plan := BuildPlan(existing, desired)
	if plan.Empty() {
		return nil
	}

	s.log.Info(ctx, "reconciling ingredients", "recipe", recipeID,
		"updates", len(plan.Updates), "deletes", len(plan.Deletes), "creates", len(plan.Creates))

	for _, line := range plan.Updates {
		if err := s.client.UpdateIngredient(ctx, recipeID, line); err != nil {
			return fmt.Errorf("failed to update ingredient %s: %w", line.ProductID, err)
		}
	}
	for _, productID := range plan.Deletes {
		if err := s.client.DeleteIngredient(ctx, recipeID, productID); err != nil {
			return fmt.Errorf("failed to delete ingredient %s: %w", productID, err)
		}
	}
	if len(plan.Creates) > 0 {
		if err := s.client.CreateIngredients(ctx, recipeID, plan.Creates); err != nil {
			return fmt.Errorf("failed to create ingredients: %w", err)
		}
	}

	if err := s.cache.Invalidate(ctx, cache.KeyIngredients(recipeID)); err != nil {
		s.log.Error(ctx, "failed to invalidate ingredient cache", "recipe", recipeID, "error", err)
	}
	return nil
}

// CreateRecipeWithIngredients persists the recipe, then reconciles its
// ingredient lines against an empty snapshot. The two calls are independent:
// when reconciliation fails the recipe stays persisted without (or with
// partial) ingredients, and the returned error says so.
func (s *ingredientService) CreateRecipeWithIngredients(ctx context.Context, recipe models.Recipe, desired []models.IngredientLine) (*models.Recipe, error) {
	if err := validate.Struct(recipe); err != nil {
		return nil, fmt.Errorf("invalid recipe: %w", err)
	}

	created, err := s.client.CreateRecipe(ctx, recipe)
	if err != nil {
		return nil, err
	}

	if err := s.Reconcile(ctx, created.ID, nil, desired); err != nil {
		return created, fmt.Errorf("recipe %s created but ingredients not saved: %w", created.ID, err)
	}
	return created, nil
}

func (s *ingredientService) acquire(recipeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[recipeID]; busy {
		return fmt.Errorf("%w: %s", ErrReconcileInFlight, recipeID)
	}
	s.inFlight[recipeID] = struct{}{}
	return nil
}

func (s *ingredientService) release(recipeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, recipeID)
}
