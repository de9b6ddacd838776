package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/models"
)

// Recipes lists the recipes visible to the current user.
func (a *App) Recipes(ctx context.Context) error {
	recipes, err := a.client.ListRecipes(ctx)
	if err != nil {
		return err
	}
	if len(recipes) == 0 {
		fmt.Println("No recipes yet.")
		return nil
	}
	for _, r := range recipes {
		fmt.Printf("%s  %s\n", r.ID, r.Name)
	}
	return nil
}

// AddRecipe creates a recipe and reconciles its ingredient list in one flow.
// The two remote calls are independent; when the ingredient step fails the
// recipe is already persisted and the user is told so.
func (a *App) AddRecipe(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Recipe name", os.Stdout)
	if err != nil {
		return err
	}
	category, err := getSimpleText(a.reader, "Category (optional)", os.Stdout)
	if err != nil {
		return err
	}

	desired, err := a.readIngredientLines()
	if err != nil {
		return err
	}

	created, err := a.ingredients.CreateRecipeWithIngredients(ctx,
		models.Recipe{Name: name, Category: category}, desired)
	if created != nil && err != nil {
		fmt.Printf("Recipe %s was created, but saving ingredients failed: %v\n", created.ID, err)
		fmt.Println("Re-run 'ingredients' for this recipe to repair its list.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("Created recipe %s\n", created.ID)
	return nil
}
