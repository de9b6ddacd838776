package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/models"
)

// Ingredients shows a recipe's current ingredient lines, asks for the
// desired list, and reconciles the difference against the backend.
func (a *App) Ingredients(ctx context.Context, recipeID string) error {
	if recipeID == "" {
		var err error
		recipeID, err = getSimpleText(a.reader, "Recipe id", os.Stdout)
		if err != nil {
			return err
		}
	}

	existing, err := a.ingredients.List(ctx, recipeID)
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Println("No ingredients yet.")
	} else {
		fmt.Println("Current ingredients:")
		for _, line := range existing {
			fmt.Printf("  %s  %g %s\n", line.ProductID, line.Quantity, line.Unit)
		}
	}

	desired, err := a.readIngredientLines()
	if err != nil {
		return err
	}

	if err := a.ingredients.Reconcile(ctx, recipeID, existing, desired); err != nil {
		return err
	}
	fmt.Println("Ingredients saved.")
	return nil
}

// readIngredientLines collects "productId quantity [unit]" rows until an
// empty line. Rows that do not parse are reported and skipped; incomplete
// rows are dropped later by the reconciliation filter.
func (a *App) readIngredientLines() ([]models.IngredientLine, error) {
	fmt.Println("Enter desired lines as: <productId> <quantity> [unit]")
	fmt.Println("(press Enter on an empty line to finish)")

	var desired []models.IngredientLine
	for {
		row, err := getSimpleText(a.reader, "", os.Stdout)
		if err != nil {
			return nil, err
		}
		if row == "" {
			return desired, nil
		}

		parts := strings.Fields(row)
		if len(parts) < 2 {
			fmt.Println("need at least a product id and a quantity")
			continue
		}
		qty, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			fmt.Printf("quantity %q is not a number\n", parts[1])
			continue
		}

		line := models.IngredientLine{ProductID: parts[0], Quantity: qty}
		if len(parts) > 2 {
			line.Unit = parts[2]
		}
		desired = append(desired, line)
	}
}
