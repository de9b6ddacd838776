package models

// IngredientLine is one product line of a recipe's ingredient list. The
// product id is the line's identity within a recipe: one product cannot
// appear twice. Lines are persisted remotely keyed by (recipeId, productId).
type IngredientLine struct {
	ProductID string  `json:"produtoId" validate:"required"`
	Quantity  float64 `json:"quantidade" validate:"gt=0"`
	Unit      string  `json:"unidadeMedida"`
	Note      string  `json:"observacao,omitempty"`
}

// Valid reports whether the line is complete enough to persist. Incomplete
// lines are form rows in progress, not errors, and are silently dropped
// before reconciliation.
func (l IngredientLine) Valid() bool {
	return l.ProductID != "" && l.Quantity > 0
}

// Equal reports whether two lines would produce the same remote state.
// Unit and note ride along on updates but the tracked fields are identity
// and quantity.
func (l IngredientLine) Equal(other IngredientLine) bool {
	return l.ProductID == other.ProductID && l.Quantity == other.Quantity
}
