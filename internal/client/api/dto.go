package api

import "github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/models"

// Wire envelopes. Field names follow the backend contract.

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type ingredientsEnvelope struct {
	RecipeID    string                  `json:"receitaId"`
	Ingredients []models.IngredientLine `json:"ingredientes"`
}

type ingredientKey struct {
	ProductID string `json:"produtoId"`
}

type ingredientsDeleteEnvelope struct {
	RecipeID    string          `json:"receitaId"`
	Ingredients []ingredientKey `json:"ingredientes"`
}

type imageOrder struct {
	ImageID      string `json:"imagemId"`
	DisplayOrder int    `json:"ordemExibicao"`
}

type reorderEnvelope struct {
	Images []imageOrder `json:"imagens"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e errorResponse) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}
