package models

// Recipe is the parent resource owning ingredient lines and images.
type Recipe struct {
	ID           string `json:"receitaId"`
	Name         string `json:"nomeReceita" validate:"required"`
	Category     string `json:"categoria,omitempty"`
	Difficulty   string `json:"dificuldade,omitempty"`
	Instructions string `json:"modoPreparo,omitempty"`
	Notes        string `json:"notas,omitempty"`
}

// Product is a catalog item referenced by ingredient lines.
type Product struct {
	ID   string `json:"produtoId"`
	Name string `json:"nomeProduto"`
	Unit string `json:"unidadeMedida,omitempty"`
}
