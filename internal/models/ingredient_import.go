package models

// ParsedIngredient represents a single parsed line of a pasted ingredient list
type ParsedIngredient struct {
	RawText   string  `json:"rawText"`
	Name      string  `json:"name"`
	Weight    float64 `json:"weight"`
	Unit      string  `json:"unit"`
	Notes     string  `json:"notes,omitempty"`
	Line      int     `json:"line"`
	Supported bool    `json:"supported"`
}

// IngredientImportRequest is the request body for parsing an ingredient list
type IngredientImportRequest struct {
	Content string `json:"content"`
}

// IngredientImportResponse splits parsed lines into ready-to-use
// ingredients and lines the user still has to fix (unknown unit, no amount).
type IngredientImportResponse struct {
	Ingredients []Ingredient       `json:"ingredients"`
	Rejected    []ParsedIngredient `json:"rejected"`
}
