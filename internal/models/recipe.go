package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/foxxcyber/recipe-scaler/internal/scaling"
)

// ErrInvalidRecipe is wrapped by every recipe validation failure
var ErrInvalidRecipe = errors.New("invalid recipe")

// Ingredient is a recipe line as stored and served by the API
type Ingredient struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Unit   string  `json:"unit"`
}

// Recipe represents a stored recipe. Field names follow the mobile client.
type Recipe struct {
	ID              string       `json:"_id"`
	Name            string       `json:"name"`
	OriginalPortion float64      `json:"originalPortion"`
	Ingredients     []Ingredient `json:"ingredients"`
	Steps           []string     `json:"steps"`
	ImageKey        *string      `json:"imageKey,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// CreateRecipeRequest is the request body for creating a recipe. ID is
// optional; the client re-posts a deleted recipe with its old ID to undo.
type CreateRecipeRequest struct {
	ID              string       `json:"_id,omitempty"`
	Name            string       `json:"name"`
	OriginalPortion float64      `json:"originalPortion"`
	Ingredients     []Ingredient `json:"ingredients"`
	Steps           []string     `json:"steps"`
}

// UpdateRecipeRequest replaces a recipe's content
type UpdateRecipeRequest struct {
	Name            string       `json:"name"`
	OriginalPortion float64      `json:"originalPortion"`
	Ingredients     []Ingredient `json:"ingredients"`
	Steps           []string     `json:"steps"`
}

// RecipeSort is the name ordering for recipe listings
type RecipeSort string

const (
	RecipeSortAsc  RecipeSort = "asc"
	RecipeSortDesc RecipeSort = "desc"
)

// RecipeListParams contains parameters for listing recipes
type RecipeListParams struct {
	Limit  int
	Offset int
	Search string
	Sort   RecipeSort
}

// RecipeStats contains aggregate statistics for recipes
type RecipeStats struct {
	TotalRecipes     int `json:"total_recipes"`
	TotalIngredients int `json:"total_ingredients"`
	WithImage        int `json:"with_image"`
}

// Normalize trims names, drops blank steps and rewrites every unit to its
// canonical spelling. It fails on the first invalid field.
func (r *CreateRecipeRequest) Normalize() error {
	return normalizeRecipe(&r.Name, r.OriginalPortion, r.Ingredients, &r.Steps)
}

// Normalize applies the same rules as CreateRecipeRequest.Normalize
func (r *UpdateRecipeRequest) Normalize() error {
	return normalizeRecipe(&r.Name, r.OriginalPortion, r.Ingredients, &r.Steps)
}

func normalizeRecipe(name *string, portion float64, ingredients []Ingredient, steps *[]string) error {
	*name = strings.TrimSpace(*name)
	if *name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRecipe)
	}
	if !(portion > 0) || math.IsInf(portion, 1) {
		return fmt.Errorf("%w: originalPortion must be > 0", ErrInvalidRecipe)
	}
	if len(ingredients) == 0 {
		return fmt.Errorf("%w: at least one ingredient is required", ErrInvalidRecipe)
	}
	for i := range ingredients {
		ing := &ingredients[i]
		ing.Name = strings.TrimSpace(ing.Name)
		if ing.Name == "" {
			return fmt.Errorf("%w: ingredient #%d has no name", ErrInvalidRecipe, i+1)
		}
		if !(ing.Weight > 0) || math.IsInf(ing.Weight, 1) {
			return fmt.Errorf("%w: ingredient %q weight must be > 0", ErrInvalidRecipe, ing.Name)
		}
		unit, ok := scaling.ParseUnit(ing.Unit)
		if !ok {
			return fmt.Errorf("%w: ingredient %q has unsupported unit %q", ErrInvalidRecipe, ing.Name, ing.Unit)
		}
		ing.Unit = string(unit)
	}

	cleaned := make([]string, 0, len(*steps))
	for _, s := range *steps {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	*steps = cleaned
	return nil
}

// ToScaling converts the stored recipe into the scaling engine's input.
// Units that do not parse are passed through so the engine can report them.
func (r *Recipe) ToScaling() scaling.Recipe {
	ingredients := make([]scaling.Ingredient, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		unit, ok := scaling.ParseUnit(ing.Unit)
		if !ok {
			unit = scaling.Unit(ing.Unit)
		}
		ingredients[i] = scaling.Ingredient{
			Name:   ing.Name,
			Weight: ing.Weight,
			Unit:   unit,
		}
	}
	return scaling.Recipe{
		ID:              r.ID,
		Name:            r.Name,
		OriginalPortion: r.OriginalPortion,
		Ingredients:     ingredients,
		Steps:           r.Steps,
	}
}
