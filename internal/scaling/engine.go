package scaling

import (
	"strings"
)

// Scale validates the recipe, resolves the factor for the request and
// applies it to every ingredient. Units are never changed; rounding is left
// to the caller.
func Scale(recipe Recipe, request ScaleRequest) (*ScaledResult, error) {
	if err := Validate(recipe); err != nil {
		return nil, err
	}

	factor, err := Resolve(recipe, request)
	if err != nil {
		return nil, err
	}

	scaled := make([]ScaledIngredient, len(recipe.Ingredients))
	for i, ing := range recipe.Ingredients {
		weight := ing.Weight * factor
		if !positive(weight) {
			return nil, newError(ErrInvalidParameter, ing.Name, ing.Weight,
				"scaled weight of %q is out of range (factor %v)", ing.Name, factor)
		}
		scaled[i] = ScaledIngredient{
			Name:         ing.Name,
			ScaledWeight: weight,
			Unit:         ing.Unit,
		}
	}

	return &ScaledResult{
		Factor:      factor,
		Ingredients: scaled,
	}, nil
}

// Validate checks the recipe invariants Scale relies on and reports the
// first violation found.
func Validate(recipe Recipe) error {
	if len(recipe.Ingredients) == 0 {
		return newError(ErrEmptyRecipe, "", 0, "recipe %q has no ingredients", recipe.Name)
	}
	if !positive(recipe.OriginalPortion) {
		return newError(ErrInvalidQuantity, "", recipe.OriginalPortion,
			"original portion must be > 0, got %v", recipe.OriginalPortion)
	}
	for i, ing := range recipe.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return newError(ErrInvalidParameter, "", ing.Weight, "ingredient #%d has no name", i+1)
		}
		if !positive(ing.Weight) {
			return newError(ErrInvalidQuantity, ing.Name, ing.Weight,
				"ingredient %q weight must be > 0, got %v", ing.Name, ing.Weight)
		}
		if !ing.Unit.Valid() {
			return newError(ErrInvalidParameter, ing.Name, ing.Weight,
				"ingredient %q has unsupported unit %q", ing.Name, ing.Unit)
		}
	}
	return nil
}
