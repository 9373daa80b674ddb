package scaling

import (
	"errors"
	"strings"
)

// Resolve derives the scaling factor for a request against a recipe.
func Resolve(recipe Recipe, request ScaleRequest) (float64, error) {
	if !positive(recipe.OriginalPortion) {
		return 0, newError(ErrInvalidQuantity, "", recipe.OriginalPortion,
			"original portion must be > 0, got %v", recipe.OriginalPortion)
	}

	switch req := request.(type) {
	case ByPortion:
		return resolvePortion(recipe, req)
	case *ByPortion:
		if req == nil {
			break
		}
		return resolvePortion(recipe, *req)
	case ByAvailability:
		return resolveAvailability(recipe, req)
	case *ByAvailability:
		if req == nil {
			break
		}
		return resolveAvailability(recipe, *req)
	}
	return 0, newError(ErrInvalidParameter, "", 0, "missing or unknown scale request")
}

func resolvePortion(recipe Recipe, req ByPortion) (float64, error) {
	if !positive(req.DesiredPortion) {
		return 0, newError(ErrInvalidParameter, "", req.DesiredPortion,
			"desired portion must be > 0, got %v", req.DesiredPortion)
	}
	factor := req.DesiredPortion / recipe.OriginalPortion
	if !positive(factor) {
		return 0, newError(ErrInvalidParameter, "", req.DesiredPortion,
			"desired portion %v is out of range for original portion %v", req.DesiredPortion, recipe.OriginalPortion)
	}
	return factor, nil
}

func resolveAvailability(recipe Recipe, req ByAvailability) (float64, error) {
	name := strings.TrimSpace(req.IngredientName)
	if name == "" {
		return 0, newError(ErrInvalidParameter, "", 0, "available ingredient name is required")
	}
	if !positive(req.AvailableWeight) {
		return 0, newError(ErrInvalidParameter, name, req.AvailableWeight,
			"available weight must be > 0, got %v", req.AvailableWeight)
	}

	ref, ok := findIngredient(recipe.Ingredients, name)
	if !ok {
		return 0, newError(ErrIngredientNotFound, name, req.AvailableWeight,
			"no ingredient named %q in recipe", name)
	}
	if !positive(ref.Weight) {
		return 0, newError(ErrInvalidQuantity, ref.Name, ref.Weight,
			"ingredient %q weight must be > 0, got %v", ref.Name, ref.Weight)
	}

	unit := req.AvailableUnit
	if unit == "" {
		unit = ref.Unit
	}
	available, err := Convert(req.AvailableWeight, unit, ref.Unit)
	if err != nil {
		var se *Error
		if errors.As(err, &se) && se.Ingredient == "" {
			se.Ingredient = ref.Name
		}
		return 0, err
	}
	factor := available / ref.Weight
	if !positive(factor) {
		return 0, newError(ErrInvalidParameter, ref.Name, req.AvailableWeight,
			"available weight %v is out of range for %v %s", req.AvailableWeight, ref.Weight, ref.Unit)
	}
	return factor, nil
}

// findIngredient returns the first ingredient whose name matches,
// ignoring case. Duplicate names resolve to the earliest entry.
func findIngredient(ingredients []Ingredient, name string) (Ingredient, bool) {
	for _, ing := range ingredients {
		if strings.EqualFold(strings.TrimSpace(ing.Name), name) {
			return ing, true
		}
	}
	return Ingredient{}, false
}
