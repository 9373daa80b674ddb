// Package scaling computes proportionally scaled ingredient lists for a
// recipe. It is pure: no I/O, no shared state, and every function is safe
// for concurrent use.
package scaling

// Ingredient is a single recipe line
type Ingredient struct {
	Name   string
	Weight float64
	Unit   Unit
}

// Recipe is the immutable input to Scale
type Recipe struct {
	ID              string
	Name            string
	OriginalPortion float64
	Ingredients     []Ingredient
	Steps           []string
}

// ScaleRequest is either ByPortion or ByAvailability
type ScaleRequest interface {
	isScaleRequest()
}

// ByPortion scales the recipe to a desired number of portions
type ByPortion struct {
	DesiredPortion float64
}

// ByAvailability scales the recipe so that one ingredient uses exactly the
// available quantity. An empty AvailableUnit means the ingredient's own unit.
type ByAvailability struct {
	IngredientName  string
	AvailableWeight float64
	AvailableUnit   Unit
}

func (ByPortion) isScaleRequest()      {}
func (ByAvailability) isScaleRequest() {}

// ScaledIngredient keeps the unit of the ingredient it was computed from
type ScaledIngredient struct {
	Name         string
	ScaledWeight float64
	Unit         Unit
}

// ScaledResult holds one entry per input ingredient, in input order
type ScaledResult struct {
	Factor      float64
	Ingredients []ScaledIngredient
}
