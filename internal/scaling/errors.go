package scaling

import (
	"errors"
	"fmt"
)

// Error kinds. A *Error matches its kind with errors.Is.
var (
	ErrInvalidParameter   = errors.New("invalid parameter")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrIncompatibleUnits  = errors.New("incompatible units")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrEmptyRecipe        = errors.New("recipe has no ingredients")
)

// Error is returned for every failed scale request
type Error struct {
	Kind       error
	Ingredient string
	Value      float64
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Code returns the stable wire code for the error kind
func (e *Error) Code() string {
	return Code(e.Kind)
}

// Code maps an error kind to its wire code. Unknown kinds map to "INTERNAL".
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidParameter):
		return "INVALID_PARAMETER"
	case errors.Is(err, ErrIngredientNotFound):
		return "INGREDIENT_NOT_FOUND"
	case errors.Is(err, ErrIncompatibleUnits):
		return "INCOMPATIBLE_UNITS"
	case errors.Is(err, ErrInvalidQuantity):
		return "INVALID_QUANTITY"
	case errors.Is(err, ErrEmptyRecipe):
		return "EMPTY_RECIPE"
	default:
		return "INTERNAL"
	}
}

func newError(kind error, ingredient string, value float64, format string, args ...any) *Error {
	return &Error{
		Kind:       kind,
		Ingredient: ingredient,
		Value:      value,
		Message:    fmt.Sprintf(format, args...),
	}
}
