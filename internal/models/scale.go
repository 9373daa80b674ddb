package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/foxxcyber/recipe-scaler/internal/scaling"
)

// ScalingMode selects the shape of ScaleParameter
type ScalingMode string

const (
	ScalingModePortion      ScalingMode = "portion"
	ScalingModeAvailability ScalingMode = "availability"
)

// ScaleRequest is the request body for POST /api/scale. Recipe holds either
// a recipe ID (JSON string) or an embedded recipe object.
type ScaleRequest struct {
	Recipe      json.RawMessage `json:"recipe"`
	ScalingMode ScalingMode     `json:"scalingMode"`
	Parameter   ScaleParameter  `json:"parameter"`
}

// ScaleParameter is the union of both parameter shapes
type ScaleParameter struct {
	DesiredPortion          *float64 `json:"desiredPortion,omitempty"`
	AvailableIngredientName string   `json:"availableIngredientName,omitempty"`
	AvailableWeight         *float64 `json:"availableWeight,omitempty"`
	AvailableUnit           string   `json:"availableUnit,omitempty"`
}

// ScaledIngredient is one line of a scale response
type ScaledIngredient struct {
	Name         string  `json:"name"`
	ScaledWeight float64 `json:"scaledWeight"`
	Unit         string  `json:"unit"`
}

// ScaleResponse is the success body for POST /api/scale
type ScaleResponse struct {
	ScaledIngredients []ScaledIngredient `json:"scaledIngredients"`
	Factor            float64            `json:"factor"`
	RecipeID          string             `json:"recipeId,omitempty"`
}

// ShareResponse is returned when a scaled recipe share link is created
type ShareResponse struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SharedScaleResponse is the body served for a share token
type SharedScaleResponse struct {
	ScaleResponse
	RecipeName  string         `json:"recipeName"`
	ScalingMode ScalingMode    `json:"scalingMode"`
	Parameter   ScaleParameter `json:"parameter"`
}

// RecipeRef resolves the recipe field into either an ID or an embedded recipe.
func (r *ScaleRequest) RecipeRef() (id string, embedded *Recipe, err error) {
	raw := bytes.TrimSpace(r.Recipe)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil, invalidParameter("recipe is required")
	}

	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &id); err != nil {
			return "", nil, invalidParameter("recipe id must be a string")
		}
		id = strings.TrimSpace(id)
		if id == "" {
			return "", nil, invalidParameter("recipe is required")
		}
		return id, nil, nil
	case '{':
		var rec Recipe
		if err := json.Unmarshal(raw, &rec); err != nil {
			return "", nil, invalidParameter("malformed embedded recipe: %v", err)
		}
		return "", &rec, nil
	default:
		return "", nil, invalidParameter("recipe must be an id or a recipe object")
	}
}

// Mode returns the scaling mode, inferring it from the parameter shape when
// the client omitted it.
func (r *ScaleRequest) Mode() ScalingMode {
	if r.ScalingMode != "" {
		return ScalingMode(strings.ToLower(strings.TrimSpace(string(r.ScalingMode))))
	}
	p := r.Parameter
	switch {
	case p.DesiredPortion != nil && p.AvailableWeight == nil:
		return ScalingModePortion
	case p.DesiredPortion == nil && (p.AvailableWeight != nil || p.AvailableIngredientName != ""):
		return ScalingModeAvailability
	}
	return ""
}

// ToScaling builds the engine request from the wire shape
func (r *ScaleRequest) ToScaling() (scaling.ScaleRequest, error) {
	return r.Parameter.ToScaling(r.Mode())
}

// ToScaling builds the engine request for the given mode
func (p ScaleParameter) ToScaling(mode ScalingMode) (scaling.ScaleRequest, error) {
	switch mode {
	case ScalingModePortion:
		if p.DesiredPortion == nil {
			return nil, invalidParameter("parameter.desiredPortion is required")
		}
		return scaling.ByPortion{DesiredPortion: *p.DesiredPortion}, nil
	case ScalingModeAvailability:
		if p.AvailableWeight == nil {
			return nil, invalidParameter("parameter.availableWeight is required")
		}
		var unit scaling.Unit
		if s := strings.TrimSpace(p.AvailableUnit); s != "" {
			parsed, ok := scaling.ParseUnit(s)
			if !ok {
				return nil, invalidParameter("unsupported unit %q", p.AvailableUnit)
			}
			unit = parsed
		}
		return scaling.ByAvailability{
			IngredientName:  p.AvailableIngredientName,
			AvailableWeight: *p.AvailableWeight,
			AvailableUnit:   unit,
		}, nil
	case "":
		return nil, invalidParameter("scalingMode is required")
	default:
		return nil, invalidParameter("unknown scalingMode %q", mode)
	}
}

// NewScaleResponse converts an engine result into the wire shape
func NewScaleResponse(recipeID string, res *scaling.ScaledResult) *ScaleResponse {
	out := make([]ScaledIngredient, len(res.Ingredients))
	for i, ing := range res.Ingredients {
		out[i] = ScaledIngredient{
			Name:         ing.Name,
			ScaledWeight: ing.ScaledWeight,
			Unit:         string(ing.Unit),
		}
	}
	return &ScaleResponse{
		ScaledIngredients: out,
		Factor:            res.Factor,
		RecipeID:          recipeID,
	}
}

func invalidParameter(format string, args ...any) *scaling.Error {
	return &scaling.Error{
		Kind:    scaling.ErrInvalidParameter,
		Message: fmt.Sprintf(format, args...),
	}
}
