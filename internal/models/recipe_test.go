package models

import (
	"errors"
	"math"
	"testing"

	"github.com/foxxcyber/recipe-scaler/internal/scaling"
)

func TestCreateRecipeRequestNormalize(t *testing.T) {
	req := CreateRecipeRequest{
		Name:            "  Pancakes ",
		OriginalPortion: 4,
		Ingredients: []Ingredient{
			{Name: " Flour ", Weight: 250, Unit: "grams"},
			{Name: "Milk", Weight: 0.5, Unit: "Litre"},
			{Name: "Eggs", Weight: 2, Unit: "pcs"},
		},
		Steps: []string{" Whisk ", "", "   ", "Fry"},
	}

	if err := req.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if req.Name != "Pancakes" {
		t.Errorf("name = %q", req.Name)
	}
	wantUnits := []string{"g", "l", "piece"}
	for i, ing := range req.Ingredients {
		if ing.Unit != wantUnits[i] {
			t.Errorf("ingredient %d unit = %q, want %q", i, ing.Unit, wantUnits[i])
		}
	}
	if req.Ingredients[0].Name != "Flour" {
		t.Errorf("ingredient name not trimmed: %q", req.Ingredients[0].Name)
	}
	if len(req.Steps) != 2 || req.Steps[0] != "Whisk" || req.Steps[1] != "Fry" {
		t.Errorf("steps = %q", req.Steps)
	}
}

func TestNormalizeRejectsInvalidRecipes(t *testing.T) {
	valid := func() UpdateRecipeRequest {
		return UpdateRecipeRequest{
			Name:            "Bread",
			OriginalPortion: 1,
			Ingredients:     []Ingredient{{Name: "Flour", Weight: 500, Unit: "g"}},
		}
	}

	tests := []struct {
		name   string
		mutate func(r *UpdateRecipeRequest)
	}{
		{"blank name", func(r *UpdateRecipeRequest) { r.Name = "  " }},
		{"zero portion", func(r *UpdateRecipeRequest) { r.OriginalPortion = 0 }},
		{"NaN portion", func(r *UpdateRecipeRequest) { r.OriginalPortion = math.NaN() }},
		{"no ingredients", func(r *UpdateRecipeRequest) { r.Ingredients = nil }},
		{"blank ingredient name", func(r *UpdateRecipeRequest) { r.Ingredients[0].Name = "" }},
		{"negative weight", func(r *UpdateRecipeRequest) { r.Ingredients[0].Weight = -1 }},
		{"infinite weight", func(r *UpdateRecipeRequest) { r.Ingredients[0].Weight = math.Inf(1) }},
		{"unknown unit", func(r *UpdateRecipeRequest) { r.Ingredients[0].Unit = "cup" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(&r)
			if err := r.Normalize(); !errors.Is(err, ErrInvalidRecipe) {
				t.Fatalf("expected ErrInvalidRecipe, got %v", err)
			}
		})
	}
}

func TestRecipeToScaling(t *testing.T) {
	r := &Recipe{
		ID:              "r1",
		Name:            "Shortbread",
		OriginalPortion: 4,
		Ingredients: []Ingredient{
			{Name: "Flour", Weight: 200, Unit: "G"},
			{Name: "Spice", Weight: 1, Unit: "pinch"},
		},
		Steps: []string{"Bake"},
	}

	got := r.ToScaling()
	if got.ID != "r1" || got.OriginalPortion != 4 || len(got.Steps) != 1 {
		t.Fatalf("unexpected conversion: %+v", got)
	}
	if got.Ingredients[0].Unit != scaling.Gram {
		t.Errorf("unit = %q, want g", got.Ingredients[0].Unit)
	}
	if got.Ingredients[1].Unit != scaling.Unit("pinch") {
		t.Errorf("unknown unit should pass through, got %q", got.Ingredients[1].Unit)
	}

	if _, err := scaling.Scale(got, scaling.ByPortion{DesiredPortion: 2}); !errors.Is(err, scaling.ErrInvalidParameter) {
		t.Fatalf("engine should reject the pass-through unit, got %v", err)
	}
}
