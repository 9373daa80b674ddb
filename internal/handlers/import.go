package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/recipe-scaler/internal/models"
	"github.com/foxxcyber/recipe-scaler/internal/services"
)

const maxImportLines = 200

// ParseIngredients parses a pasted ingredient list into recipe ingredients
// POST /api/ingredients/parse
func (h *Handler) ParseIngredients(c *fiber.Ctx) error {
	var req models.IngredientImportRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if strings.TrimSpace(req.Content) == "" {
		return Error(c, fiber.StatusBadRequest, "content is required")
	}
	if strings.Count(req.Content, "\n") >= maxImportLines {
		return Error(c, fiber.StatusBadRequest, "too many lines")
	}

	ingredients, rejected := services.NewIngredientParser().ParseIngredients(req.Content)
	if len(ingredients) == 0 && len(rejected) == 0 {
		return Error(c, fiber.StatusBadRequest, "no ingredients found")
	}

	return Success(c, models.IngredientImportResponse{
		Ingredients: ingredients,
		Rejected:    rejected,
	})
}
