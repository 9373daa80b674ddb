package handlers

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/recipe-scaler/internal/database"
	"github.com/foxxcyber/recipe-scaler/internal/models"
	"github.com/foxxcyber/recipe-scaler/internal/services"
)

const maxRecipeIDLength = 64

// ListRecipes returns recipes as a bare JSON array, which is what the mobile
// client expects. The total count goes in the X-Total-Count header.
func (h *Handler) ListRecipes(c *fiber.Ctx) error {
	params := &models.RecipeListParams{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
		Search: strings.TrimSpace(c.Query("search")),
		Sort:   models.RecipeSort(strings.ToLower(c.Query("sort", "asc"))),
	}

	// Validate limits
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 50
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	if params.Sort != models.RecipeSortAsc && params.Sort != models.RecipeSortDesc {
		return Error(c, fiber.StatusBadRequest, "sort must be asc or desc")
	}

	recipes, total, err := h.store.ListRecipes(c.Context(), params)
	if err != nil {
		log.Printf("Failed to list recipes: %v", err)
		return Error(c, fiber.StatusInternalServerError, "failed to list recipes")
	}

	c.Set("X-Total-Count", strconv.Itoa(total))
	return c.JSON(recipes)
}

// GetRecipe returns a single recipe by ID
func (h *Handler) GetRecipe(c *fiber.Ctx) error {
	id, ok := recipeIDParam(c)
	if !ok {
		return Error(c, fiber.StatusBadRequest, "invalid recipe id")
	}

	recipe, err := h.store.GetRecipeByID(c.Context(), id)
	if err != nil {
		return h.recipeLookupError(c, err)
	}

	return c.JSON(recipe)
}

// CreateRecipe creates a recipe. A client-supplied _id is kept, so a
// recently deleted recipe can be restored by posting it again.
func (h *Handler) CreateRecipe(c *fiber.Ctx) error {
	var req models.CreateRecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.ID = strings.TrimSpace(req.ID)
	if len(req.ID) > maxRecipeIDLength {
		return Error(c, fiber.StatusBadRequest, "invalid recipe id")
	}
	if err := req.Normalize(); err != nil {
		return ErrorWithCode(c, fiber.StatusBadRequest, CodeInvalidRecipe, err.Error())
	}

	recipe, err := h.store.CreateRecipe(c.Context(), &req)
	if err != nil {
		if errors.Is(err, database.ErrRecipeExists) {
			return ErrorWithCode(c, fiber.StatusConflict, CodeRecipeExists, "recipe already exists")
		}
		log.Printf("Failed to create recipe: %v", err)
		return Error(c, fiber.StatusInternalServerError, "failed to create recipe")
	}

	return c.Status(fiber.StatusCreated).JSON(recipe)
}

// UpdateRecipe replaces an existing recipe
func (h *Handler) UpdateRecipe(c *fiber.Ctx) error {
	id, ok := recipeIDParam(c)
	if !ok {
		return Error(c, fiber.StatusBadRequest, "invalid recipe id")
	}

	var req models.UpdateRecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Normalize(); err != nil {
		return ErrorWithCode(c, fiber.StatusBadRequest, CodeInvalidRecipe, err.Error())
	}

	recipe, err := h.store.UpdateRecipe(c.Context(), id, &req)
	if err != nil {
		return h.recipeLookupError(c, err)
	}

	return c.JSON(recipe)
}

// DeleteRecipe deletes a recipe and any stored images
func (h *Handler) DeleteRecipe(c *fiber.Ctx) error {
	id, ok := recipeIDParam(c)
	if !ok {
		return Error(c, fiber.StatusBadRequest, "invalid recipe id")
	}

	if err := h.store.DeleteRecipe(c.Context(), id); err != nil {
		return h.recipeLookupError(c, err)
	}

	// Image cleanup failures don't fail the delete
	if h.images != nil {
		h.purgeRecipeImages(c, id, "")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "recipe deleted successfully",
	})
}

// GetRecipeStats returns aggregate recipe statistics
func (h *Handler) GetRecipeStats(c *fiber.Ctx) error {
	stats, err := h.store.GetRecipeStats(c.Context())
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to get recipe stats")
	}

	return Success(c, stats)
}

func (h *Handler) recipeLookupError(c *fiber.Ctx, err error) error {
	if errors.Is(err, database.ErrRecipeNotFound) {
		return ErrorWithCode(c, fiber.StatusNotFound, CodeRecipeNotFound, "recipe not found")
	}
	log.Printf("Recipe lookup failed: %v", err)
	return Error(c, fiber.StatusInternalServerError, "failed to load recipe")
}

// purgeRecipeImages removes every stored image of a recipe except keep
func (h *Handler) purgeRecipeImages(c *fiber.Ctx, recipeID, keep string) {
	keys, err := h.images.ListKeys(c.Context(), services.RecipeImagePrefix(recipeID))
	if err != nil {
		log.Printf("Warning: Failed to list images for recipe %s: %v", recipeID, err)
		return
	}

	stale := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != keep {
			stale = append(stale, k)
		}
	}
	if len(stale) == 0 {
		return
	}

	if err := h.images.DeleteMultiple(c.Context(), stale); err != nil {
		log.Printf("Warning: Failed to delete images for recipe %s: %v", recipeID, err)
	}
}

func recipeIDParam(c *fiber.Ctx) (string, bool) {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" || len(id) > maxRecipeIDLength {
		return "", false
	}
	return id, true
}
