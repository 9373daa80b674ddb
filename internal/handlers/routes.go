package handlers

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts the recipe and scaling API on router
func (h *Handler) RegisterRoutes(router fiber.Router) {
	api := router.Group("/api")

	// Recipe routes
	recipes := api.Group("/recipes")
	recipes.Get("/", h.ListRecipes)
	recipes.Post("/", h.CreateRecipe)
	recipes.Get("/stats", h.GetRecipeStats)
	recipes.Get("/:id", h.GetRecipe)
	recipes.Put("/:id", h.UpdateRecipe)
	recipes.Delete("/:id", h.DeleteRecipe)

	// Image routes, only if image storage is available
	if h.images != nil {
		recipes.Post("/:id/image", h.UploadRecipeImage)
		recipes.Get("/:id/image", h.GetRecipeImage)
	}

	// Ingredient list import
	api.Post("/ingredients/parse", h.ParseIngredients)

	// Scaling routes
	api.Post("/scale", h.ScaleRecipe)
	api.Post("/scale/share", h.CreateShareLink)

	// Public share routes
	api.Get("/share/:token", h.GetSharedScale)
}
