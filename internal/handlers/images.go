package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/recipe-scaler/internal/services"
)

const imageURLExpiry = time.Hour

// UploadRecipeImage attaches a photo to a recipe, replacing any previous one
func (h *Handler) UploadRecipeImage(c *fiber.Ctx) error {
	id, ok := recipeIDParam(c)
	if !ok {
		return Error(c, fiber.StatusBadRequest, "invalid recipe id")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "image file is required")
	}

	contentType := file.Header.Get("Content-Type")
	if !services.IsValidImageType(contentType) {
		return Error(c, fiber.StatusBadRequest, "invalid image type. Supported: JPEG, PNG, WebP")
	}

	maxBytes := int64(h.cfg.MaxImageMB) * 1024 * 1024
	if file.Size > maxBytes {
		return Error(c, fiber.StatusBadRequest, fmt.Sprintf("file too large. Maximum size is %dMB", h.cfg.MaxImageMB))
	}

	if _, err := h.store.GetRecipeByID(c.Context(), id); err != nil {
		return h.recipeLookupError(c, err)
	}

	src, err := file.Open()
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to read file")
	}
	defer src.Close()

	key := services.RecipeImageKey(id, file.Filename, time.Now())
	if _, err := h.images.Upload(c.Context(), key, src, file.Size, contentType); err != nil {
		log.Printf("Failed to upload image for recipe %s: %v", id, err)
		return Error(c, fiber.StatusInternalServerError, "failed to upload image")
	}

	if err := h.store.SetRecipeImage(c.Context(), id, &key); err != nil {
		if deleteErr := h.images.Delete(c.Context(), key); deleteErr != nil {
			log.Printf("Warning: Failed to clean up image %s after update failure: %v", key, deleteErr)
		}
		return h.recipeLookupError(c, err)
	}

	h.purgeRecipeImages(c, id, key)

	url, err := h.images.GetPresignedURL(c.Context(), key, imageURLExpiry)
	if err != nil {
		log.Printf("Warning: Failed to presign image %s: %v", key, err)
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data: fiber.Map{
			"imageKey": key,
			"url":      url,
		},
	})
}

// GetRecipeImage returns a presigned URL for the recipe image
func (h *Handler) GetRecipeImage(c *fiber.Ctx) error {
	id, ok := recipeIDParam(c)
	if !ok {
		return Error(c, fiber.StatusBadRequest, "invalid recipe id")
	}

	recipe, err := h.store.GetRecipeByID(c.Context(), id)
	if err != nil {
		return h.recipeLookupError(c, err)
	}
	if recipe.ImageKey == nil {
		return Error(c, fiber.StatusNotFound, "recipe has no image")
	}

	// Generate presigned URL (valid for 1 hour)
	url, err := h.images.GetPresignedURL(c.Context(), *recipe.ImageKey, imageURLExpiry)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to generate image URL")
	}

	return Success(c, fiber.Map{"url": url})
}
