package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/recipe-scaler/internal/config"
	"github.com/foxxcyber/recipe-scaler/internal/database"
	"github.com/foxxcyber/recipe-scaler/internal/scaling"
	"github.com/foxxcyber/recipe-scaler/internal/services"
)

// Handler holds all handler dependencies
type Handler struct {
	store  database.RecipeStore
	cfg    *config.Config
	shares *services.ShareService
	images services.ImageStore
}

// New creates a new Handler instance. images may be nil when image storage
// is disabled; the image routes are then not registered.
func New(store database.RecipeStore, cfg *config.Config, shares *services.ShareService, images services.ImageStore) *Handler {
	return &Handler{
		store:  store,
		cfg:    cfg,
		shares: shares,
		images: images,
	}
}

// Error codes that are not scaling error kinds
const (
	CodeRecipeNotFound    = "RECIPE_NOT_FOUND"
	CodeRecipeExists      = "RECIPE_EXISTS"
	CodeInvalidRecipe     = "INVALID_RECIPE"
	CodeInvalidShareToken = "INVALID_SHARE_TOKEN"
	CodeInternal          = "INTERNAL"
)

// ErrorHandler is a custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Default to 500
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	// Check if it's a Fiber error
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}

// APIResponse is a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta contains pagination metadata
type Meta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Success returns a successful response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMeta returns a successful response with pagination
func SuccessWithMeta(c *fiber.Ctx, data interface{}, total, limit, offset int) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:  total,
			Limit:  limit,
			Offset: offset,
		},
	})
}

// Error returns an error response
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

// ErrorWithCode returns an error response carrying a machine-readable code
func ErrorWithCode(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
		Code:    code,
	})
}

// ScaleError renders a scaling failure with the status for its kind.
// Anything that is not a *scaling.Error is reported as a 500.
func ScaleError(c *fiber.Ctx, err error) error {
	var se *scaling.Error
	if !errors.As(err, &se) {
		return ErrorWithCode(c, fiber.StatusInternalServerError, CodeInternal, "failed to scale recipe")
	}
	return ErrorWithCode(c, scaleErrorStatus(se), se.Code(), se.Error())
}

func scaleErrorStatus(err error) int {
	switch {
	case errors.Is(err, scaling.ErrInvalidParameter):
		return fiber.StatusBadRequest
	case errors.Is(err, scaling.ErrIngredientNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, scaling.ErrIncompatibleUnits),
		errors.Is(err, scaling.ErrInvalidQuantity),
		errors.Is(err, scaling.ErrEmptyRecipe):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
