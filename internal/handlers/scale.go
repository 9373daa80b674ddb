package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/recipe-scaler/internal/models"
	"github.com/foxxcyber/recipe-scaler/internal/scaling"
)

// ScaleRecipe scales a stored or embedded recipe. The success body is
// {"scaledIngredients": [...]} with weights in each ingredient's own unit.
func (h *Handler) ScaleRecipe(c *fiber.Ctx) error {
	var req models.ScaleRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrorWithCode(c, fiber.StatusBadRequest, scaling.Code(scaling.ErrInvalidParameter), "invalid request body")
	}

	recipe, err := h.resolveScaleRecipe(c, &req)
	if err != nil {
		return h.scaleFailure(c, err)
	}

	scaleReq, err := req.ToScaling()
	if err != nil {
		return ScaleError(c, err)
	}

	result, err := scaling.Scale(recipe.ToScaling(), scaleReq)
	if err != nil {
		return ScaleError(c, err)
	}

	return c.JSON(models.NewScaleResponse(recipe.ID, result))
}

// CreateShareLink validates a scale request against a stored recipe and
// returns a signed link that replays it.
func (h *Handler) CreateShareLink(c *fiber.Ctx) error {
	var req models.ScaleRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrorWithCode(c, fiber.StatusBadRequest, scaling.Code(scaling.ErrInvalidParameter), "invalid request body")
	}

	id, embedded, err := req.RecipeRef()
	if err != nil {
		return ScaleError(c, err)
	}
	if embedded != nil {
		return ErrorWithCode(c, fiber.StatusBadRequest, scaling.Code(scaling.ErrInvalidParameter),
			"share links require a stored recipe id")
	}

	recipe, err := h.store.GetRecipeByID(c.Context(), id)
	if err != nil {
		return h.recipeLookupError(c, err)
	}

	scaleReq, err := req.ToScaling()
	if err != nil {
		return ScaleError(c, err)
	}
	if _, err := scaling.Scale(recipe.ToScaling(), scaleReq); err != nil {
		return ScaleError(c, err)
	}

	token, expiresAt, err := h.shares.Issue(recipe.ID, req.Mode(), req.Parameter)
	if err != nil {
		log.Printf("Failed to issue share token: %v", err)
		return Error(c, fiber.StatusInternalServerError, "failed to create share link")
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data: models.ShareResponse{
			Token:     token,
			URL:       h.shareURL(c, token),
			ExpiresAt: expiresAt,
		},
	})
}

// GetSharedScale recomputes the scaled recipe a share token points at
func (h *Handler) GetSharedScale(c *fiber.Ctx) error {
	claims, err := h.shares.Parse(c.Params("token"))
	if err != nil {
		return ErrorWithCode(c, fiber.StatusBadRequest, CodeInvalidShareToken, err.Error())
	}

	recipe, err := h.store.GetRecipeByID(c.Context(), claims.RecipeID)
	if err != nil {
		return h.recipeLookupError(c, err)
	}

	scaleReq, err := claims.Parameter.ToScaling(claims.Mode)
	if err != nil {
		return ScaleError(c, err)
	}

	// The recipe may have changed since the link was issued
	result, err := scaling.Scale(recipe.ToScaling(), scaleReq)
	if err != nil {
		return ScaleError(c, err)
	}

	return Success(c, models.SharedScaleResponse{
		ScaleResponse: *models.NewScaleResponse(recipe.ID, result),
		RecipeName:    recipe.Name,
		ScalingMode:   claims.Mode,
		Parameter:     claims.Parameter,
	})
}

// resolveScaleRecipe returns the embedded recipe or loads the referenced one
func (h *Handler) resolveScaleRecipe(c *fiber.Ctx, req *models.ScaleRequest) (*models.Recipe, error) {
	id, embedded, err := req.RecipeRef()
	if err != nil {
		return nil, err
	}
	if embedded != nil {
		return embedded, nil
	}
	return h.store.GetRecipeByID(c.Context(), id)
}

func (h *Handler) scaleFailure(c *fiber.Ctx, err error) error {
	var se *scaling.Error
	if errors.As(err, &se) {
		return ScaleError(c, err)
	}
	return h.recipeLookupError(c, err)
}

func (h *Handler) shareURL(c *fiber.Ctx, token string) string {
	base := strings.TrimRight(h.cfg.PublicBaseURL, "/")
	if base == "" {
		base = c.BaseURL()
	}
	return base + "/api/share/" + token
}
