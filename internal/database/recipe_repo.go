package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/foxxcyber/recipe-scaler/internal/models"
)

const recipeColumns = `r.id, r.name, r.original_portion, r.steps, r.image_key, r.created_at, r.updated_at`

// ListRecipes returns a page of recipes ordered by name
func (db *DB) ListRecipes(ctx context.Context, params *models.RecipeListParams) ([]*models.Recipe, int, error) {
	p := limitParams(params)

	var args []interface{}
	whereClause := ""
	argIndex := 1
	if p.Search != "" {
		whereClause = fmt.Sprintf(`WHERE r.name ILIKE $%d ESCAPE '\'`, argIndex)
		args = append(args, containsPattern(p.Search))
		argIndex++
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM recipes r %s", whereClause)
	if err := db.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	direction := "ASC"
	if p.Sort == models.RecipeSortDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM recipes r
		%s
		ORDER BY LOWER(r.name) %s, r.id
		LIMIT $%d OFFSET $%d
	`, recipeColumns, whereClause, direction, argIndex, argIndex+1)
	args = append(args, p.Limit, p.Offset)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]*models.Recipe, 0)
	byID := make(map[string]*models.Recipe)
	ids := make([]string, 0)
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, 0, err
		}
		recipes = append(recipes, r)
		byID[r.ID] = r
		ids = append(ids, r.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate recipes: %w", err)
	}

	if len(ids) == 0 {
		return recipes, total, nil
	}

	ingRows, err := db.Pool.Query(ctx, `
		SELECT recipe_id, name, weight, unit
		FROM recipe_ingredients
		WHERE recipe_id = ANY($1)
		ORDER BY recipe_id, position
	`, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("list recipe ingredients: %w", err)
	}
	defer ingRows.Close()

	for ingRows.Next() {
		var recipeID string
		var ing models.Ingredient
		if err := ingRows.Scan(&recipeID, &ing.Name, &ing.Weight, &ing.Unit); err != nil {
			return nil, 0, fmt.Errorf("scan recipe ingredient: %w", err)
		}
		if r, ok := byID[recipeID]; ok {
			r.Ingredients = append(r.Ingredients, ing)
		}
	}
	if err := ingRows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate recipe ingredients: %w", err)
	}

	return recipes, total, nil
}

// GetRecipeByID retrieves a recipe with its ingredients
func (db *DB) GetRecipeByID(ctx context.Context, id string) (*models.Recipe, error) {
	r, err := scanRecipe(db.Pool.QueryRow(ctx, `
		SELECT `+recipeColumns+`
		FROM recipes r
		WHERE r.id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	ingredients, err := db.recipeIngredients(ctx, db.Pool, id)
	if err != nil {
		return nil, err
	}
	r.Ingredients = ingredients

	return r, nil
}

// CreateRecipe inserts a recipe and its ingredients in one transaction
func (db *DB) CreateRecipe(ctx context.Context, req *models.CreateRecipeRequest) (*models.Recipe, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}

	var r *models.Recipe
	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		var err error
		r, err = scanRecipe(tx.QueryRow(ctx, `
			INSERT INTO recipes AS r (id, name, original_portion, steps, created_at, updated_at)
			VALUES ($1, $2, $3, $4, NOW(), NOW())
			RETURNING `+recipeColumns,
			id, req.Name, req.OriginalPortion, nonNilSteps(req.Steps)))
		if err != nil {
			return err
		}
		if err := insertIngredients(ctx, tx, id, req.Ingredients); err != nil {
			return err
		}
		r.Ingredients = append([]models.Ingredient(nil), req.Ingredients...)
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrRecipeExists
		}
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	return r, nil
}

// UpdateRecipe replaces a recipe's fields and ingredient list
func (db *DB) UpdateRecipe(ctx context.Context, id string, req *models.UpdateRecipeRequest) (*models.Recipe, error) {
	var r *models.Recipe
	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		var err error
		r, err = scanRecipe(tx.QueryRow(ctx, `
			UPDATE recipes AS r
			SET name = $2,
			    original_portion = $3,
			    steps = $4,
			    updated_at = NOW()
			WHERE r.id = $1
			RETURNING `+recipeColumns,
			id, req.Name, req.OriginalPortion, nonNilSteps(req.Steps)))
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, id); err != nil {
			return err
		}
		if err := insertIngredients(ctx, tx, id, req.Ingredients); err != nil {
			return err
		}
		r.Ingredients = append([]models.Ingredient(nil), req.Ingredients...)
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("update recipe: %w", err)
	}

	return r, nil
}

// DeleteRecipe deletes a recipe; ingredients cascade
func (db *DB) DeleteRecipe(ctx context.Context, id string) error {
	result, err := db.Pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}

	return nil
}

// SetRecipeImage records (or clears, with nil) the object key of a recipe's image
func (db *DB) SetRecipeImage(ctx context.Context, id string, imageKey *string) error {
	result, err := db.Pool.Exec(ctx, `
		UPDATE recipes SET image_key = $2, updated_at = NOW() WHERE id = $1
	`, id, imageKey)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}

	return nil
}

// GetRecipeStats returns aggregate statistics for recipes
func (db *DB) GetRecipeStats(ctx context.Context) (*models.RecipeStats, error) {
	stats := &models.RecipeStats{}

	err := db.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*) as total_recipes,
			(SELECT COUNT(*) FROM recipe_ingredients) as total_ingredients,
			COUNT(*) FILTER (WHERE image_key IS NOT NULL) as with_image
		FROM recipes
	`).Scan(&stats.TotalRecipes, &stats.TotalIngredients, &stats.WithImage)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (db *DB) recipeIngredients(ctx context.Context, q querier, id string) ([]models.Ingredient, error) {
	rows, err := q.Query(ctx, `
		SELECT name, weight, unit
		FROM recipe_ingredients
		WHERE recipe_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := make([]models.Ingredient, 0)
	for rows.Next() {
		var ing models.Ingredient
		if err := rows.Scan(&ing.Name, &ing.Weight, &ing.Unit); err != nil {
			return nil, fmt.Errorf("scan recipe ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}

	return ingredients, rows.Err()
}

func insertIngredients(ctx context.Context, tx pgx.Tx, recipeID string, ingredients []models.Ingredient) error {
	batch := &pgx.Batch{}
	for i, ing := range ingredients {
		batch.Queue(`
			INSERT INTO recipe_ingredients (recipe_id, position, name, weight, unit)
			VALUES ($1, $2, $3, $4, $5)
		`, recipeID, i, ing.Name, ing.Weight, ing.Unit)
	}
	return tx.SendBatch(ctx, batch).Close()
}

func scanRecipe(row pgx.Row) (*models.Recipe, error) {
	r := &models.Recipe{}
	err := row.Scan(&r.ID, &r.Name, &r.OriginalPortion, &r.Steps, &r.ImageKey, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if r.Steps == nil {
		r.Steps = []string{}
	}
	r.Ingredients = []models.Ingredient{}
	return r, nil
}

func nonNilSteps(steps []string) []string {
	if steps == nil {
		return []string{}
	}
	return steps
}
