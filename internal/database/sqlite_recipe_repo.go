package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/foxxcyber/recipe-scaler/internal/models"
)

const sqliteRecipeColumns = `id, name, original_portion, steps_json, image_key, created_at, updated_at`

// ListRecipes returns a page of recipes ordered by name
func (s *SQLiteDB) ListRecipes(ctx context.Context, params *models.RecipeListParams) ([]*models.Recipe, int, error) {
	p := limitParams(params)

	var args []interface{}
	whereClause := ""
	if p.Search != "" {
		whereClause = `WHERE fold(name) LIKE ? ESCAPE '\'`
		args = append(args, containsPattern(strings.ToLower(p.Search)))
	}

	var total int
	if err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM recipes "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	direction := "ASC"
	if p.Sort == models.RecipeSortDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`
SELECT %s
FROM recipes
%s
ORDER BY name COLLATE NOCASE %s, id
LIMIT ? OFFSET ?
`, sqliteRecipeColumns, whereClause, direction)
	args = append(args, p.Limit, p.Offset)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}

	recipes := make([]*models.Recipe, 0)
	for rows.Next() {
		r, err := scanSQLiteRecipe(rows)
		if err != nil {
			rows.Close()
			return nil, 0, err
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, 0, fmt.Errorf("iterate recipes: %w", err)
	}
	rows.Close()

	for _, r := range recipes {
		ingredients, err := sqliteIngredients(ctx, s.DB, r.ID)
		if err != nil {
			return nil, 0, err
		}
		r.Ingredients = ingredients
	}

	return recipes, total, nil
}

// GetRecipeByID retrieves a recipe with its ingredients
func (s *SQLiteDB) GetRecipeByID(ctx context.Context, id string) (*models.Recipe, error) {
	r, err := scanSQLiteRecipe(s.DB.QueryRowContext(ctx,
		`SELECT `+sqliteRecipeColumns+` FROM recipes WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	ingredients, err := sqliteIngredients(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	r.Ingredients = ingredients

	return r, nil
}

// CreateRecipe inserts a recipe and its ingredients in one transaction
func (s *SQLiteDB) CreateRecipe(ctx context.Context, req *models.CreateRecipeRequest) (*models.Recipe, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}

	steps, err := encodeSteps(req.Steps)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM recipes WHERE id = ?)`, id).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrRecipeExists
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO recipes (id, name, original_portion, steps_json, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`, id, req.Name, req.OriginalPortion, steps, now.UnixNano(), now.UnixNano()); err != nil {
			return err
		}
		return insertSQLiteIngredients(ctx, tx, id, req.Ingredients)
	})
	if err != nil {
		if errors.Is(err, ErrRecipeExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	return s.GetRecipeByID(ctx, id)
}

// UpdateRecipe replaces a recipe's fields and ingredient list
func (s *SQLiteDB) UpdateRecipe(ctx context.Context, id string, req *models.UpdateRecipeRequest) (*models.Recipe, error) {
	steps, err := encodeSteps(req.Steps)
	if err != nil {
		return nil, err
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE recipes
SET name = ?, original_portion = ?, steps_json = ?, updated_at = ?
WHERE id = ?
`, req.Name, req.OriginalPortion, steps, time.Now().UTC().UnixNano(), id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrRecipeNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = ?`, id); err != nil {
			return err
		}
		return insertSQLiteIngredients(ctx, tx, id, req.Ingredients)
	})
	if err != nil {
		if errors.Is(err, ErrRecipeNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update recipe: %w", err)
	}

	return s.GetRecipeByID(ctx, id)
}

// DeleteRecipe deletes a recipe and its ingredients
func (s *SQLiteDB) DeleteRecipe(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrRecipeNotFound
		}
		return nil
	})
}

// SetRecipeImage records (or clears, with nil) the object key of a recipe's image
func (s *SQLiteDB) SetRecipeImage(ctx context.Context, id string, imageKey *string) error {
	var key sql.NullString
	if imageKey != nil {
		key = sql.NullString{String: *imageKey, Valid: true}
	}
	res, err := s.DB.ExecContext(ctx,
		`UPDATE recipes SET image_key = ?, updated_at = ? WHERE id = ?`,
		key, time.Now().UTC().UnixNano(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

// GetRecipeStats returns aggregate statistics for recipes
func (s *SQLiteDB) GetRecipeStats(ctx context.Context) (*models.RecipeStats, error) {
	stats := &models.RecipeStats{}
	err := s.DB.QueryRowContext(ctx, `
SELECT
  (SELECT COUNT(*) FROM recipes),
  (SELECT COUNT(*) FROM recipe_ingredients),
  (SELECT COUNT(*) FROM recipes WHERE image_key IS NOT NULL)
`).Scan(&stats.TotalRecipes, &stats.TotalIngredients, &stats.WithImage)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *SQLiteDB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func insertSQLiteIngredients(ctx context.Context, tx *sql.Tx, recipeID string, ingredients []models.Ingredient) error {
	for i, ing := range ingredients {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO recipe_ingredients (recipe_id, position, name, weight, unit)
VALUES (?, ?, ?, ?, ?)
`, recipeID, i, ing.Name, ing.Weight, ing.Unit); err != nil {
			return err
		}
	}
	return nil
}

func sqliteIngredients(ctx context.Context, db *sql.DB, id string) ([]models.Ingredient, error) {
	rows, err := db.QueryContext(ctx, `
SELECT name, weight, unit
FROM recipe_ingredients
WHERE recipe_id = ?
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteRecipe(row rowScanner) (*models.Recipe, error) {
	var (
		r                  models.Recipe
		stepsJSON          string
		imageKey           sql.NullString
		createdAt, updated int64
	)
	if err := row.Scan(&r.ID, &r.Name, &r.OriginalPortion, &stepsJSON, &imageKey, &createdAt, &updated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(stepsJSON), &r.Steps); err != nil {
		return nil, fmt.Errorf("decode steps of recipe %s: %w", r.ID, err)
	}
	if r.Steps == nil {
		r.Steps = []string{}
	}
	if imageKey.Valid {
		key := imageKey.String
		r.ImageKey = &key
	}
	r.CreatedAt = time.Unix(0, createdAt).UTC()
	r.UpdatedAt = time.Unix(0, updated).UTC()
	r.Ingredients = []models.Ingredient{}
	return &r, nil
}

func encodeSteps(steps []string) (string, error) {
	if steps == nil {
		steps = []string{}
	}
	b, err := json.Marshal(steps)
	if err != nil {
		return "", fmt.Errorf("encode steps: %w", err)
	}
	return string(b), nil
}
