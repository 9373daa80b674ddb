package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/foxxcyber/recipe-scaler/internal/config"
	"github.com/foxxcyber/recipe-scaler/internal/models"
)

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrRecipeExists   = errors.New("recipe already exists")
)

// RecipeStore is the persistence layer behind the recipe API. Both the
// Postgres and the SQLite backends implement it.
type RecipeStore interface {
	ListRecipes(ctx context.Context, params *models.RecipeListParams) ([]*models.Recipe, int, error)
	GetRecipeByID(ctx context.Context, id string) (*models.Recipe, error)
	CreateRecipe(ctx context.Context, req *models.CreateRecipeRequest) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, req *models.UpdateRecipeRequest) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
	SetRecipeImage(ctx context.Context, id string, imageKey *string) error
	GetRecipeStats(ctx context.Context) (*models.RecipeStats, error)
	Close()
}

// Open connects to the backend selected by cfg.DatabaseDriver and applies
// its migrations.
func Open(cfg *config.Config) (RecipeStore, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres, "":
		db, err := Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := RunMigrations(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return db, nil
	case config.DriverSQLite:
		return OpenSQLite(context.Background(), cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DatabaseDriver)
	}
}

// limitParams clamps list parameters the same way for every backend
func limitParams(params *models.RecipeListParams) models.RecipeListParams {
	p := models.RecipeListParams{Limit: 50, Sort: models.RecipeSortAsc}
	if params != nil {
		p = *params
	}
	if p.Limit < 1 || p.Limit > 100 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Sort != models.RecipeSortDesc {
		p.Sort = models.RecipeSortAsc
	}
	return p
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching search literally anywhere
// in the column. Queries using it must declare ESCAPE '\'.
func containsPattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}
