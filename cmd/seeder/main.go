package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/foxxcyber/recipe-scaler/internal/config"
	"github.com/foxxcyber/recipe-scaler/internal/database"
	"github.com/foxxcyber/recipe-scaler/internal/models"
)

// sampleRecipes is seeded when no -file is given
var sampleRecipes = []models.CreateRecipeRequest{
	{
		ID:              "sample-pancakes",
		Name:            "Pancakes",
		OriginalPortion: 4,
		Ingredients: []models.Ingredient{
			{Name: "Flour", Weight: 250, Unit: "g"},
			{Name: "Milk", Weight: 0.5, Unit: "l"},
			{Name: "Eggs", Weight: 2, Unit: "piece"},
			{Name: "Sugar", Weight: 30, Unit: "g"},
			{Name: "Butter", Weight: 40, Unit: "g"},
		},
		Steps: []string{
			"Whisk flour, sugar, milk and eggs into a smooth batter.",
			"Rest the batter for 15 minutes.",
			"Melt a little butter in a pan and fry ladles of batter until golden.",
		},
	},
	{
		ID:              "sample-bread",
		Name:            "Country Bread",
		OriginalPortion: 1,
		Ingredients: []models.Ingredient{
			{Name: "Flour", Weight: 1, Unit: "kg"},
			{Name: "Water", Weight: 700, Unit: "ml"},
			{Name: "Salt", Weight: 20, Unit: "g"},
			{Name: "Yeast", Weight: 7, Unit: "g"},
		},
		Steps: []string{
			"Mix everything and knead for 10 minutes.",
			"Proof until doubled, shape, and proof again.",
			"Bake at 230C for 40 minutes.",
		},
	},
	{
		ID:              "sample-tomato-soup",
		Name:            "Tomato Soup",
		OriginalPortion: 6,
		Ingredients: []models.Ingredient{
			{Name: "Tomatoes", Weight: 1.2, Unit: "kg"},
			{Name: "Onion", Weight: 2, Unit: "piece"},
			{Name: "Stock", Weight: 1, Unit: "l"},
			{Name: "Cream", Weight: 150, Unit: "ml"},
		},
		Steps: []string{
			"Soften the onions, add tomatoes and stock.",
			"Simmer for 25 minutes, blend, and finish with cream.",
		},
	},
}

func main() {
	// Command line flags
	dryRun := flag.Bool("dry-run", false, "Preview changes without writing to database")
	localFile := flag.String("file", "", "Load recipes from a JSON file instead of the built-in samples")
	flag.Parse()

	// Load .env
	godotenv.Load()

	// Load config
	cfg := config.Load()

	recipes := sampleRecipes
	if *localFile != "" {
		loaded, err := loadRecipes(*localFile)
		if err != nil {
			log.Fatalf("Failed to load recipes: %v", err)
		}
		recipes = loaded
		log.Printf("Reading from local file: %s", *localFile)
	}

	// Validate everything before touching the database
	for i := range recipes {
		if err := recipes[i].Normalize(); err != nil {
			log.Fatalf("Recipe #%d (%s): %v", i+1, recipes[i].Name, err)
		}
	}

	if *dryRun {
		log.Println("DRY RUN - no changes will be made")
		for _, r := range recipes {
			fmt.Printf("  %-24s portion=%g ingredients=%d steps=%d\n", r.Name, r.OriginalPortion, len(r.Ingredients), len(r.Steps))
		}
		log.Printf("Would seed %d recipes", len(recipes))
		return
	}

	store, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open %s database: %v", cfg.DatabaseDriver, err)
	}
	defer store.Close()

	created, skipped, err := seed(context.Background(), store, recipes)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeding complete: %d created, %d already present", created, skipped)
}

func loadRecipes(path string) ([]models.CreateRecipeRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var recipes []models.CreateRecipeRequest
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(recipes) == 0 {
		return nil, fmt.Errorf("%s contains no recipes", path)
	}
	return recipes, nil
}

// seed inserts recipes, skipping any whose ID already exists
func seed(ctx context.Context, store database.RecipeStore, recipes []models.CreateRecipeRequest) (created, skipped int, err error) {
	for i := range recipes {
		r, err := store.CreateRecipe(ctx, &recipes[i])
		if errors.Is(err, database.ErrRecipeExists) {
			skipped++
			continue
		}
		if err != nil {
			return created, skipped, fmt.Errorf("recipe %q: %w", recipes[i].Name, err)
		}
		created++
		log.Printf("Created recipe %s (%s)", r.Name, r.ID)
	}
	return created, skipped, nil
}
