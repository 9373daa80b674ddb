package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/foxxcyber/recipe-scaler/internal/config"
	"github.com/foxxcyber/recipe-scaler/internal/database"
	"github.com/foxxcyber/recipe-scaler/internal/handlers"
	"github.com/foxxcyber/recipe-scaler/internal/services"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Connect to database and run migrations
	store, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open %s database: %v", cfg.DatabaseDriver, err)
	}
	defer store.Close()

	if cfg.IsProduction() && cfg.ShareSecret == config.DefaultShareSecret {
		log.Println("Warning: SHARE_SECRET is not set, share links use the default signing key")
	}
	shares := services.NewShareService(cfg.ShareSecret, cfg.ShareExpiry)

	// Initialize image storage (optional)
	var images services.ImageStore
	if cfg.ImageStorageConfigured() {
		storageService, err := services.NewStorageService(
			cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL,
		)
		if err != nil {
			log.Printf("Warning: Failed to initialize storage service: %v", err)
		} else {
			if err := storageService.EnsureBucket(context.Background()); err != nil {
				log.Printf("Warning: Failed to ensure S3 bucket exists: %v", err)
			}
			images = storageService
			log.Println("Recipe image storage initialized")
		}
	} else {
		log.Println("S3 not configured, recipe images disabled")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.AllowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept",
		AllowMethods:  "GET, POST, PUT, DELETE, OPTIONS",
		ExposeHeaders: "X-Total-Count",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	h := handlers.New(store, cfg, shares, images)
	h.RegisterRoutes(app)

	log.Printf("Server starting on port %s (%s, %s)", cfg.Port, cfg.DatabaseDriver, cfg.Environment)
	log.Fatal(app.Listen(":" + cfg.Port))
}
