package main

import (
	"context"
	"log"

	"github.com/foodgram-project/backend/config"
	"github.com/foodgram-project/backend/internal/api"
	"github.com/foodgram-project/backend/internal/database"
	"github.com/foodgram-project/backend/internal/router"
	"github.com/foodgram-project/backend/internal/server"
	"github.com/foodgram-project/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		// Logout token deny-listing degrades without Redis; everything
		// else keeps working.
		log.Printf("Redis unavailable, continuing without it: %v", err)
		redisClient = nil
	}

	var store service.ImageStore
	if cfg.StorageBackend == "s3" {
		s3Config, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			log.Fatalf("Failed to configure S3: %v", err)
		}
		if err := s3Config.SetupBucketPolicy(context.Background()); err != nil {
			log.Printf("Failed to apply bucket policy, images may not be publicly readable: %v", err)
		}
		store = service.NewS3ImageStore(s3Config)
	} else {
		store = service.NewLocalImageStore(cfg.MediaRoot, cfg.MediaURL)
	}

	authService := service.NewAuthService(db, redisClient, cfg.JWTSecret)
	userService := service.NewUserService(db)
	recipeService := service.NewRecipeService(db)
	shoppingService := service.NewShoppingListService(db)
	imageService := service.NewImageService(store)
	ingredientService := service.NewIngredientService(db)
	tagService := service.NewTagService(db)

	engine := router.SetupRouter(
		cfg,
		api.NewAuthHandler(authService),
		api.NewUserHandler(userService, authService, cfg),
		api.NewRecipeHandler(recipeService, userService, imageService, shoppingService, authService, cfg),
		api.NewIngredientHandler(ingredientService, authService),
		api.NewTagHandler(tagService, authService),
	)

	srv := server.NewServer(engine)
	log.Printf("Starting server on %s:%s", cfg.ServerHost, cfg.ServerPort)
	if err := srv.Start(cfg.ServerHost + ":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
