package router

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/foodgram-project/backend/config"
	"github.com/foodgram-project/backend/internal/api"
	"github.com/foodgram-project/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	cfg *config.Config,
	authHandler *api.AuthHandler,
	userHandler *api.UserHandler,
	recipeHandler *api.RecipeHandler,
	ingredientHandler *api.IngredientHandler,
	tagHandler *api.TagHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), middleware.Recovery(), middleware.CORS())

	// Locally stored recipe images are served straight from the media dir.
	if cfg.StorageBackend == "local" {
		router.Static(strings.TrimSuffix(cfg.MediaURL, "/"), cfg.MediaRoot)
	}

	v1 := router.Group("/api")
	authHandler.RegisterRoutes(v1)
	userHandler.RegisterRoutes(v1)
	recipeHandler.RegisterRoutes(v1)
	ingredientHandler.RegisterRoutes(v1)
	tagHandler.RegisterRoutes(v1)

	return router
}
