package api

import (
	"alcyxob/recipe-app/internal/service"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Dependencies groups what SetupRoutes wires into the router.
type Dependencies struct {
	RecipeService  service.RecipeService
	Verifier       *TokenVerifier
	AllowedOrigins []string
	// RateLimiter is optional.
	RateLimiter *RateLimiter
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	recipeHandler := NewRecipeHandler(deps.RecipeService)

	router.Use(corsMiddleware(deps.AllowedOrigins))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	protected := router.Group("")
	protected.Use(AuthMiddleware(deps.Verifier))
	if deps.RateLimiter != nil {
		protected.Use(deps.RateLimiter.Middleware())
	}

	recipes := protected.Group("/recipes")
	{
		recipes.GET("", recipeHandler.GetRecipes)
		recipes.POST("", recipeHandler.CreateRecipe)
		recipes.PATCH("/:recipeId", recipeHandler.UpdateRecipe)
		recipes.DELETE("/:recipeId", recipeHandler.DeleteRecipe)
		recipes.POST("/:recipeId/attachment", recipeHandler.CreateAttachmentURL)
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		// credentials cannot be combined with a literal "*", so echo the origin back
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowCredentials = true
	return cors.New(cfg)
}
