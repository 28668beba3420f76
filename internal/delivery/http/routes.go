package http

import (
	"github.com/calcthie/calcthie/config"
	"github.com/gin-gonic/gin"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	switch cfg.Server.Environment {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		foods := v1.Group("/foods")
		{
			foods.GET("/search", handler.SearchFoods)
			foods.GET("/:fdcId", handler.GetFood)
			foods.GET("/:fdcId/portions", handler.GetFoodPortions)
		}

		v1.POST("/meals/evaluate", handler.EvaluateMeal)

		share := v1.Group("/share")
		{
			share.POST("/encode", handler.EncodeShare)
			share.GET("/decode", handler.DecodeShare)
		}

		v1.GET("/shared-meal", handler.GetSharedMeal)
	}

	return router
}
