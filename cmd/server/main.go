package main

import (
	"fmt"
	"log"
	"os"

	"github.com/calcthie/calcthie/config"
	httpDelivery "github.com/calcthie/calcthie/internal/delivery/http"
	"github.com/calcthie/calcthie/internal/infrastructure/cache"
	"github.com/calcthie/calcthie/internal/infrastructure/usda"
	"github.com/calcthie/calcthie/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Calcthie API v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache()
	defer memoryCache.Close()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	usdaClient := usda.NewClientWithLimit(cfg.USDA.APIKey, cfg.USDA.BaseURL, cfg.RateLimit.USDA)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		usdaClient.SetDebug(true)
		log.Printf("USDA client debug mode enabled")
	}
	log.Printf("USDA API configured: %s (key: %s)", cfg.USDA.BaseURL, maskKey(cfg.USDA.APIKey))

	// Initialize usecase layer
	foodService := usecase.NewFoodService(memoryCache, usdaClient, usecase.FoodServiceConfig{
		CacheTTL: cfg.Cache.TTL,
	})

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(foodService, cfg.Server.PublicBaseURL)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// maskKey shows only the first characters of an API key
func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:8] + "..."
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
