package usecase

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/calcthie/calcthie/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// Search paging bounds
const (
	defaultSearchLimit = 20
	maxSearchLimit     = 200
)

// FoodServiceConfig holds configuration for the food service
type FoodServiceConfig struct {
	CacheTTL time.Duration
}

// FoodService looks up foods through the catalog with a session cache in
// front of it. Food records are immutable, so a cached record is never stale.
// It implements domain.FoodLookup.
type FoodService struct {
	cache    domain.CacheRepository
	lookup   domain.FoodLookup
	cacheTTL time.Duration
}

// NewFoodService creates a new food service with dependencies
func NewFoodService(cache domain.CacheRepository, lookup domain.FoodLookup, config FoodServiceConfig) *FoodService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 720 * time.Hour // Default 30 days
	}

	return &FoodService{
		cache:    cache,
		lookup:   lookup,
		cacheTTL: cacheTTL,
	}
}

// SearchFoods searches the catalog. Results are cached per normalized query.
func (s *FoodService) SearchFoods(ctx context.Context, query domain.SearchQuery) ([]domain.FoodSearchResult, error) {
	query.Query = strings.TrimSpace(query.Query)
	if query.Query == "" || query.Offset < 0 || query.Limit < 0 {
		return nil, domain.ErrInvalidRequest
	}
	if query.Limit == 0 {
		query.Limit = defaultSearchLimit
	}
	if query.Limit > maxSearchLimit {
		query.Limit = maxSearchLimit
	}

	cacheKey := searchCacheKey(query)
	var cached []domain.FoodSearchResult
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	results, err := s.lookup.SearchFoods(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFoodLookupFailed, err)
	}

	if err := s.cache.Set(ctx, cacheKey, results, s.cacheTTL); err != nil {
		log.Printf("[Food] Failed to cache search results: %v", err)
	}
	return results, nil
}

// GetFoodDetails returns the full record for a food, from cache when possible
func (s *FoodService) GetFoodDetails(ctx context.Context, foodID int) (*domain.FoodRecord, error) {
	if foodID <= 0 {
		return nil, domain.ErrInvalidRequest
	}

	cacheKey := foodCacheKey(foodID)
	var cached domain.FoodRecord
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	food, err := s.lookup.GetFoodDetails(ctx, foodID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFoodLookupFailed, err)
	}

	if err := s.cache.Set(ctx, cacheKey, food, s.cacheTTL); err != nil {
		log.Printf("[Food] Failed to cache food %d: %v", foodID, err)
	}
	return food, nil
}

// foodCacheKey format: "food:{id}"
func foodCacheKey(foodID int) string {
	return fmt.Sprintf("food:%d", foodID)
}

// searchCacheKey format: "search:{normalized query}:{types}:{limit}:{offset}"
func searchCacheKey(query domain.SearchQuery) string {
	return fmt.Sprintf("search:%s:%s:%d:%d",
		normalizeForCacheKey(query.Query),
		strings.ToLower(strings.Join(query.DataTypes, ",")),
		query.Limit,
		query.Offset,
	)
}

// normalizeForCacheKey normalizes a string for use as cache key component.
// Converts to lowercase, removes special characters, and trims whitespace.
func normalizeForCacheKey(s string) string {
	if s == "" {
		return ""
	}
	result := strings.ToLower(s)
	result = nonAlphanumericRegex.ReplaceAllString(result, "")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}
