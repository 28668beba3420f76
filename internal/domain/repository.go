package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Get decodes the cached value into dest.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// FoodLookup defines the interface for the food catalog
type FoodLookup interface {
	SearchFoods(ctx context.Context, query SearchQuery) ([]FoodSearchResult, error)
	GetFoodDetails(ctx context.Context, foodID int) (*FoodRecord, error)
}

// LocalStore is the on-device cache. Load reports false when the key is absent.
type LocalStore interface {
	Save(ctx context.Context, key string, value interface{}) error
	Load(ctx context.Context, key string, dest interface{}) (bool, error)
	Remove(ctx context.Context, key string) error
}

// RemoteStore is the per-user backend mirror of meal and favorites state
type RemoteStore interface {
	GetCurrentMeal(ctx context.Context, userID string) ([]MealItem, error)
	PutCurrentMeal(ctx context.Context, userID string, items []MealItem) error
	GetFavorites(ctx context.Context, userID string) ([]int, error)
	PutFavorites(ctx context.Context, userID string, foodIDs []int) error
	CreateConsumedMeal(ctx context.Context, userID string, req ConsumedMealRequest) (*ConsumedMeal, error)
	ListConsumedMeals(ctx context.Context, userID string, date *time.Time) ([]ConsumedMeal, error)
	DeleteConsumedMeal(ctx context.Context, id int64) error
}
