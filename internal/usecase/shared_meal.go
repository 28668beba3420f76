package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/calcthie/calcthie/internal/domain"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentLookups bounds the fan-out when rebuilding a shared meal
const maxConcurrentLookups = 8

// SharedMeal is the result of rebuilding a share token
type SharedMeal struct {
	Items   []domain.ResolvedItem `json:"items"`
	Dropped int                   `json:"dropped"`
}

// SharedMealLoader rebuilds meals from share tokens using the food catalog
type SharedMealLoader struct {
	foods domain.FoodLookup
}

// NewSharedMealLoader creates a loader backed by the given food lookup
func NewSharedMealLoader(foods domain.FoodLookup) *SharedMealLoader {
	return &SharedMealLoader{foods: foods}
}

// Load decodes token and resolves every item against freshly fetched food
// records. All lookups must succeed before any item is resolved. Items with an
// unknown portion index or a non-positive quantity are dropped; if nothing
// remains, ErrNoValidSharedItems is returned.
func (l *SharedMealLoader) Load(ctx context.Context, token string) (*SharedMeal, error) {
	decoded, err := DecodeMeal(token)
	if err != nil {
		log.Printf("[Share] Failed to decode meal token: %v", err)
		return nil, err
	}
	if len(decoded) == 0 {
		return nil, fmt.Errorf("%w: empty token", domain.ErrInvalidShareToken)
	}

	foods, err := l.fetchFoods(ctx, decoded)
	if err != nil {
		return nil, err
	}

	return resolveSharedItems(decoded, foods)
}

// Resolve rebuilds already-decoded items
func (l *SharedMealLoader) Resolve(ctx context.Context, decoded []domain.SharedItem) (*SharedMeal, error) {
	if len(decoded) == 0 {
		return nil, domain.ErrNoValidSharedItems
	}
	foods, err := l.fetchFoods(ctx, decoded)
	if err != nil {
		return nil, err
	}
	return resolveSharedItems(decoded, foods)
}

// fetchFoods fetches each distinct food once, concurrently, and fails if any fetch fails
func (l *SharedMealLoader) fetchFoods(ctx context.Context, decoded []domain.SharedItem) (map[int]domain.FoodRecord, error) {
	ids := make([]int, 0, len(decoded))
	seen := make(map[int]bool, len(decoded))
	for _, item := range decoded {
		if !seen[item.FoodID] {
			seen[item.FoodID] = true
			ids = append(ids, item.FoodID)
		}
	}

	records := make([]*domain.FoodRecord, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, id := range ids {
		g.Go(func() error {
			food, err := l.foods.GetFoodDetails(gctx, id)
			if err != nil {
				return fmt.Errorf("%w: food %d: %w", domain.ErrFoodLookupFailed, id, err)
			}
			records[i] = food
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("[Share] Failed to load shared meal: %v", err)
		return nil, err
	}

	foods := make(map[int]domain.FoodRecord, len(ids))
	for i, id := range ids {
		foods[id] = *records[i]
	}
	return foods, nil
}

func resolveSharedItems(decoded []domain.SharedItem, foods map[int]domain.FoodRecord) (*SharedMeal, error) {
	meal := &SharedMeal{Items: make([]domain.ResolvedItem, 0, len(decoded))}
	for _, item := range decoded {
		food := foods[item.FoodID]

		portion, ok := ResolvePortion(food, item.PortionIndex)
		if !ok {
			log.Printf("[Share] WARNING: invalid portion index %d for food %d, dropping item", item.PortionIndex, item.FoodID)
			meal.Dropped++
			continue
		}
		if validateQuantity(item.Quantity) != nil {
			log.Printf("[Share] WARNING: invalid quantity %v for food %d, dropping item", item.Quantity, item.FoodID)
			meal.Dropped++
			continue
		}

		meal.Items = append(meal.Items, domain.ResolvedItem{
			Food:     food,
			Portion:  portion,
			Quantity: item.Quantity,
		})
	}

	if len(meal.Items) == 0 {
		return nil, domain.ErrNoValidSharedItems
	}
	return meal, nil
}
