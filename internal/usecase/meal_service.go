package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/calcthie/calcthie/internal/domain"
)

// Local cache keys
const (
	localKeyMeal      = "calcthie_current_meal"
	localKeyGoals     = "calcthie_nutrition_goals"
	localKeyHistory   = "calcthie_recent_foods"
	localKeyFavorites = "calcthie_favorite_foods"
)

// MealService holds the in-progress meal. Every mutation is applied in
// memory, written to the local cache, and pushed to the remote store in the
// background when userID is non-empty. Local state is authoritative.
type MealService struct {
	mu     sync.Mutex
	items  []domain.MealItem
	local  domain.LocalStore
	remote domain.RemoteStore
	syncer *RemoteSyncer
}

// NewMealService creates a meal service. remote may be nil for offline use.
func NewMealService(local domain.LocalStore, remote domain.RemoteStore, syncer *RemoteSyncer) *MealService {
	return &MealService{
		items:  []domain.MealItem{},
		local:  local,
		remote: remote,
		syncer: syncer,
	}
}

// LoadFromLocal restores the meal from the local cache
func (s *MealService) LoadFromLocal(ctx context.Context) error {
	var stored []domain.MealItem
	found, err := s.local.Load(ctx, localKeyMeal, &stored)
	if err != nil {
		return fmt.Errorf("load meal from local cache: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !found {
		s.items = []domain.MealItem{}
		return nil
	}
	s.items = rebuildItems(stored)
	return nil
}

// AddItem appends a new item for food
func (s *MealService) AddItem(ctx context.Context, userID string, food domain.FoodRecord, portion domain.PortionSpec, quantity float64) (domain.MealItem, error) {
	item, err := NewMealItem(food, portion, quantity)
	if err != nil {
		return domain.MealItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(ctx, userID, "add", append(cloneItems(s.items), item))
	return item, nil
}

// RemoveItem deletes the item with the given id
func (s *MealService) RemoveItem(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.MealItem, 0, len(s.items))
	for _, item := range s.items {
		if item.ID != id {
			next = append(next, item)
		}
	}
	if len(next) == len(s.items) {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	s.commit(ctx, userID, "remove", next)
	return nil
}

// UpdateItem changes an item's quantity and, when portion is non-nil, its portion
func (s *MealService) UpdateItem(ctx context.Context, userID, id string, quantity float64, portion *domain.PortionSpec) (domain.MealItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneItems(s.items)
	for i, item := range next {
		if item.ID != id {
			continue
		}
		newPortion := item.Portion
		if portion != nil {
			newPortion = *portion
		}
		updated, err := RecomputeMealItem(item, newPortion, quantity)
		if err != nil {
			return domain.MealItem{}, err
		}
		next[i] = updated
		s.commit(ctx, userID, "update", next)
		return updated, nil
	}
	return domain.MealItem{}, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
}

// Clear empties the meal
func (s *MealService) Clear(ctx context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(ctx, userID, "clear", []domain.MealItem{})
}

// ReplaceWithResolved replaces the meal with freshly built items, e.g. from a
// shared link. Nothing changes if any item is invalid.
func (s *MealService) ReplaceWithResolved(ctx context.Context, userID string, resolved []domain.ResolvedItem) ([]domain.MealItem, error) {
	items, err := BuildMealItems(resolved)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(ctx, userID, "loaded meal", items)
	return cloneItems(items), nil
}

// LoadMeal replaces the meal with previously saved items, keeping their ids
func (s *MealService) LoadMeal(ctx context.Context, userID string, items []domain.MealItem) []domain.MealItem {
	rebuilt := rebuildItems(items)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(ctx, userID, "loaded meal", rebuilt)
	return cloneItems(rebuilt)
}

// Items returns a copy of the current items
func (s *MealService) Items() []domain.MealItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// Totals aggregates the current items
func (s *MealService) Totals() domain.NutrientTotals {
	return AggregateTotals(s.Items())
}

// Percentages returns the macro split of the current meal
func (s *MealService) Percentages() domain.MacroPercentages {
	return MacroPercentagesFor(s.Totals())
}

// ShareToken encodes the current meal
func (s *MealService) ShareToken() string {
	return EncodeMeal(s.Items())
}

// SyncWithRemote reconciles the local meal with the user's remote meal after
// sign-in. A non-empty local meal is pushed; otherwise a remote meal is pulled.
func (s *MealService) SyncWithRemote(ctx context.Context, userID string) error {
	if userID == "" || s.remote == nil {
		return nil
	}

	remoteItems, err := s.remote.GetCurrentMeal(ctx, userID)
	if err != nil {
		log.Printf("[Meal] Failed to sync with backend: %v", err)
		return err
	}

	s.mu.Lock()
	agreed, source := MergeCurrentMeal(cloneItems(s.items), remoteItems)
	if source == MealSourceRemote {
		s.items = rebuildItems(agreed)
		s.persistLocal(ctx, s.items)
	}
	s.mu.Unlock()

	switch source {
	case MealSourceLocal:
		if err := s.remote.PutCurrentMeal(ctx, userID, agreed); err != nil {
			log.Printf("[Meal] Failed to push local meal to backend: %v", err)
			return err
		}
		log.Printf("[Meal] Pushed local meal to backend")
	case MealSourceRemote:
		log.Printf("[Meal] Pulled backend meal to local")
	}
	return nil
}

// commit installs next as the meal state, persists it and schedules a push.
// Callers hold s.mu.
func (s *MealService) commit(ctx context.Context, userID, action string, next []domain.MealItem) {
	s.items = next
	s.persistLocal(ctx, next)

	if userID == "" || s.remote == nil || s.syncer == nil {
		return
	}
	snapshot := cloneItems(next)
	s.syncer.Push("Meal", userID, action, func(ctx context.Context) error {
		return s.remote.PutCurrentMeal(ctx, userID, snapshot)
	})
}

func (s *MealService) persistLocal(ctx context.Context, items []domain.MealItem) {
	var err error
	if len(items) == 0 {
		err = s.local.Remove(ctx, localKeyMeal)
	} else {
		err = s.local.Save(ctx, localKeyMeal, items)
	}
	if err != nil {
		log.Printf("[Meal] Error saving to local cache: %v", err)
	}
}

// rebuildItems recomputes derived fields of stored items, dropping any
// whose quantity is no longer valid.
func rebuildItems(stored []domain.MealItem) []domain.MealItem {
	items := make([]domain.MealItem, 0, len(stored))
	for _, item := range stored {
		rebuilt, err := RecomputeMealItem(item, item.Portion, item.Quantity)
		if err != nil {
			log.Printf("[Meal] Dropping stored item %s: %v", item.ID, err)
			continue
		}
		if rebuilt.ID == "" {
			rebuilt.ID = newItemID(rebuilt.Food.ID)
		}
		items = append(items, rebuilt)
	}
	return items
}

func cloneItems(items []domain.MealItem) []domain.MealItem {
	out := make([]domain.MealItem, len(items))
	copy(out, items)
	return out
}
