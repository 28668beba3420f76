package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/calcthie/calcthie/internal/domain"
)

// ConsumedMealsService manages the signed-in user's food log
type ConsumedMealsService struct {
	remote domain.RemoteStore
}

func NewConsumedMealsService(remote domain.RemoteStore) *ConsumedMealsService {
	return &ConsumedMealsService{remote: remote}
}

// Save logs items as a meal eaten at consumedAt
func (s *ConsumedMealsService) Save(ctx context.Context, userID, name string, items []domain.MealItem, consumedAt time.Time) (*domain.ConsumedMeal, error) {
	if userID == "" || s.remote == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: meal has no items", domain.ErrInvalidRequest)
	}

	totals := AggregateTotals(items)
	meal, err := s.remote.CreateConsumedMeal(ctx, userID, domain.ConsumedMealRequest{
		MealName:      strings.TrimSpace(name),
		Items:         items,
		TotalCalories: totals.Calories,
		TotalProtein:  totals.Protein,
		TotalCarbs:    totals.Carbs,
		TotalFat:      totals.Fat,
		ConsumedAt:    consumedAt,
	})
	if err != nil {
		log.Printf("[ConsumedMeals] Failed to save meal: %v", err)
		return nil, err
	}

	log.Printf("[ConsumedMeals] Meal saved for %s", consumedAt.Format("2006-01-02"))
	return meal, nil
}

// ListForDate returns the meals logged on the given day
func (s *ConsumedMealsService) ListForDate(ctx context.Context, userID string, date time.Time) ([]domain.ConsumedMeal, error) {
	if userID == "" || s.remote == nil {
		return nil, domain.ErrNotAuthenticated
	}

	meals, err := s.remote.ListConsumedMeals(ctx, userID, &date)
	if err != nil {
		log.Printf("[ConsumedMeals] Failed to load meals: %v", err)
		return nil, err
	}
	return meals, nil
}

func (s *ConsumedMealsService) Delete(ctx context.Context, userID string, id int64) error {
	if userID == "" || s.remote == nil {
		return domain.ErrNotAuthenticated
	}
	return s.remote.DeleteConsumedMeal(ctx, id)
}

// DateTotals sums the stored totals of logged meals. Missing totals count as zero.
func DateTotals(meals []domain.ConsumedMeal) domain.NutrientTotals {
	var totals domain.NutrientTotals
	for _, meal := range meals {
		totals.Calories += valueOrZero(meal.TotalCalories)
		totals.Protein += valueOrZero(meal.TotalProtein)
		totals.Carbs += valueOrZero(meal.TotalCarbs)
		totals.Fat += valueOrZero(meal.TotalFat)
	}
	return totals
}

// ConsumedAtOn places the current time of day on the given calendar date
func ConsumedAtOn(date, now time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		now.Hour(), now.Minute(), now.Second(), 0, date.Location())
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
