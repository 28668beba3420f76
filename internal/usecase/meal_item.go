package usecase

import (
	"fmt"
	"math"

	"github.com/calcthie/calcthie/internal/domain"
	"github.com/google/uuid"
)

// NewMealItem builds a meal item with its derived nutrient fields filled in
func NewMealItem(food domain.FoodRecord, portion domain.PortionSpec, quantity float64) (domain.MealItem, error) {
	item := domain.MealItem{
		ID:   newItemID(food.ID),
		Food: food,
	}
	return RecomputeMealItem(item, portion, quantity)
}

// RecomputeMealItem returns a copy of item with a new portion and quantity and
// freshly derived totals. It is the only place derived fields are written.
func RecomputeMealItem(item domain.MealItem, portion domain.PortionSpec, quantity float64) (domain.MealItem, error) {
	if err := validateQuantity(quantity); err != nil {
		return domain.MealItem{}, err
	}

	item.Portion = portion
	item.Quantity = quantity
	item.TotalGrams = TotalGrams(portion, quantity)
	item.ScaledNutrients = ScaleNutrients(item.Food.Nutrients, item.TotalGrams)
	return item, nil
}

// BuildMealItems turns resolved items into meal items. It fails on the first
// invalid quantity.
func BuildMealItems(resolved []domain.ResolvedItem) ([]domain.MealItem, error) {
	items := make([]domain.MealItem, 0, len(resolved))
	for _, r := range resolved {
		item, err := NewMealItem(r.Food, r.Portion, r.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func validateQuantity(quantity float64) error {
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) || quantity <= 0 {
		return fmt.Errorf("%w: got %v", domain.ErrInvalidQuantity, quantity)
	}
	return nil
}

func newItemID(foodID int) string {
	return fmt.Sprintf("%d-%s", foodID, uuid.NewString())
}
