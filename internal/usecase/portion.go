package usecase

import (
	"strconv"

	"github.com/calcthie/calcthie/internal/domain"
)

// fallbackGramWeight is used for portions that carry no gram weight
const fallbackGramWeight = 100.0

// TotalGrams returns the gram equivalent of quantity portions
func TotalGrams(portion domain.PortionSpec, quantity float64) float64 {
	grams := fallbackGramWeight
	if portion.GramWeight != nil {
		grams = *portion.GramWeight
	}
	return grams * quantity
}

// PortionDisplayName returns the label shown for a portion.
// The checks run in a fixed priority order.
func PortionDisplayName(portion domain.PortionSpec) string {
	description := nonEmpty(portion.Description)
	modifier := nonEmpty(portion.Modifier)

	switch {
	case description != "" && modifier != "":
		return description + " (" + modifier + ")"
	case description != "":
		return description
	case portion.Amount != nil && modifier != "":
		return formatNumber(*portion.Amount) + " " + modifier
	case portion.Amount != nil && portion.Unit != "":
		return formatNumber(*portion.Amount) + " " + portion.Unit
	case portion.GramWeight != nil:
		return formatNumber(*portion.GramWeight) + "g"
	}
	return "100g (default)"
}

// AvailablePortions lists the portions a user can pick for a food: the
// synthetic gram portion first, then the food's own portions, or a default
// 100g serving when the food has none.
func AvailablePortions(food domain.FoodRecord) []domain.PortionSpec {
	portions := make([]domain.PortionSpec, 0, len(food.Portions)+1)
	portions = append(portions, domain.GramPortion())
	if len(food.Portions) == 0 {
		return append(portions, domain.DefaultServingPortion())
	}
	return append(portions, food.Portions...)
}

func nonEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// formatNumber prints a float in its shortest decimal form (1, 1.5, 0.25)
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
