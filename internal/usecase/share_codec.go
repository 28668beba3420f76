package usecase

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/calcthie/calcthie/internal/domain"
)

// Share token format: foodId:portionIndex:quantity[,foodId:portionIndex:quantity...]
const (
	itemSeparator  = ","
	fieldSeparator = ":"

	// gramPortionIndex marks the synthetic gram portion. It is also written
	// when the item's portion is not among the food's portions.
	gramPortionIndex = -1
)

// EncodeMeal serializes meal items into a share token
func EncodeMeal(items []domain.MealItem) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = strconv.Itoa(item.Food.ID) + fieldSeparator +
			strconv.Itoa(portionIndexOf(item)) + fieldSeparator +
			formatNumber(item.Quantity)
	}
	return strings.Join(parts, itemSeparator)
}

// portionIndexOf finds the item's portion among the food's portions by
// (unit, gram weight, amount). The first match wins.
func portionIndexOf(item domain.MealItem) int {
	if item.Portion.IsGramPortion() {
		return gramPortionIndex
	}
	for i, p := range item.Food.Portions {
		if p.Unit == item.Portion.Unit &&
			equalFloatPtr(p.GramWeight, item.Portion.GramWeight) &&
			equalFloatPtr(p.Amount, item.Portion.Amount) {
			return i
		}
	}
	return gramPortionIndex
}

func equalFloatPtr(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// DecodeMeal parses a share token. An empty token yields no items. Any
// malformed entry fails the whole token.
func DecodeMeal(token string) ([]domain.SharedItem, error) {
	if token == "" {
		return []domain.SharedItem{}, nil
	}

	entries := strings.Split(token, itemSeparator)
	items := make([]domain.SharedItem, 0, len(entries))
	for _, entry := range entries {
		item, err := decodeSharedItem(entry)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func decodeSharedItem(entry string) (domain.SharedItem, error) {
	fields := strings.Split(entry, fieldSeparator)
	if len(fields) != 3 {
		return domain.SharedItem{}, fmt.Errorf("%w: invalid item format %q", domain.ErrInvalidShareToken, entry)
	}

	foodID, ok := parseIntegral(fields[0])
	if !ok {
		return domain.SharedItem{}, fmt.Errorf("%w: invalid food id in %q", domain.ErrInvalidShareToken, entry)
	}
	portionIndex, ok := parseIntegral(fields[1])
	if !ok {
		return domain.SharedItem{}, fmt.Errorf("%w: invalid portion index in %q", domain.ErrInvalidShareToken, entry)
	}
	quantity, err := strconv.ParseFloat(fields[2], 64)
	if err != nil || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return domain.SharedItem{}, fmt.Errorf("%w: invalid quantity in %q", domain.ErrInvalidShareToken, entry)
	}

	return domain.SharedItem{
		FoodID:       foodID,
		PortionIndex: portionIndex,
		Quantity:     quantity,
	}, nil
}

// ShareURL builds the shareable link for a meal. It returns "" for an empty meal.
func ShareURL(baseURL string, items []domain.MealItem) string {
	if len(items) == 0 {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/shared-meal?items=" + url.QueryEscape(EncodeMeal(items))
}

// ResolvePortion maps a decoded portion index onto a food's portions
func ResolvePortion(food domain.FoodRecord, portionIndex int) (domain.PortionSpec, bool) {
	if portionIndex == gramPortionIndex {
		return domain.GramPortion(), true
	}
	if portionIndex >= 0 && portionIndex < len(food.Portions) {
		return food.Portions[portionIndex], true
	}
	return domain.PortionSpec{}, false
}

// parseIntegral accepts any finite decimal that is a whole number, so "2"
// and "2.0" both read as 2.
func parseIntegral(s string) (int, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, false
	}
	return int(v), true
}
