package usecase

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/calcthie/calcthie/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalGrams(t *testing.T) {
	tests := []struct {
		name     string
		portion  domain.PortionSpec
		quantity float64
		want     float64
	}{
		{"missing gram weight falls back to 100g", domain.PortionSpec{Unit: "serving"}, 2, 200},
		{"gram weight times quantity", gramPortion(50), 3, 150},
		{"fractional quantity", gramPortion(240), 0.5, 120},
		{"synthetic gram portion", domain.GramPortion(), 85, 85},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalGrams(tt.portion, tt.quantity))
		})
	}
}

func TestPortionDisplayName(t *testing.T) {
	tests := []struct {
		name    string
		portion domain.PortionSpec
		want    string
	}{
		{
			name:    "description and modifier",
			portion: domain.PortionSpec{Amount: domain.Float(1), Unit: "cup", Description: domain.String("1 cup"), Modifier: domain.String("chopped")},
			want:    "1 cup (chopped)",
		},
		{
			name:    "description only",
			portion: domain.PortionSpec{Amount: domain.Float(1), Unit: "cup", Description: domain.String("1 cup, packed")},
			want:    "1 cup, packed",
		},
		{
			name:    "amount and modifier",
			portion: domain.PortionSpec{Amount: domain.Float(2), Unit: "undetermined", Modifier: domain.String("slices")},
			want:    "2 slices",
		},
		{
			name:    "amount and unit",
			portion: domain.PortionSpec{Amount: domain.Float(1.5), Unit: "cup", GramWeight: domain.Float(360)},
			want:    "1.5 cup",
		},
		{
			name:    "gram weight only",
			portion: domain.PortionSpec{GramWeight: domain.Float(28.35)},
			want:    "28.35g",
		},
		{
			name:    "nothing usable",
			portion: domain.PortionSpec{},
			want:    "100g (default)",
		},
		{
			name:    "empty description counts as missing",
			portion: domain.PortionSpec{Amount: domain.Float(1), Unit: "slice", Description: domain.String("")},
			want:    "1 slice",
		},
		{
			name:    "amount without unit or modifier",
			portion: domain.PortionSpec{Amount: domain.Float(1)},
			want:    "100g (default)",
		},
		{
			name:    "synthetic gram portion",
			portion: domain.GramPortion(),
			want:    "1 gram",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PortionDisplayName(tt.portion))
		})
	}
}

func TestAvailablePortions(t *testing.T) {
	t.Run("food without portions gets a default serving", func(t *testing.T) {
		portions := AvailablePortions(testFood(1, 0, 0, 0, 0, 0))

		require.Len(t, portions, 2)
		assert.True(t, portions[0].IsGramPortion())
		assert.Equal(t, domain.DefaultServingPortion(), portions[1])
	})

	t.Run("food portions follow the gram portion", func(t *testing.T) {
		cup := gramPortion(240)
		tbsp := gramPortion(15)
		portions := AvailablePortions(testFood(1, 0, 0, 0, 0, 0, cup, tbsp))

		require.Len(t, portions, 3)
		assert.True(t, portions[0].IsGramPortion())
		assert.Equal(t, []domain.PortionSpec{cup, tbsp}, portions[1:])
	})
}

func TestNewMealItem(t *testing.T) {
	food := testFood(171077, 165, 31, 0, 3.6, 0)

	t.Run("derives grams and nutrients", func(t *testing.T) {
		item, err := NewMealItem(food, gramPortion(140), 1.5)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(item.ID, "171077-"))
		assert.Equal(t, 210.0, item.TotalGrams)
		assert.InDelta(t, 65.1, *item.ScaledNutrients[1].Amount, 1e-9)
		assert.Equal(t, 1.5, item.Quantity)
	})

	t.Run("ids are unique", func(t *testing.T) {
		a, err := NewMealItem(food, domain.GramPortion(), 1)
		require.NoError(t, err)
		b, err := NewMealItem(food, domain.GramPortion(), 1)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})

	for _, quantity := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := NewMealItem(food, domain.GramPortion(), quantity)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "quantity %v", quantity)
	}
}

func TestRecomputeMealItem(t *testing.T) {
	item, err := NewMealItem(testFood(1, 100, 10, 10, 10, 0), domain.GramPortion(), 100)
	require.NoError(t, err)

	updated, err := RecomputeMealItem(item, gramPortion(30), 2)
	require.NoError(t, err)

	assert.Equal(t, item.ID, updated.ID)
	assert.Equal(t, 60.0, updated.TotalGrams)
	assert.InDelta(t, 60, *updated.ScaledNutrients[0].Amount, 1e-9)
	assert.Equal(t, 100.0, item.TotalGrams, "original is untouched")

	_, err = RecomputeMealItem(item, gramPortion(30), -2)
	assert.True(t, errors.Is(err, domain.ErrInvalidQuantity))
}

func TestBuildMealItems(t *testing.T) {
	food := testFood(1, 100, 10, 10, 10, 0)

	items, err := BuildMealItems([]domain.ResolvedItem{
		{Food: food, Portion: domain.GramPortion(), Quantity: 50},
		{Food: food, Portion: gramPortion(20), Quantity: 3},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 50.0, items[0].TotalGrams)
	assert.Equal(t, 60.0, items[1].TotalGrams)

	_, err = BuildMealItems([]domain.ResolvedItem{
		{Food: food, Portion: domain.GramPortion(), Quantity: 50},
		{Food: food, Portion: domain.GramPortion(), Quantity: 0},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}
