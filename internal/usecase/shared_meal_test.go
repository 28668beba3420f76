package usecase

import (
	"context"
	"testing"

	"github.com/calcthie/calcthie/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader() (*SharedMealLoader, *MockFoodLookup) {
	lookup := NewMockFoodLookup(testFood(1001, 389, 16.9, 66.3, 6.9, 10.6), milkFood())
	return NewSharedMealLoader(lookup), lookup
}

func TestSharedMealLoader_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves every item and fetches each food once", func(t *testing.T) {
		loader, lookup := newTestLoader()

		meal, err := loader.Load(ctx, "1001:-1:100,2002:0:2,1001:-1:50")
		require.NoError(t, err)

		require.Len(t, meal.Items, 3)
		assert.Equal(t, 0, meal.Dropped)
		assert.True(t, meal.Items[0].Portion.IsGramPortion())
		assert.Equal(t, 100.0, meal.Items[0].Quantity)
		assert.Equal(t, 244.0, *meal.Items[1].Portion.GramWeight)
		assert.Equal(t, 2002, meal.Items[1].Food.ID)
		assert.Equal(t, 50.0, meal.Items[2].Quantity)
		assert.Equal(t, 1, lookup.calls(1001))
		assert.Equal(t, 1, lookup.calls(2002))
	})

	t.Run("drops items with an unknown portion index", func(t *testing.T) {
		loader, _ := newTestLoader()

		meal, err := loader.Load(ctx, "1001:5:1,2002:1:1")
		require.NoError(t, err)

		require.Len(t, meal.Items, 1)
		assert.Equal(t, 1, meal.Dropped)
		assert.Equal(t, 2002, meal.Items[0].Food.ID)
	})

	t.Run("drops items with a non-positive quantity", func(t *testing.T) {
		loader, _ := newTestLoader()

		meal, err := loader.Load(ctx, "1001:-1:0,2002:0:-1,2002:0:1")
		require.NoError(t, err)

		require.Len(t, meal.Items, 1)
		assert.Equal(t, 2, meal.Dropped)
	})

	t.Run("nothing usable", func(t *testing.T) {
		loader, _ := newTestLoader()

		meal, err := loader.Load(ctx, "1001:7:1,2002:-3:1")
		assert.ErrorIs(t, err, domain.ErrNoValidSharedItems)
		assert.Nil(t, meal)
	})

	t.Run("any failed lookup fails the load", func(t *testing.T) {
		loader, _ := newTestLoader()

		meal, err := loader.Load(ctx, "1001:-1:1,9999:-1:1")
		assert.ErrorIs(t, err, domain.ErrFoodLookupFailed)
		assert.ErrorIs(t, err, domain.ErrFoodNotFound)
		assert.Nil(t, meal)
	})

	t.Run("backend failure surfaces", func(t *testing.T) {
		loader, lookup := newTestLoader()
		lookup.detailsErr[2002] = domain.ErrUSDAAPIFailure

		_, err := loader.Load(ctx, "1001:-1:1,2002:0:1")
		assert.ErrorIs(t, err, domain.ErrFoodLookupFailed)
		assert.ErrorIs(t, err, domain.ErrUSDAAPIFailure)
	})

	t.Run("malformed token", func(t *testing.T) {
		loader, lookup := newTestLoader()

		_, err := loader.Load(ctx, "abc:1:2")
		assert.ErrorIs(t, err, domain.ErrInvalidShareToken)
		assert.Equal(t, 0, lookup.calls(1001))
	})

	t.Run("empty token", func(t *testing.T) {
		loader, _ := newTestLoader()

		_, err := loader.Load(ctx, "")
		assert.ErrorIs(t, err, domain.ErrInvalidShareToken)
	})
}

func TestSharedMealLoader_Resolve(t *testing.T) {
	ctx := context.Background()
	loader, _ := newTestLoader()

	meal, err := loader.Resolve(ctx, []domain.SharedItem{
		{FoodID: 2002, PortionIndex: 1, Quantity: 3},
	})
	require.NoError(t, err)
	require.Len(t, meal.Items, 1)
	assert.Equal(t, "tbsp", meal.Items[0].Portion.Unit)

	_, err = loader.Resolve(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrNoValidSharedItems)
}
