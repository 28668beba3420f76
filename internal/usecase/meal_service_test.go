package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/calcthie/calcthie/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "user-42"

type mealFixture struct {
	svc    *MealService
	local  *MockLocalStore
	remote *MockRemoteStore
	syncer *RemoteSyncer
}

func newMealFixture() mealFixture {
	local := NewMockLocalStore()
	remote := NewMockRemoteStore()
	syncer := NewRemoteSyncer(time.Second)
	return mealFixture{
		svc:    NewMealService(local, remote, syncer),
		local:  local,
		remote: remote,
		syncer: syncer,
	}
}

func TestMealService_AddItem(t *testing.T) {
	ctx := context.Background()
	oats := testFood(1001, 389, 16.9, 66.3, 6.9, 10.6)

	t.Run("signed out stays local", func(t *testing.T) {
		f := newMealFixture()

		item, err := f.svc.AddItem(ctx, "", oats, domain.GramPortion(), 40)
		require.NoError(t, err)
		f.syncer.Flush()

		assert.Equal(t, []domain.MealItem{item}, f.svc.Items())
		assert.True(t, f.local.has(localKeyMeal))
		assert.Equal(t, 0, f.remote.mealPuts)
	})

	t.Run("signed in pushes to remote", func(t *testing.T) {
		f := newMealFixture()

		item, err := f.svc.AddItem(ctx, testUser, oats, domain.GramPortion(), 40)
		require.NoError(t, err)
		f.syncer.Flush()

		remoteMeal := f.remote.mealFor(testUser)
		require.Len(t, remoteMeal, 1)
		assert.Equal(t, item.ID, remoteMeal[0].ID)
	})

	t.Run("failed push keeps the local change", func(t *testing.T) {
		f := newMealFixture()
		f.remote.putErr = errBackendDown

		_, err := f.svc.AddItem(ctx, testUser, oats, domain.GramPortion(), 40)
		require.NoError(t, err)
		f.syncer.Flush()

		assert.Len(t, f.svc.Items(), 1)
		assert.True(t, f.local.has(localKeyMeal))
		assert.Equal(t, 1, f.remote.mealPuts)
	})

	t.Run("invalid quantity leaves the meal unchanged", func(t *testing.T) {
		f := newMealFixture()

		_, err := f.svc.AddItem(ctx, "", oats, domain.GramPortion(), 0)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
		assert.Empty(t, f.svc.Items())
		assert.False(t, f.local.has(localKeyMeal))
	})

	t.Run("nil remote works offline", func(t *testing.T) {
		svc := NewMealService(NewMockLocalStore(), nil, nil)

		_, err := svc.AddItem(ctx, testUser, oats, domain.GramPortion(), 40)
		require.NoError(t, err)
		assert.Len(t, svc.Items(), 1)
	})
}

func TestMealService_RemoveItem(t *testing.T) {
	ctx := context.Background()
	f := newMealFixture()
	first, err := f.svc.AddItem(ctx, "", testFood(1, 100, 1, 1, 1, 0), domain.GramPortion(), 10)
	require.NoError(t, err)
	second, err := f.svc.AddItem(ctx, "", testFood(2, 100, 1, 1, 1, 0), domain.GramPortion(), 10)
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveItem(ctx, "", first.ID))
	assert.Equal(t, []domain.MealItem{second}, f.svc.Items())

	err = f.svc.RemoveItem(ctx, "", "missing")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	assert.Len(t, f.svc.Items(), 1)

	require.NoError(t, f.svc.RemoveItem(ctx, "", second.ID))
	assert.Empty(t, f.svc.Items())
	assert.False(t, f.local.has(localKeyMeal), "empty meal clears the local entry")
}

func TestMealService_UpdateItem(t *testing.T) {
	ctx := context.Background()
	milk := milkFood()

	t.Run("quantity only", func(t *testing.T) {
		f := newMealFixture()
		item, err := f.svc.AddItem(ctx, "", milk, milk.Portions[0], 1)
		require.NoError(t, err)

		updated, err := f.svc.UpdateItem(ctx, "", item.ID, 2, nil)
		require.NoError(t, err)

		assert.Equal(t, item.ID, updated.ID)
		assert.Equal(t, 488.0, updated.TotalGrams)
		assert.Equal(t, updated, f.svc.Items()[0])
	})

	t.Run("new portion", func(t *testing.T) {
		f := newMealFixture()
		item, err := f.svc.AddItem(ctx, "", milk, milk.Portions[0], 1)
		require.NoError(t, err)

		tbsp := milk.Portions[1]
		updated, err := f.svc.UpdateItem(ctx, "", item.ID, 3, &tbsp)
		require.NoError(t, err)

		assert.Equal(t, "tbsp", updated.Portion.Unit)
		assert.InDelta(t, 45.6, updated.TotalGrams, 1e-9)
	})

	t.Run("invalid quantity", func(t *testing.T) {
		f := newMealFixture()
		item, err := f.svc.AddItem(ctx, "", milk, milk.Portions[0], 1)
		require.NoError(t, err)

		_, err = f.svc.UpdateItem(ctx, "", item.ID, -1, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
		assert.Equal(t, item, f.svc.Items()[0])
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newMealFixture()
		_, err := f.svc.UpdateItem(ctx, "", "missing", 1, nil)
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})
}

func TestMealService_Clear(t *testing.T) {
	ctx := context.Background()
	f := newMealFixture()
	_, err := f.svc.AddItem(ctx, testUser, testFood(1, 100, 1, 1, 1, 0), domain.GramPortion(), 10)
	require.NoError(t, err)

	f.svc.Clear(ctx, testUser)
	f.syncer.Flush()

	assert.Empty(t, f.svc.Items())
	assert.False(t, f.local.has(localKeyMeal))
	assert.Empty(t, f.remote.mealFor(testUser))
}

func TestMealService_LoadFromLocal(t *testing.T) {
	ctx := context.Background()
	local := NewMockLocalStore()
	food := testFood(1, 200, 10, 20, 5, 0)

	stale, err := NewMealItem(food, gramPortion(50), 2)
	require.NoError(t, err)
	stale.TotalGrams = 0
	stale.ScaledNutrients = nil
	broken := stale
	broken.ID = "1-broken"
	broken.Quantity = 0
	require.NoError(t, local.Save(ctx, localKeyMeal, []domain.MealItem{stale, broken}))

	svc := NewMealService(local, nil, nil)
	require.NoError(t, svc.LoadFromLocal(ctx))

	items := svc.Items()
	require.Len(t, items, 1)
	assert.Equal(t, stale.ID, items[0].ID)
	assert.Equal(t, 100.0, items[0].TotalGrams)
	assert.InDelta(t, 200, svc.Totals().Calories, 1e-9)
}

func TestMealService_LoadFromLocal_Empty(t *testing.T) {
	svc := NewMealService(NewMockLocalStore(), nil, nil)
	require.NoError(t, svc.LoadFromLocal(context.Background()))
	assert.Empty(t, svc.Items())
}

func TestMealService_LoadFromLocal_Error(t *testing.T) {
	local := NewMockLocalStore()
	local.loadErr = errBackendDown
	svc := NewMealService(local, nil, nil)

	err := svc.LoadFromLocal(context.Background())
	assert.ErrorIs(t, err, errBackendDown)
}

func TestMealService_ReplaceWithResolved(t *testing.T) {
	ctx := context.Background()
	f := newMealFixture()
	existing, err := f.svc.AddItem(ctx, "", testFood(9, 100, 1, 1, 1, 0), domain.GramPortion(), 10)
	require.NoError(t, err)
	milk := milkFood()

	_, err = f.svc.ReplaceWithResolved(ctx, "", []domain.ResolvedItem{
		{Food: milk, Portion: milk.Portions[0], Quantity: 1},
		{Food: milk, Portion: milk.Portions[1], Quantity: 0},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Equal(t, []domain.MealItem{existing}, f.svc.Items())

	items, err := f.svc.ReplaceWithResolved(ctx, testUser, []domain.ResolvedItem{
		{Food: milk, Portion: milk.Portions[0], Quantity: 1},
		{Food: milk, Portion: milk.Portions[1], Quantity: 2},
	})
	require.NoError(t, err)
	f.syncer.Flush()

	assert.Len(t, items, 2)
	assert.Equal(t, items, f.svc.Items())
	assert.Len(t, f.remote.mealFor(testUser), 2)
	assert.Equal(t, "2002:0:1,2002:1:2", f.svc.ShareToken())
}

func TestMealService_LoadMeal(t *testing.T) {
	ctx := context.Background()
	f := newMealFixture()
	saved, err := NewMealItem(milkFood(), milkFood().Portions[0], 1)
	require.NoError(t, err)

	items := f.svc.LoadMeal(ctx, "", []domain.MealItem{saved})

	require.Len(t, items, 1)
	assert.Equal(t, saved.ID, items[0].ID)
	assert.Equal(t, items, f.svc.Items())
}

func TestMealService_Derived(t *testing.T) {
	ctx := context.Background()
	f := newMealFixture()
	_, err := f.svc.AddItem(ctx, "", testFood(1001, 150, 20, 10, 5, 2), gramPortion(100), 2)
	require.NoError(t, err)

	totals := f.svc.Totals()
	assert.InDelta(t, 300, totals.Calories, 1e-9)
	assert.Equal(t, domain.MacroPercentages{Protein: 51, Carbs: 20, Fat: 29, ProteinCal: 160, CarbsCal: 64, FatCal: 90}, f.svc.Percentages())
	assert.Equal(t, "1001:-1:2", f.svc.ShareToken())
}

func TestMealService_ItemsIsACopy(t *testing.T) {
	ctx := context.Background()
	f := newMealFixture()
	_, err := f.svc.AddItem(ctx, "", testFood(1, 100, 1, 1, 1, 0), domain.GramPortion(), 10)
	require.NoError(t, err)

	items := f.svc.Items()
	items[0].Quantity = 999

	assert.Equal(t, 10.0, f.svc.Items()[0].Quantity)
}

func TestMealService_SyncWithRemote(t *testing.T) {
	ctx := context.Background()

	t.Run("local meal is pushed", func(t *testing.T) {
		f := newMealFixture()
		f.remote.meals[testUser] = []domain.MealItem{{ID: "remote-only"}}
		item, err := f.svc.AddItem(ctx, "", testFood(1, 100, 1, 1, 1, 0), domain.GramPortion(), 10)
		require.NoError(t, err)

		require.NoError(t, f.svc.SyncWithRemote(ctx, testUser))

		remoteMeal := f.remote.mealFor(testUser)
		require.Len(t, remoteMeal, 1)
		assert.Equal(t, item.ID, remoteMeal[0].ID)
	})

	t.Run("remote meal is pulled when local is empty", func(t *testing.T) {
		f := newMealFixture()
		remoteItem, err := NewMealItem(milkFood(), milkFood().Portions[0], 1)
		require.NoError(t, err)
		f.remote.meals[testUser] = []domain.MealItem{remoteItem}

		require.NoError(t, f.svc.SyncWithRemote(ctx, testUser))

		assert.Equal(t, []domain.MealItem{remoteItem}, f.svc.Items())
		assert.True(t, f.local.has(localKeyMeal))
		assert.Equal(t, 0, f.remote.mealPuts)
	})

	t.Run("nothing on either side", func(t *testing.T) {
		f := newMealFixture()
		require.NoError(t, f.svc.SyncWithRemote(ctx, testUser))
		assert.Empty(t, f.svc.Items())
		assert.Equal(t, 0, f.remote.mealPuts)
	})

	t.Run("signed out is a no-op", func(t *testing.T) {
		f := newMealFixture()
		f.remote.getErr = errBackendDown
		assert.NoError(t, f.svc.SyncWithRemote(ctx, ""))
	})

	t.Run("fetch failure keeps local state", func(t *testing.T) {
		f := newMealFixture()
		_, err := f.svc.AddItem(ctx, "", testFood(1, 100, 1, 1, 1, 0), domain.GramPortion(), 10)
		require.NoError(t, err)
		f.remote.getErr = errBackendDown

		err = f.svc.SyncWithRemote(ctx, testUser)
		assert.ErrorIs(t, err, errBackendDown)
		assert.Len(t, f.svc.Items(), 1)
	})
}
