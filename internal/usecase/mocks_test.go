package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/calcthie/calcthie/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	mu        sync.Mutex
	data      map[string][]byte
	getErr    error
	setErr    error
	getCalled int
	setCalled int
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{data: make(map[string][]byte)}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalled++
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.data[key]
	if !ok {
		return domain.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalled++
	if m.setErr != nil {
		return m.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

// MockFoodLookup is a mock implementation of domain.FoodLookup
type MockFoodLookup struct {
	mu            sync.Mutex
	foods         map[int]domain.FoodRecord
	searchResults []domain.FoodSearchResult
	lastQuery     domain.SearchQuery
	searchErr     error
	detailsErr    map[int]error
	searchCalls   int
	detailsCalls  map[int]int
}

func NewMockFoodLookup(foods ...domain.FoodRecord) *MockFoodLookup {
	m := &MockFoodLookup{
		foods:        make(map[int]domain.FoodRecord),
		detailsErr:   make(map[int]error),
		detailsCalls: make(map[int]int),
	}
	for _, f := range foods {
		m.foods[f.ID] = f
	}
	return m
}

func (m *MockFoodLookup) SearchFoods(ctx context.Context, query domain.SearchQuery) ([]domain.FoodSearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchCalls++
	m.lastQuery = query
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchResults, nil
}

func (m *MockFoodLookup) GetFoodDetails(ctx context.Context, foodID int) (*domain.FoodRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detailsCalls[foodID]++
	if err := m.detailsErr[foodID]; err != nil {
		return nil, err
	}
	food, ok := m.foods[foodID]
	if !ok {
		return nil, domain.ErrFoodNotFound
	}
	return &food, nil
}

func (m *MockFoodLookup) calls(foodID int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.detailsCalls[foodID]
}

// MockLocalStore is an in-memory domain.LocalStore that round-trips through JSON
type MockLocalStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	saveErr error
	loadErr error
}

func NewMockLocalStore() *MockLocalStore {
	return &MockLocalStore{data: make(map[string][]byte)}
}

func (m *MockLocalStore) Save(ctx context.Context, key string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *MockLocalStore) Load(ctx context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return false, m.loadErr
	}
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *MockLocalStore) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockLocalStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

// MockRemoteStore is an in-memory domain.RemoteStore keyed by user id
type MockRemoteStore struct {
	mu           sync.Mutex
	meals        map[string][]domain.MealItem
	favorites    map[string][]int
	consumed     []domain.ConsumedMeal
	lastListDate *time.Time
	deleted      []int64
	getErr       error
	putErr       error
	mealPuts     int
	favoritePuts int
	nextConsumed int64
}

func NewMockRemoteStore() *MockRemoteStore {
	return &MockRemoteStore{
		meals:     make(map[string][]domain.MealItem),
		favorites: make(map[string][]int),
	}
}

func (m *MockRemoteStore) GetCurrentMeal(ctx context.Context, userID string) ([]domain.MealItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return append([]domain.MealItem{}, m.meals[userID]...), nil
}

func (m *MockRemoteStore) PutCurrentMeal(ctx context.Context, userID string, items []domain.MealItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mealPuts++
	if m.putErr != nil {
		return m.putErr
	}
	m.meals[userID] = append([]domain.MealItem{}, items...)
	return nil
}

func (m *MockRemoteStore) GetFavorites(ctx context.Context, userID string) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return append([]int{}, m.favorites[userID]...), nil
}

func (m *MockRemoteStore) PutFavorites(ctx context.Context, userID string, foodIDs []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.favoritePuts++
	if m.putErr != nil {
		return m.putErr
	}
	m.favorites[userID] = append([]int{}, foodIDs...)
	return nil
}

func (m *MockRemoteStore) CreateConsumedMeal(ctx context.Context, userID string, req domain.ConsumedMealRequest) (*domain.ConsumedMeal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return nil, m.putErr
	}
	m.nextConsumed++
	meal := domain.ConsumedMeal{
		ID:            m.nextConsumed,
		UserID:        userID,
		Items:         req.Items,
		TotalCalories: domain.Float(req.TotalCalories),
		TotalProtein:  domain.Float(req.TotalProtein),
		TotalCarbs:    domain.Float(req.TotalCarbs),
		TotalFat:      domain.Float(req.TotalFat),
		ConsumedAt:    req.ConsumedAt,
	}
	if req.MealName != "" {
		meal.MealName = domain.String(req.MealName)
	}
	m.consumed = append(m.consumed, meal)
	return &meal, nil
}

func (m *MockRemoteStore) ListConsumedMeals(ctx context.Context, userID string, date *time.Time) ([]domain.ConsumedMeal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.lastListDate = date
	var meals []domain.ConsumedMeal
	for _, meal := range m.consumed {
		if meal.UserID == userID {
			meals = append(meals, meal)
		}
	}
	return meals, nil
}

func (m *MockRemoteStore) DeleteConsumedMeal(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *MockRemoteStore) mealFor(userID string) []domain.MealItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.meals[userID]
}

func (m *MockRemoteStore) favoritesFor(userID string) []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.favorites[userID]
}

var errBackendDown = errors.New("backend unavailable")

// testFood builds a food with the given per-100g macros
func testFood(id int, calories, protein, carbs, fat, fiber float64, portions ...domain.PortionSpec) domain.FoodRecord {
	return domain.FoodRecord{
		ID:          id,
		Description: "Test food",
		DataType:    "Foundation",
		Nutrients: []domain.NutrientRecord{
			{NutrientID: domain.NutrientIDEnergy, Name: "Energy", Amount: domain.Float(calories), Unit: "KCAL"},
			{NutrientID: domain.NutrientIDProtein, Name: "Protein", Amount: domain.Float(protein), Unit: "G"},
			{NutrientID: domain.NutrientIDCarbohydrate, Name: "Carbohydrate, by difference", Amount: domain.Float(carbs), Unit: "G"},
			{NutrientID: domain.NutrientIDTotalFat, Name: "Total lipid (fat)", Amount: domain.Float(fat), Unit: "G"},
			{NutrientID: domain.NutrientIDFiber, Name: "Fiber, total dietary", Amount: domain.Float(fiber), Unit: "G"},
		},
		Portions: portions,
	}
}

func gramPortion(weight float64) domain.PortionSpec {
	return domain.PortionSpec{Amount: domain.Float(1), Unit: "piece", GramWeight: domain.Float(weight)}
}
