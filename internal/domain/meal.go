package domain

import "time"

// MealItem is one line of the in-progress meal. ScaledNutrients and TotalGrams
// are derived from Food, Portion and Quantity and are only written by the
// meal item builder.
type MealItem struct {
	ID              string           `json:"id"`
	Food            FoodRecord       `json:"food"`
	Portion         PortionSpec      `json:"portion"`
	Quantity        float64          `json:"quantity"`
	ScaledNutrients []NutrientRecord `json:"nutrients"`
	TotalGrams      float64          `json:"totalGrams"`
}

// SharedItem is one decoded entry of a share token
type SharedItem struct {
	FoodID       int     `json:"fdcId"`
	PortionIndex int     `json:"portionIndex"`
	Quantity     float64 `json:"quantity"`
}

// ResolvedItem is a shared item whose food and portion have been looked up
type ResolvedItem struct {
	Food     FoodRecord  `json:"food"`
	Portion  PortionSpec `json:"portion"`
	Quantity float64     `json:"quantity"`
}

// ConsumedMeal is a meal saved to the user's food log
type ConsumedMeal struct {
	ID            int64      `json:"id"`
	UserID        string     `json:"userId"`
	MealName      *string    `json:"mealName"`
	Items         []MealItem `json:"mealData"`
	TotalCalories *float64   `json:"totalCalories"`
	TotalProtein  *float64   `json:"totalProtein"`
	TotalCarbs    *float64   `json:"totalCarbs"`
	TotalFat      *float64   `json:"totalFat"`
	ConsumedAt    time.Time  `json:"consumedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// ConsumedMealRequest is the payload for logging a meal
type ConsumedMealRequest struct {
	MealName      string     `json:"mealName,omitempty"`
	Items         []MealItem `json:"mealData"`
	TotalCalories float64    `json:"totalCalories"`
	TotalProtein  float64    `json:"totalProtein"`
	TotalCarbs    float64    `json:"totalCarbs"`
	TotalFat      float64    `json:"totalFat"`
	ConsumedAt    time.Time  `json:"consumedAt"`
}
