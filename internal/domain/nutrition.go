package domain

// FoodData Central nutrient IDs for the tracked macronutrients
const (
	NutrientIDEnergy       = 1008 // Energy (kcal)
	NutrientIDProtein      = 1003 // Protein (g)
	NutrientIDCarbohydrate = 1005 // Carbohydrate, by difference (g)
	NutrientIDTotalFat     = 1004 // Total lipid (fat) (g)
	NutrientIDFiber        = 1079 // Fiber, total dietary (g)
)

// IsMacroNutrient reports whether the nutrient feeds one of the scalar meal totals
func IsMacroNutrient(nutrientID int) bool {
	switch nutrientID {
	case NutrientIDEnergy, NutrientIDProtein, NutrientIDCarbohydrate, NutrientIDTotalFat, NutrientIDFiber:
		return true
	}
	return false
}

// NutrientRecord is one nutrient of a food. On a FoodRecord Amount is per 100g;
// on a MealItem it is the absolute amount for the item. A nil Amount means unknown.
type NutrientRecord struct {
	NutrientID        int      `json:"nutrientId"`
	Name              string   `json:"name"`
	Amount            *float64 `json:"amount"`
	Unit              string   `json:"unit"`
	PercentDailyValue *float64 `json:"percentDailyValue"`
	Rank              *float64 `json:"rank"`
}

// NutrientTotals is the aggregate of a set of meal items
type NutrientTotals struct {
	Calories       float64                `json:"calories"`
	Protein        float64                `json:"protein"` // grams
	Carbs          float64                `json:"carbs"`   // grams
	Fat            float64                `json:"fat"`     // grams
	Fiber          float64                `json:"fiber"`   // grams
	Micronutrients map[int]NutrientRecord `json:"micronutrients"`
}

// MacroPercentages is the share of calories from each macro, plus the calories themselves
type MacroPercentages struct {
	Protein    float64 `json:"protein"`
	Carbs      float64 `json:"carbs"`
	Fat        float64 `json:"fat"`
	ProteinCal float64 `json:"proteinCal"`
	CarbsCal   float64 `json:"carbsCal"`
	FatCal     float64 `json:"fatCal"`
}

// NutritionGoals are the user's daily targets
type NutritionGoals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"` // grams
	Carbs    float64 `json:"carbs"`   // grams
	Fat      float64 `json:"fat"`     // grams
	Fiber    float64 `json:"fiber"`   // grams
}

// DefaultGoals are used until the user sets their own
var DefaultGoals = NutritionGoals{
	Calories: 2000,
	Protein:  150,
	Carbs:    200,
	Fat:      65,
	Fiber:    30,
}

// GoalProgress is the percentage of each goal reached
type GoalProgress struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}
