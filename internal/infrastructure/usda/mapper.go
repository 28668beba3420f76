package usda

import (
	"math"
	"strings"

	"github.com/calcthie/calcthie/internal/domain"
)

// fdcFood is the FoodData Central /v1/food/{id} payload (fields we use)
type fdcFood struct {
	FdcID                    int               `json:"fdcId"`
	Description              string            `json:"description"`
	DataType                 string            `json:"dataType"`
	FoodCategory             *fdcCategory      `json:"foodCategory,omitempty"`
	WweiaFoodCategory        *fdcWweiaCategory `json:"wweiaFoodCategory,omitempty"`
	BrandedFoodCategory      string            `json:"brandedFoodCategory,omitempty"`
	FoodNutrients            []fdcFoodNutrient `json:"foodNutrients"`
	FoodPortions             []fdcPortion      `json:"foodPortions"`
	BrandOwner               string            `json:"brandOwner,omitempty"`
	BrandName                string            `json:"brandName,omitempty"`
	GtinUpc                  string            `json:"gtinUpc,omitempty"`
	Ingredients              string            `json:"ingredients,omitempty"`
	ServingSize              *float64          `json:"servingSize,omitempty"`
	ServingSizeUnit          string            `json:"servingSizeUnit,omitempty"`
	HouseholdServingFullText string            `json:"householdServingFullText,omitempty"`
}

type fdcCategory struct {
	Description string `json:"description"`
}

type fdcWweiaCategory struct {
	Description string `json:"wweiaFoodCategoryDescription"`
}

type fdcFoodNutrient struct {
	Nutrient fdcNutrient `json:"nutrient"`
	Amount   *float64    `json:"amount"`
}

type fdcNutrient struct {
	ID       int      `json:"id"`
	Number   string   `json:"number"`
	Name     string   `json:"name"`
	Rank     *float64 `json:"rank"`
	UnitName string   `json:"unitName"`
}

type fdcPortion struct {
	Amount             *float64       `json:"amount"`
	GramWeight         *float64       `json:"gramWeight"`
	Modifier           string         `json:"modifier"`
	PortionDescription string         `json:"portionDescription"`
	MeasureUnit        fdcMeasureUnit `json:"measureUnit"`
}

type fdcMeasureUnit struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

// fdcSearchResponse is the /v1/foods/search payload
type fdcSearchResponse struct {
	Foods       []fdcSearchFood `json:"foods"`
	TotalHits   int             `json:"totalHits"`
	CurrentPage int             `json:"currentPage"`
	TotalPages  int             `json:"totalPages"`
}

type fdcSearchFood struct {
	FdcID           int      `json:"fdcId"`
	Description     string   `json:"description"`
	DataType        string   `json:"dataType"`
	BrandOwner      string   `json:"brandOwner,omitempty"`
	ServingSize     *float64 `json:"servingSize,omitempty"`
	ServingSizeUnit string   `json:"servingSizeUnit,omitempty"`
}

// undeterminedUnit is what FDC reports when a portion's unit lives in its modifier
const undeterminedUnit = "undetermined"

// dailyValues are FDA reference daily values keyed by nutrient ID, in the
// nutrient's own unit
var dailyValues = map[int]float64{
	domain.NutrientIDProtein:      50,
	domain.NutrientIDTotalFat:     78,
	domain.NutrientIDCarbohydrate: 275,
	domain.NutrientIDFiber:        28,
	1087:                          1300, // Calcium (mg)
	1089:                          18,   // Iron (mg)
	1090:                          420,  // Magnesium (mg)
	1092:                          4700, // Potassium (mg)
	1093:                          2300, // Sodium (mg)
	1095:                          11,   // Zinc (mg)
	1106:                          900,  // Vitamin A, RAE (ug)
	1114:                          20,   // Vitamin D (ug)
	1162:                          90,   // Vitamin C (mg)
	1175:                          1.7,  // Vitamin B-6 (mg)
	1178:                          2.4,  // Vitamin B-12 (ug)
	1253:                          300,  // Cholesterol (mg)
	1258:                          20,   // Saturated fat (g)
}

// MapToFoodRecord converts FDC food data to our domain FoodRecord.
// Nutrient amounts stay per 100g as FDC reports them.
func MapToFoodRecord(food *fdcFood) *domain.FoodRecord {
	record := &domain.FoodRecord{
		ID:          food.FdcID,
		Description: food.Description,
		DataType:    food.DataType,
		Category:    categoryOf(food),
		Nutrients:   mapNutrients(food.FoodNutrients),
		Portions:    mapPortions(food.FoodPortions),
	}

	if food.DataType == "Branded" {
		record.BrandInfo = &domain.BrandInfo{
			BrandOwner:       optionalString(food.BrandOwner),
			BrandName:        optionalString(food.BrandName),
			GtinUpc:          optionalString(food.GtinUpc),
			Ingredients:      optionalString(food.Ingredients),
			ServingSize:      food.ServingSize,
			ServingSizeUnit:  optionalString(food.ServingSizeUnit),
			HouseholdServing: optionalString(food.HouseholdServingFullText),
		}
		if len(record.Portions) == 0 {
			if serving, ok := brandedServingPortion(food); ok {
				record.Portions = []domain.PortionSpec{serving}
			}
		}
	}

	return record
}

func categoryOf(food *fdcFood) *string {
	switch {
	case food.FoodCategory != nil && food.FoodCategory.Description != "":
		return domain.String(food.FoodCategory.Description)
	case food.WweiaFoodCategory != nil && food.WweiaFoodCategory.Description != "":
		return domain.String(food.WweiaFoodCategory.Description)
	}
	return optionalString(food.BrandedFoodCategory)
}

func mapNutrients(nutrients []fdcFoodNutrient) []domain.NutrientRecord {
	records := make([]domain.NutrientRecord, 0, len(nutrients))
	for _, n := range nutrients {
		if n.Nutrient.ID == 0 {
			continue
		}
		record := domain.NutrientRecord{
			NutrientID: n.Nutrient.ID,
			Name:       n.Nutrient.Name,
			Amount:     n.Amount,
			Unit:       normalizeUnit(n.Nutrient.UnitName),
			Rank:       n.Nutrient.Rank,
		}
		if dv, ok := dailyValues[n.Nutrient.ID]; ok && n.Amount != nil {
			record.PercentDailyValue = domain.Float(math.Round(*n.Amount/dv*1000) / 10)
		}
		records = append(records, record)
	}
	return records
}

func mapPortions(portions []fdcPortion) []domain.PortionSpec {
	specs := make([]domain.PortionSpec, 0, len(portions))
	for _, p := range portions {
		unit := p.MeasureUnit.Abbreviation
		if unit == undeterminedUnit {
			unit = ""
		}
		specs = append(specs, domain.PortionSpec{
			Amount:      p.Amount,
			Unit:        unit,
			GramWeight:  p.GramWeight,
			Description: optionalString(p.PortionDescription),
			Modifier:    optionalString(p.Modifier),
		})
	}
	return specs
}

// brandedServingPortion turns a branded label serving size into a portion
// when the serving is given in grams.
func brandedServingPortion(food *fdcFood) (domain.PortionSpec, bool) {
	if food.ServingSize == nil || *food.ServingSize <= 0 || !isGramUnit(food.ServingSizeUnit) {
		return domain.PortionSpec{}, false
	}
	return domain.PortionSpec{
		Amount:      domain.Float(1),
		Unit:        "serving",
		GramWeight:  food.ServingSize,
		Description: optionalString(food.HouseholdServingFullText),
	}, true
}

func mapSearchResults(foods []fdcSearchFood) []domain.FoodSearchResult {
	results := make([]domain.FoodSearchResult, 0, len(foods))
	for _, f := range foods {
		result := domain.FoodSearchResult{
			ID:          f.FdcID,
			Description: f.Description,
			DataType:    f.DataType,
			BrandOwner:  optionalString(f.BrandOwner),
		}
		if f.ServingSize != nil && isGramUnit(f.ServingSizeUnit) {
			result.DefaultServingSizeGrams = f.ServingSize
		}
		results = append(results, result)
	}
	return results
}

// normalizeUnit maps FDC unit names onto upper-case codes (G, MG, UG, KCAL)
func normalizeUnit(unit string) string {
	unit = strings.TrimSpace(unit)
	switch strings.ToLower(unit) {
	case "µg", "μg", "mcg", "ug":
		return "UG"
	}
	return strings.ToUpper(unit)
}

func isGramUnit(unit string) bool {
	switch strings.ToLower(unit) {
	case "g", "grm", "gram", "grams":
		return true
	}
	return false
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// FindNutrientAmount finds a specific nutrient amount by ID, 0 when absent or unknown
func FindNutrientAmount(nutrients []domain.NutrientRecord, nutrientID int) float64 {
	for _, nutrient := range nutrients {
		if nutrient.NutrientID == nutrientID && nutrient.Amount != nil {
			return *nutrient.Amount
		}
	}
	return 0.0
}
