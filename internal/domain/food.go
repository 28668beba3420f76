package domain

// PortionSpec is one way of measuring a food, e.g. "1 cup" or "1 slice"
type PortionSpec struct {
	Amount      *float64 `json:"amount"`
	Unit        string   `json:"unit"`
	GramWeight  *float64 `json:"gramWeight"`
	Description *string  `json:"description"`
	Modifier    *string  `json:"modifier"`
}

// GramPortion returns the synthetic "1 gram" portion offered for every food
func GramPortion() PortionSpec {
	return PortionSpec{
		Amount:      Float(1),
		Unit:        "g",
		GramWeight:  Float(1),
		Description: String("1 gram"),
	}
}

// DefaultServingPortion is offered when a food has no portions of its own
func DefaultServingPortion() PortionSpec {
	return PortionSpec{
		Amount:      Float(1),
		Unit:        "serving",
		GramWeight:  Float(100),
		Description: String("100g (default)"),
	}
}

// IsGramPortion reports whether p is the synthetic gram portion
func (p PortionSpec) IsGramPortion() bool {
	return p.Unit == "g" &&
		p.GramWeight != nil && *p.GramWeight == 1 &&
		p.Amount != nil && *p.Amount == 1
}

// FoodRecord is reference data for one food as returned by the food catalog.
// Nutrient amounts are per 100g. Treated as immutable once fetched.
type FoodRecord struct {
	ID          int              `json:"fdcId"`
	Description string           `json:"description"`
	DataType    string           `json:"dataType"`
	Category    *string          `json:"category"`
	Nutrients   []NutrientRecord `json:"nutrients"`
	Portions    []PortionSpec    `json:"portions"`
	BrandInfo   *BrandInfo       `json:"brandInfo"`
}

// BrandInfo holds label data for branded foods
type BrandInfo struct {
	BrandOwner       *string  `json:"brandOwner"`
	BrandName        *string  `json:"brandName"`
	GtinUpc          *string  `json:"gtinUpc"`
	Ingredients      *string  `json:"ingredients"`
	ServingSize      *float64 `json:"servingSize"`
	ServingSizeUnit  *string  `json:"servingSizeUnit"`
	HouseholdServing *string  `json:"householdServing"`
}

// FoodSearchResult is a summary row from a food search
type FoodSearchResult struct {
	ID                      int      `json:"fdcId"`
	Description             string   `json:"description"`
	DataType                string   `json:"dataType"`
	BrandOwner              *string  `json:"brandOwner"`
	DefaultServingSizeGrams *float64 `json:"defaultServingSizeGrams"`
}

// SearchQuery describes a food search
type SearchQuery struct {
	Query     string   `json:"query"`
	DataTypes []string `json:"dataTypes,omitempty"`
	Limit     int      `json:"limit"`
	Offset    int      `json:"offset"`
}

// Float returns a pointer to v
func Float(v float64) *float64 { return &v }

// String returns a pointer to s
func String(s string) *string { return &s }
