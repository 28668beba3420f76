package usecase

import (
	"math"
	"sort"
	"strconv"

	"github.com/calcthie/calcthie/internal/domain"
)

// Energy per gram of each macro, in kcal
const (
	kcalPerGramProtein = 4.0
	kcalPerGramCarbs   = 4.0
	kcalPerGramFat     = 9.0
)

// ScaleNutrients converts per-100g nutrient amounts into amounts for totalGrams.
// Unknown amounts stay nil. The input slice is not modified.
func ScaleNutrients(nutrients []domain.NutrientRecord, totalGrams float64) []domain.NutrientRecord {
	scaled := make([]domain.NutrientRecord, len(nutrients))
	for i, nutrient := range nutrients {
		scaled[i] = nutrient
		if nutrient.Amount != nil {
			scaled[i].Amount = domain.Float(*nutrient.Amount * totalGrams / 100)
		}
	}
	return scaled
}

// AggregateTotals sums the scaled nutrients of all items.
// The five macro totals come from the fixed nutrient IDs; every nutrient,
// macros included, is also accumulated into the micronutrient map by ID.
func AggregateTotals(items []domain.MealItem) domain.NutrientTotals {
	totals := domain.NutrientTotals{
		Micronutrients: make(map[int]domain.NutrientRecord),
	}

	for _, item := range items {
		for _, nutrient := range item.ScaledNutrients {
			amount := 0.0
			if nutrient.Amount != nil {
				amount = *nutrient.Amount
			}

			switch nutrient.NutrientID {
			case domain.NutrientIDEnergy:
				totals.Calories += amount
			case domain.NutrientIDProtein:
				totals.Protein += amount
			case domain.NutrientIDCarbohydrate:
				totals.Carbs += amount
			case domain.NutrientIDTotalFat:
				totals.Fat += amount
			case domain.NutrientIDFiber:
				totals.Fiber += amount
			}

			merged := nutrient
			if existing, ok := totals.Micronutrients[nutrient.NutrientID]; ok {
				amount += *existing.Amount
			}
			merged.Amount = domain.Float(amount)
			totals.Micronutrients[nutrient.NutrientID] = merged
		}
	}

	return totals
}

// MacroPercentagesFor returns the share of calories from protein, net carbs and fat.
// Net carbs are carbs minus fiber and are not clamped at zero. A meal without
// macro calories reports 0% for everything.
func MacroPercentagesFor(totals domain.NutrientTotals) domain.MacroPercentages {
	netCarbs := totals.Carbs - totals.Fiber
	proteinCal := totals.Protein * kcalPerGramProtein
	carbsCal := netCarbs * kcalPerGramCarbs
	fatCal := totals.Fat * kcalPerGramFat

	total := proteinCal + carbsCal + fatCal
	if total == 0 {
		total = 1
	}

	return domain.MacroPercentages{
		Protein:    roundHalfUp(proteinCal / total * 100),
		Carbs:      roundHalfUp(carbsCal / total * 100),
		Fat:        roundHalfUp(fatCal / total * 100),
		ProteinCal: roundHalfUp(proteinCal),
		CarbsCal:   roundHalfUp(carbsCal),
		FatCal:     roundHalfUp(fatCal),
	}
}

// GoalProgressFor returns how much of each goal the totals reach, in whole percent
func GoalProgressFor(totals domain.NutrientTotals, goals domain.NutritionGoals) domain.GoalProgress {
	return domain.GoalProgress{
		Calories: percentOf(totals.Calories, goals.Calories),
		Protein:  percentOf(totals.Protein, goals.Protein),
		Carbs:    percentOf(totals.Carbs, goals.Carbs),
		Fat:      percentOf(totals.Fat, goals.Fat),
		Fiber:    percentOf(totals.Fiber, goals.Fiber),
	}
}

func percentOf(value, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return roundHalfUp(value / goal * 100)
}

// MicronutrientList returns the non-macro nutrients of the totals ordered by
// rank (unranked last), then by nutrient ID.
func MicronutrientList(totals domain.NutrientTotals) []domain.NutrientRecord {
	list := make([]domain.NutrientRecord, 0, len(totals.Micronutrients))
	for id, nutrient := range totals.Micronutrients {
		if domain.IsMacroNutrient(id) {
			continue
		}
		list = append(list, nutrient)
	}

	sort.Slice(list, func(i, j int) bool {
		ri, rj := list[i].Rank, list[j].Rank
		switch {
		case ri != nil && rj != nil && *ri != *rj:
			return *ri < *rj
		case ri != nil && rj == nil:
			return true
		case ri == nil && rj != nil:
			return false
		}
		return list[i].NutrientID < list[j].NutrientID
	})
	return list
}

// FormatNutrientAmount renders an amount with precision suited to its unit
func FormatNutrientAmount(amount *float64, unit string) string {
	if amount == nil {
		return "N/A"
	}
	value := *amount

	switch {
	case unit == "UG" && value < 1:
		return strconv.FormatFloat(value, 'f', 2, 64)
	case unit == "G" || unit == "MG":
		return strconv.FormatFloat(value, 'f', 1, 64)
	case unit == "KCAL":
		return strconv.FormatFloat(roundHalfUp(value), 'f', 0, 64)
	}
	return strconv.FormatFloat(value, 'f', 1, 64)
}

// roundHalfUp rounds to the nearest integer with halves going toward +Inf,
// so -2.5 rounds to -2 rather than -3.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// MealSummary is everything shown for a meal at once
type MealSummary struct {
	Items          []domain.MealItem       `json:"items"`
	Totals         domain.NutrientTotals   `json:"totals"`
	Percentages    domain.MacroPercentages `json:"percentages"`
	Micronutrients []domain.NutrientRecord `json:"micronutrients"`
	Progress       *domain.GoalProgress    `json:"progress,omitempty"`
	ShareToken     string                  `json:"shareToken"`
}

// SummarizeMeal computes totals, macro split and micronutrients for items.
// Progress is filled in only when goals are given.
func SummarizeMeal(items []domain.MealItem, goals *domain.NutritionGoals) MealSummary {
	totals := AggregateTotals(items)
	summary := MealSummary{
		Items:          items,
		Totals:         totals,
		Percentages:    MacroPercentagesFor(totals),
		Micronutrients: MicronutrientList(totals),
		ShareToken:     EncodeMeal(items),
	}
	if goals != nil {
		progress := GoalProgressFor(totals, *goals)
		summary.Progress = &progress
	}
	return summary
}
