package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/calcthie/calcthie/internal/domain"
	"github.com/calcthie/calcthie/internal/infrastructure/usda"
	"github.com/calcthie/calcthie/internal/usecase"
	"github.com/spf13/cobra"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		limit     int
		offset    int
		dataTypes []string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search FoodData Central",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				foods, err := a.foodLookup()
				if err != nil {
					return err
				}

				results, err := foods.SearchFoods(cmd.Context(), domain.SearchQuery{
					Query:     strings.Join(args, " "),
					DataTypes: dataTypes,
					Limit:     limit,
					Offset:    offset,
				})
				if err != nil {
					return err
				}
				if len(results) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No foods found")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "FDC ID\tDESCRIPTION\tTYPE\tBRAND\t")
				for _, r := range results {
					brand := ""
					if r.BrandOwner != nil {
						brand = *r.BrandOwner
					}
					marker := ""
					if a.favorites.IsFavorite(r.ID) {
						marker = " *"
					}
					fmt.Fprintf(w, "%d\t%s%s\t%s\t%s\t\n", r.ID, r.Description, marker, r.DataType, brand)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of results to skip")
	cmd.Flags().StringSliceVar(&dataTypes, "data-type", nil, "Restrict to data types (Foundation, SR Legacy, Survey (FNDDS), Branded)")
	return cmd
}

func newFoodCmd(opts *rootOptions) *cobra.Command {
	var showMicros bool

	cmd := &cobra.Command{
		Use:   "food <fdcId>",
		Short: "Show nutrition and portions for a food",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseFoodID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(a *app) error {
				foods, err := a.foodLookup()
				if err != nil {
					return err
				}
				food, err := foods.GetFoodDetails(cmd.Context(), id)
				if err != nil {
					return err
				}
				a.history.Add(cmd.Context(), *food)

				printFood(cmd.OutOrStdout(), *food, a.favorites.IsFavorite(food.ID), showMicros)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&showMicros, "micros", false, "List every nutrient, not just macros")
	return cmd
}

func printFood(out io.Writer, food domain.FoodRecord, favorite, showMicros bool) {
	title := food.Description
	if favorite {
		title += " *"
	}
	fmt.Fprintf(out, "%s (%d)\n", title, food.ID)
	if food.DataType != "" {
		fmt.Fprintf(out, "Type: %s\n", food.DataType)
	}
	if food.Category != nil && *food.Category != "" {
		fmt.Fprintf(out, "Category: %s\n", *food.Category)
	}
	if food.BrandInfo != nil && food.BrandInfo.BrandOwner != nil {
		fmt.Fprintf(out, "Brand: %s\n", *food.BrandInfo.BrandOwner)
	}

	fmt.Fprintf(out, "\nPer 100g: %.0f kcal, P %.1fg, C %.1fg, F %.1fg, Fiber %.1fg\n",
		usda.FindNutrientAmount(food.Nutrients, domain.NutrientIDEnergy),
		usda.FindNutrientAmount(food.Nutrients, domain.NutrientIDProtein),
		usda.FindNutrientAmount(food.Nutrients, domain.NutrientIDCarbohydrate),
		usda.FindNutrientAmount(food.Nutrients, domain.NutrientIDTotalFat),
		usda.FindNutrientAmount(food.Nutrients, domain.NutrientIDFiber))

	fmt.Fprintln(out, "\nPortions (use the index with `meal add --portion`):")
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "  %d\t%s\t%s\t\n", -1, usecase.PortionDisplayName(domain.GramPortion()), "1g")
	for i, portion := range food.Portions {
		fmt.Fprintf(w, "  %d\t%s\t%.0fg\t\n", i, usecase.PortionDisplayName(portion), usecase.TotalGrams(portion, 1))
	}
	w.Flush()

	if !showMicros {
		return
	}
	fmt.Fprintln(out, "\nNutrients per 100g:")
	w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, n := range food.Nutrients {
		dv := ""
		if n.PercentDailyValue != nil {
			dv = fmt.Sprintf("%.1f%% DV", *n.PercentDailyValue)
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t\n", n.Name, formatAmount(n), dv)
	}
	w.Flush()
}

// formatAmount renders a nutrient amount followed by its unit
func formatAmount(n domain.NutrientRecord) string {
	if n.Amount == nil {
		return usecase.FormatNutrientAmount(nil, n.Unit)
	}
	unit := strings.ToLower(n.Unit)
	if unit == "ug" {
		unit = "µg"
	}
	return usecase.FormatNutrientAmount(n.Amount, n.Unit) + " " + unit
}
