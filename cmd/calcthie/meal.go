package main

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/calcthie/calcthie/internal/domain"
	"github.com/calcthie/calcthie/internal/usecase"
	"github.com/spf13/cobra"
)

func newMealCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meal",
		Short: "Build the current meal",
	}
	cmd.AddCommand(
		newMealAddCmd(opts),
		newMealRemoveCmd(opts),
		newMealUpdateCmd(opts),
		newMealClearCmd(opts),
		newMealShowCmd(opts),
		newMealShareCmd(opts),
		newMealLoadCmd(opts),
	)
	return cmd
}

func newMealAddCmd(opts *rootOptions) *cobra.Command {
	var (
		portionIndex int
		quantity     float64
	)

	cmd := &cobra.Command{
		Use:   "add <fdcId>",
		Short: "Add a food to the meal",
		Long:  "Add a food to the meal. --portion takes an index from `calcthie food`; -1 means grams.",
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

				portion, ok := usecase.ResolvePortion(*food, portionIndex)
				if !ok {
					return fmt.Errorf("%w: food %d has no portion %d", domain.ErrInvalidRequest, id, portionIndex)
				}

				item, err := a.meal.AddItem(cmd.Context(), a.userID(), *food, portion, quantity)
				if err != nil {
					return err
				}
				a.history.Add(cmd.Context(), *food)

				fmt.Fprintf(cmd.OutOrStdout(), "Added %s x %s of %s (%.0fg) as %s\n",
					trimFloat(quantity), usecase.PortionDisplayName(portion), food.Description, item.TotalGrams, item.ID)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&portionIndex, "portion", -1, "Portion index (-1 for grams)")
	cmd.Flags().Float64Var(&quantity, "quantity", 0, "Number of portions")
	_ = cmd.MarkFlagRequired("quantity")
	return cmd
}

func newMealRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <itemId>",
		Short: "Remove an item from the meal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				if err := a.meal.RemoveItem(cmd.Context(), a.userID(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return nil
			})
		},
	}
}

func newMealUpdateCmd(opts *rootOptions) *cobra.Command {
	var (
		portionIndex int
		quantity     float64
	)

	cmd := &cobra.Command{
		Use:   "update <itemId>",
		Short: "Change an item's quantity or portion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				var current *domain.MealItem
				for _, item := range a.meal.Items() {
					if item.ID == args[0] {
						current = &item
						break
					}
				}
				if current == nil {
					return fmt.Errorf("%w: %s", domain.ErrItemNotFound, args[0])
				}

				if !cmd.Flags().Changed("quantity") {
					quantity = current.Quantity
				}
				var portion *domain.PortionSpec
				if cmd.Flags().Changed("portion") {
					resolved, ok := usecase.ResolvePortion(current.Food, portionIndex)
					if !ok {
						return fmt.Errorf("%w: food %d has no portion %d", domain.ErrInvalidRequest, current.Food.ID, portionIndex)
					}
					portion = &resolved
				}

				updated, err := a.meal.UpdateItem(cmd.Context(), a.userID(), args[0], quantity, portion)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s x %s (%.0fg)\n",
					updated.ID, trimFloat(updated.Quantity), usecase.PortionDisplayName(updated.Portion), updated.TotalGrams)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&portionIndex, "portion", -1, "New portion index (-1 for grams)")
	cmd.Flags().Float64Var(&quantity, "quantity", 0, "New number of portions")
	cmd.MarkFlagsOneRequired("quantity", "portion")
	return cmd
}

func newMealClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every item from the meal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				a.meal.Clear(cmd.Context(), a.userID())
				fmt.Fprintln(cmd.OutOrStdout(), "Meal cleared")
				return nil
			})
		},
	}
}

func newMealShowCmd(opts *rootOptions) *cobra.Command {
	var showMicros bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the meal with totals, macro split and goal progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				items := a.meal.Items()
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Meal is empty")
					return nil
				}
				goals := a.goals.Goals()
				printMealSummary(cmd.OutOrStdout(), usecase.SummarizeMeal(items, &goals), goals, showMicros)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&showMicros, "micros", false, "List micronutrient totals")
	return cmd
}

func newMealShareCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "share",
		Short: "Print a shareable link for the meal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				items := a.meal.Items()
				if len(items) == 0 {
					return fmt.Errorf("%w: meal is empty", domain.ErrInvalidRequest)
				}
				fmt.Fprintln(cmd.OutOrStdout(), usecase.ShareURL(a.cfg.Server.PublicBaseURL, items))
				return nil
			})
		},
	}
}

func newMealLoadCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load <link-or-token>",
		Short: "Replace the meal with a shared one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := shareTokenFrom(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(a *app) error {
				foods, err := a.foodLookup()
				if err != nil {
					return err
				}
				shared, err := usecase.NewSharedMealLoader(foods).Load(cmd.Context(), token)
				if err != nil {
					return err
				}
				items, err := a.meal.ReplaceWithResolved(cmd.Context(), a.userID(), shared.Items)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d item(s)", len(items))
				if shared.Dropped > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), ", skipped %d", shared.Dropped)
				}
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			})
		},
	}
}

// shareTokenFrom accepts either a bare token or a link carrying ?items=
func shareTokenFrom(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if !strings.Contains(arg, "items=") {
		return arg, nil
	}
	parsed, err := url.Parse(arg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidShareToken, err)
	}
	token := parsed.Query().Get("items")
	if token == "" {
		return "", fmt.Errorf("%w: link has no items", domain.ErrInvalidShareToken)
	}
	return token, nil
}

func printMealSummary(out io.Writer, summary usecase.MealSummary, goals domain.NutritionGoals, showMicros bool) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFOOD\tPORTION\tGRAMS\tKCAL\t")
	for _, item := range summary.Items {
		fmt.Fprintf(w, "%s\t%s\t%s x %s\t%.0f\t%.0f\t\n",
			item.ID, item.Food.Description, trimFloat(item.Quantity), usecase.PortionDisplayName(item.Portion),
			item.TotalGrams, usecase.AggregateTotals([]domain.MealItem{item}).Calories)
	}
	w.Flush()

	t := summary.Totals
	p := summary.Percentages
	fmt.Fprintf(out, "\nTotal: %.0f kcal | Protein %.1fg | Carbs %.1fg | Fat %.1fg | Fiber %.1fg\n", t.Calories, t.Protein, t.Carbs, t.Fat, t.Fiber)
	fmt.Fprintf(out, "Macros: Protein %.0f%% (%.0f kcal) | Net carbs %.0f%% (%.0f kcal) | Fat %.0f%% (%.0f kcal)\n",
		p.Protein, p.ProteinCal, p.Carbs, p.CarbsCal, p.Fat, p.FatCal)

	if pr := summary.Progress; pr != nil {
		fmt.Fprintf(out, "Goals: Calories %.0f%% of %.0f | Protein %.0f%% of %.0fg | Carbs %.0f%% of %.0fg | Fat %.0f%% of %.0fg | Fiber %.0f%% of %.0fg\n",
			pr.Calories, goals.Calories, pr.Protein, goals.Protein, pr.Carbs, goals.Carbs, pr.Fat, goals.Fat, pr.Fiber, goals.Fiber)
	}

	if !showMicros || len(summary.Micronutrients) == 0 {
		return
	}
	fmt.Fprintln(out, "\nMicronutrients:")
	w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, n := range summary.Micronutrients {
		fmt.Fprintf(w, "  %s\t%s\t\n", n.Name, formatAmount(n))
	}
	w.Flush()
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
