package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/calcthie/calcthie/internal/domain"
	"github.com/calcthie/calcthie/internal/usecase"
	"github.com/spf13/cobra"
)

func newLogCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record eaten meals in your account's food log",
	}

	var (
		name      string
		saveDate  string
		clearMeal bool
	)
	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Log the current meal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateOrToday(saveDate)
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(a *app) error {
				if err := a.requireSession(); err != nil {
					return err
				}
				meal, err := a.consumed.Save(cmd.Context(), a.userID(), name, a.meal.Items(), usecase.ConsumedAtOn(date, time.Now()))
				if err != nil {
					return err
				}
				if clearMeal {
					a.meal.Clear(cmd.Context(), a.userID())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged meal %d for %s\n", meal.ID, date.Format("2006-01-02"))
				return nil
			})
		},
	}
	saveCmd.Flags().StringVar(&name, "name", "", "Meal name, e.g. Breakfast")
	saveCmd.Flags().StringVar(&saveDate, "date", "", "Day eaten YYYY-MM-DD (default today)")
	saveCmd.Flags().BoolVar(&clearMeal, "clear", false, "Clear the current meal after logging it")

	var listDate string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List logged meals for a day with the day's totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateOrToday(listDate)
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(a *app) error {
				if err := a.requireSession(); err != nil {
					return err
				}
				meals, err := a.consumed.ListForDate(cmd.Context(), a.userID(), date)
				if err != nil {
					return err
				}
				printConsumedMeals(cmd, meals, a.goals.Goals())
				return nil
			})
		},
	}
	listCmd.Flags().StringVar(&listDate, "date", "", "Day YYYY-MM-DD (default today)")

	deleteCmd := &cobra.Command{
		Use:   "delete <mealId>",
		Short: "Delete a logged meal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid meal id %q", args[0])
			}
			return withApp(cmd, opts, func(a *app) error {
				if err := a.requireSession(); err != nil {
					return err
				}
				if err := a.consumed.Delete(cmd.Context(), a.userID(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted meal %d\n", id)
				return nil
			})
		},
	}

	cmd.AddCommand(saveCmd, listCmd, deleteCmd)
	return cmd
}

func printConsumedMeals(cmd *cobra.Command, meals []domain.ConsumedMeal, goals domain.NutritionGoals) {
	out := cmd.OutOrStdout()
	if len(meals) == 0 {
		fmt.Fprintln(out, "No meals logged")
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tNAME\tITEMS\tKCAL\t")
	for _, meal := range meals {
		name := "-"
		if meal.MealName != nil && *meal.MealName != "" {
			name = *meal.MealName
		}
		kcal := "-"
		if meal.TotalCalories != nil {
			kcal = fmt.Sprintf("%.0f", *meal.TotalCalories)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t\n", meal.ID, meal.ConsumedAt.Local().Format("15:04"), name, len(meal.Items), kcal)
	}
	w.Flush()

	totals := usecase.DateTotals(meals)
	progress := usecase.GoalProgressFor(totals, goals)
	fmt.Fprintf(out, "\nDay total: %.0f kcal (%.0f%% of goal) | Protein %.1fg | Carbs %.1fg | Fat %.1fg\n",
		totals.Calories, progress.Calories, totals.Protein, totals.Carbs, totals.Fat)
}
