package main

import (
	"fmt"
	"io"

	"github.com/calcthie/calcthie/internal/domain"
	"github.com/spf13/cobra"
)

func newGoalsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Manage daily nutrition goals",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				printGoals(cmd.OutOrStdout(), a.goals.Goals())
				return nil
			})
		},
	})

	var next domain.NutritionGoals
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Change one or more goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				goals := a.goals.Goals()
				flags := cmd.Flags()
				if flags.Changed("calories") {
					goals.Calories = next.Calories
				}
				if flags.Changed("protein") {
					goals.Protein = next.Protein
				}
				if flags.Changed("carbs") {
					goals.Carbs = next.Carbs
				}
				if flags.Changed("fat") {
					goals.Fat = next.Fat
				}
				if flags.Changed("fiber") {
					goals.Fiber = next.Fiber
				}

				if err := a.goals.Set(cmd.Context(), goals); err != nil {
					return err
				}
				printGoals(cmd.OutOrStdout(), a.goals.Goals())
				return nil
			})
		},
	}
	setCmd.Flags().Float64Var(&next.Calories, "calories", 0, "Daily calories")
	setCmd.Flags().Float64Var(&next.Protein, "protein", 0, "Daily protein grams")
	setCmd.Flags().Float64Var(&next.Carbs, "carbs", 0, "Daily carbs grams")
	setCmd.Flags().Float64Var(&next.Fat, "fat", 0, "Daily fat grams")
	setCmd.Flags().Float64Var(&next.Fiber, "fiber", 0, "Daily fiber grams")
	setCmd.MarkFlagsOneRequired("calories", "protein", "carbs", "fat", "fiber")
	cmd.AddCommand(setCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore the default goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				a.goals.Reset(cmd.Context())
				printGoals(cmd.OutOrStdout(), a.goals.Goals())
				return nil
			})
		},
	})

	return cmd
}

func printGoals(out io.Writer, g domain.NutritionGoals) {
	fmt.Fprintf(out, "Calories: %.0f\nProtein: %.1fg\nCarbs: %.1fg\nFat: %.1fg\nFiber: %.1fg\n", g.Calories, g.Protein, g.Carbs, g.Fat, g.Fiber)
}
