package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Recently viewed foods",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recently viewed foods, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				foods := a.history.List()
				if len(foods) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No recent foods")
					return nil
				}
				for _, food := range foods {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", food.ID, food.Description)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget recently viewed foods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				a.history.Clear(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
				return nil
			})
		},
	})

	return cmd
}
