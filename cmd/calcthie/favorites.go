package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFavoritesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Manage favorite foods",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List favorite food ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				ids := a.favorites.List()
				if len(ids) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No favorites yet")
					return nil
				}
				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <fdcId>",
		Short: "Mark a food as favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseFoodID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(a *app) error {
				a.favorites.Add(cmd.Context(), a.userID(), id)
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d to favorites\n", id)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <fdcId>",
		Short: "Unmark a favorite food",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseFoodID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(a *app) error {
				a.favorites.Remove(cmd.Context(), a.userID(), id)
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d from favorites\n", id)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <fdcId>",
		Short: "Flip a food's favorite state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseFoodID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(a *app) error {
				if a.favorites.Toggle(cmd.Context(), a.userID(), id) {
					fmt.Fprintf(cmd.OutOrStdout(), "%d is now a favorite\n", id)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%d is no longer a favorite\n", id)
				}
				return nil
			})
		},
	})

	return cmd
}
