package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	dbPath  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "calcthie",
		Short:         "calcthie builds meals from FoodData Central foods and totals their nutrition",
		Long:          "calcthie is a meal calculator: search USDA foods, add portions to a meal, see totals and macro split, share meals as links, and sync with your account.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Path to the local SQLite cache")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log sync and API activity to stderr")

	root.AddCommand(
		newSearchCmd(opts),
		newFoodCmd(opts),
		newMealCmd(opts),
		newFavoritesCmd(opts),
		newGoalsCmd(opts),
		newHistoryCmd(opts),
		newLogCmd(opts),
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newSyncCmd(opts),
	)
	return root
}

// withApp opens the app for one command and always flushes pending pushes
func withApp(cmd *cobra.Command, opts *rootOptions, run func(*app) error) error {
	a, err := newApp(cmd.Context(), appOptions{dbPath: opts.dbPath, verbose: opts.verbose})
	if err != nil {
		return err
	}
	defer a.close()
	return run(a)
}

func parseFoodID(value string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid food id %q", value)
	}
	return id, nil
}

func parseDateOrToday(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	date, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", value)
	}
	return date, nil
}
