package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mind-engage/mindengage-qpaper/internal/app"
	"github.com/mind-engage/mindengage-qpaper/internal/events"
	"github.com/mind-engage/mindengage-qpaper/internal/paper"
	"github.com/mind-engage/mindengage-qpaper/internal/question"
)

var combo question.Criteria

var combinationsCmd = &cobra.Command{
	Use:   "combinations",
	Short: "Print how many questions the bank holds per marks/BL pair",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			_, tally, err := paper.NewService(a.Questions, nil, paper.Options{Logger: logger}).Combinations(ctx, combo)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			total := 0
			for _, c := range tally {
				fmt.Fprintf(out, "%-20s %d\n", paper.CombinationKey(c.Marks, c.BL), c.Available)
				total += c.Available
			}
			fmt.Fprintf(out, "%d questions\n", total)
			return nil
		})
	},
}

var (
	eventsSince int64
	eventsLimit int
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print the SQL event log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			entries, err := events.NewSQLLog(a.DB, "").Since(ctx, eventsSince, eventsLimit)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\n", e.Seq, e.Type, e.Key, e.DataJSON)
			}
			return nil
		})
	},
}

func init() {
	combinationsCmd.Flags().StringVar(&combo.Subject, "subject", "", "subject (substring, case-insensitive)")
	combinationsCmd.Flags().StringVar(&combo.Department, "department", "", "department (substring, case-insensitive)")
	combinationsCmd.Flags().StringVar(&combo.Course, "course", "", "course (substring, case-insensitive)")
	combinationsCmd.Flags().IntSliceVar(&combo.Units, "units", nil, "units to include")
	combinationsCmd.Flags().StringSliceVar(&combo.COs, "cos", nil, "course outcomes to include")

	eventsCmd.Flags().Int64Var(&eventsSince, "since", 0, "only entries after this sequence number")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 100, "maximum entries")
}
