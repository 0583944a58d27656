package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the daily summary or the weekly review",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "daily",
		Short: "Today's important or urgent tasks, progress and big rocks",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.reports.DailySummary(a.now()))
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "weekly",
		Short: "Completion, plan share and urgent dependency over the last seven days",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			a.ui.ToggleWeeklyReview(true)
			defer a.ui.ToggleWeeklyReview(false)
			fmt.Fprintln(cmd.OutOrStdout(), a.reports.WeeklyReview(a.now()))
			return nil
		}),
	})
	return cmd
}
