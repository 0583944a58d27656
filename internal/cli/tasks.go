package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"matrix-planner/internal/model"
	"matrix-planner/internal/service"
	"matrix-planner/internal/stats"
)

func newAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Capture a task",
		Long: `Capture a task. Pick its quadrant with --quadrant, or set the flags
with --important and --urgent. A task with neither lands in Eliminate.`,
		Args: cobra.MinimumNArgs(1),
	}
	important := cmd.Flags().BoolP("important", "i", false, "Mark the task important")
	urgent := cmd.Flags().BoolP("urgent", "u", false, "Mark the task urgent")
	quadrant := cmd.Flags().StringP("quadrant", "q", "", "Quadrant: do, plan, delegate, eliminate or 1-4")

	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args, " ")
		imp, urg := *important, *urgent
		if *quadrant != "" {
			q, err := model.ParseQuadrant(*quadrant)
			if err != nil {
				return fmt.Errorf("%w: %s", service.ErrInvalidQuadrant, *quadrant)
			}
			imp, urg = q.Flags()
		}

		a.ui.ToggleQuickCapture(true)
		a.ui.SetCaptureDraft(title, imp, urg)
		task, err := a.taskSvc.CaptureDraft()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added #%d %q to %s\n", task.ID, task.Title, task.Quadrant().Label())
		return nil
	})
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks for today or for one quadrant of the week",
		Args:  cobra.NoArgs,
	}
	view := cmd.Flags().String("view", string(model.ViewToday), "View: today or week")
	quadrant := cmd.Flags().StringP("quadrant", "q", string(model.QuadrantDo), "Quadrant shown by the week view")

	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		v, err := model.ParseView(*view)
		if err != nil {
			return err
		}
		switch v {
		case model.ViewWeek:
			q, err := model.ParseQuadrant(*quadrant)
			if err != nil {
				return fmt.Errorf("%w: %s", service.ErrInvalidQuadrant, *quadrant)
			}
			a.ui.SwitchToWeekView()
			a.ui.SwitchQuadrant(q)
		default:
			a.ui.SwitchToTodayView()
		}
		return a.printList(cmd.OutOrStdout())
	})
	return cmd
}

// printList renders whatever the UI store currently selects.
func (a *app) printList(w io.Writer) error {
	st := a.ui.Snapshot()
	all := a.tasks.Tasks()

	var tasks []model.Task
	switch st.View {
	case model.ViewWeek:
		tasks = stats.QuadrantTasks(all, st.Quadrant)
		fmt.Fprintf(w, "Week · %s\n", st.Quadrant.Label())
	default:
		tasks = stats.TodayTasks(all)
		fmt.Fprintf(w, "Today · plan share %d%%\n", stats.Q2Ratio(all))
	}

	if len(tasks) == 0 {
		fmt.Fprintln(w, "  nothing here")
		return nil
	}
	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(w, "  [%s] #%d %-40s %s\n", mark, t.ID, t.Title, t.Quadrant().Label())
	}
	return nil
}

func (a *app) toggleCompleted(id int64) (model.Task, error) { return a.taskSvc.ToggleCompleted(id) }
func (a *app) toggleImportant(id int64) (model.Task, error) { return a.taskSvc.ToggleImportant(id) }
func (a *app) toggleUrgent(id int64) (model.Task, error) { return a.taskSvc.ToggleUrgent(id) }

func newToggleCmd(a *app, use, short string, action func(int64) (model.Task, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := action(id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.ui.Snapshot().StatusMessage)
			return nil
		}),
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := a.taskSvc.Delete(id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.ui.Snapshot().StatusMessage)
			return nil
		}),
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completion statistics",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			tasks := a.tasks.Tasks()
			now := a.now()

			summary := stats.Summarize(tasks, now)
			progress := stats.TodayProgress(tasks)
			counts := stats.QuadrantCounts(tasks)

			fmt.Fprintf(w, "Tasks:            %d open, %d completed, %d total\n",
				summary.TotalTasks, summary.TotalCompleted, summary.TotalAll)
			fmt.Fprintf(w, "Completed today:  %d\n", summary.CompletedToday)
			fmt.Fprintf(w, "Completion rate:  %d%%\n", stats.CompletionRate(tasks))
			fmt.Fprintf(w, "Today progress:   %d/%d (%d%% done, %d left)\n",
				progress.Completed, progress.Total, progress.CompletionRate, progress.Remaining)
			fmt.Fprintf(w, "Plan share:       %d%% (%s)\n", stats.Q2Ratio(tasks), stats.Q2Band(tasks))
			urgent := stats.UrgentDependency(tasks)
			fmt.Fprintf(w, "Urgent share:     %d%% (%s)\n", urgent, stats.UrgentBand(urgent))
			fmt.Fprintf(w, "Last 7 days:      %d completed\n", stats.WeeklyProgress(tasks, now))
			fmt.Fprintln(w, "Open by quadrant:")
			for _, q := range model.Quadrants() {
				fmt.Fprintf(w, "  %-10s %d\n", q.Label(), counts[q])
			}
			return nil
		}),
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, errors.New("task id must be a number")
	}
	return id, nil
}
