package commands

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/focuslens/internal/db"
	"github.com/balkashynov/focuslens/internal/parser"
	"github.com/balkashynov/focuslens/internal/tui"
)

var weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday}

func newTimesheetCmd(a *app) *cobra.Command {
	var week string

	cmd := &cobra.Command{
		Use:   "timesheet",
		Short: "Show tracked hours per task for a week",
		Long: `Show the focus time of closed sessions, pauses excluded, per task and weekday.

Example output:
  Task                     Mon  Tue  Wed  Thu  Fri    Total
  Design homepage          2.0  1.5    -    -    -      3.5
  Read chapter 3             -  0.5  1.0    -    -      1.5
  Total                    2.0  2.0  1.0    0    0      5.0`,
		Args: cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			weekOf := store.Now()
			if week != "" {
				day, err := parser.ParseDay(week)
				if err != nil {
					return err
				}
				weekOf = day
			}

			sheet, err := store.Timesheet(cmd.Context(), weekOf)
			if err != nil {
				return err
			}
			if len(sheet.Rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No time tracked this week.")
				return nil
			}
			printTimesheet(cmd.OutOrStdout(), sheet)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&week, "week", "w", "", "Any day of the week to show, YYYY-MM-DD")
	return cmd
}

// printTimesheet shows Mon-Fri always and the weekend only when it has time
func printTimesheet(w io.Writer, sheet *db.Timesheet) {
	var days []time.Weekday
	for i, day := range weekdays {
		if i < 5 || sheet.Daily[day] > 0 {
			days = append(days, day)
		}
	}

	nameWidth := 20
	for _, row := range sheet.Rows {
		nameWidth = max(nameWidth, len([]rune(row.Task.Title)))
	}
	nameWidth = min(nameWidth, 40)

	const dayWidth, totalWidth = 5, 7
	separator := func() {
		fmt.Fprint(w, strings.Repeat("-", nameWidth))
		for range days {
			fmt.Fprint(w, "  "+strings.Repeat("-", dayWidth-2))
		}
		fmt.Fprintln(w, "  "+strings.Repeat("-", totalWidth-2))
	}

	fmt.Fprintf(w, "%-*s", nameWidth, "Task")
	for _, day := range days {
		fmt.Fprintf(w, "  %*s", dayWidth-2, day.String()[:3])
	}
	fmt.Fprintf(w, "  %*s\n", totalWidth-2, "Total")
	separator()

	for _, row := range sheet.Rows {
		fmt.Fprintf(w, "%-*s", nameWidth, truncate(row.Task.Title, nameWidth))
		for _, day := range days {
			fmt.Fprintf(w, "  %*s", dayWidth-2, hoursCell(row.Daily[day], "-"))
		}
		fmt.Fprintf(w, "  %*s\n", totalWidth-2, hoursCell(row.Total, "0"))
	}

	separator()
	fmt.Fprintf(w, "%-*s", nameWidth, "Total")
	for _, day := range days {
		fmt.Fprintf(w, "  %*s", dayWidth-2, hoursCell(sheet.Daily[day], "0"))
	}
	fmt.Fprintf(w, "  %*s\n", totalWidth-2, hoursCell(sheet.Total, "0"))

	fmt.Fprintf(w, "\nWeek of %s to %s\n",
		sheet.WeekStart.Format("Jan 2"),
		parser.AddDays(sheet.WeekStart, 6).Format("Jan 2, 2006"))
}

// hoursCell rounds to the half hour above
func hoursCell(d time.Duration, empty string) string {
	if d <= 0 {
		return empty
	}
	return fmt.Sprintf("%.1f", math.Ceil(d.Hours()*2)/2)
}

func newWeekCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show completion of tasks due over the last 7 days",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			days, err := store.WeeklyHeatmap(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, day := range days {
				fmt.Fprintf(out, "%s %s  %s %3.0f%%  (%d/%d)\n",
					day.Date.Format("Mon"),
					day.Date.Format("2006-01-02"),
					bar(day.Percent(), 20),
					day.Percent(),
					day.Completed,
					day.Total)
			}
			return nil
		}),
	}
}

func newProgressCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "progress [project]",
		Short: "Show today's progress per project",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			ctx := cmd.Context()

			projects, err := store.ListProjects(ctx)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				id, err := store.ResolveProjectID(ctx, args[0])
				if err != nil {
					return err
				}
				project, err := store.GetProject(ctx, id)
				if err != nil {
					return err
				}
				projects = projects[:0]
				projects = append(projects, *project)
			}

			out := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintln(out, "No projects yet.")
				return nil
			}
			for _, project := range projects {
				p, err := store.ProjectProgress(ctx, project.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-24s %-9s %s %3.0f%%  (%d/%d due today)\n",
					truncate(project.Name, 24),
					project.Category.Label(),
					bar(p.Percent(), 20),
					p.Percent(),
					p.Completed,
					p.Total)
			}

			active, err := store.ActiveSessions(ctx)
			if err != nil {
				return err
			}
			for _, task := range active {
				fmt.Fprintf(out, "\nRunning: %s (%s)\n", task.Title, tui.FormatDuration(task.OpenSession().Elapsed(store.Now())))
			}
			return nil
		}),
	}
}

func bar(percent float64, width int) string {
	filled := int(math.Round(percent / 100 * float64(width)))
	filled = max(0, min(width, filled))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
