package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/focuslens/internal/db"
	"github.com/balkashynov/focuslens/internal/models"
	"github.com/balkashynov/focuslens/internal/parser"
)

type listOptions struct {
	view     string
	project  string
	category string
	days     int
	from     string
	to       string
}

func newListCmd(a *app) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks",
		Long: `List tasks by view, project, category or due date range.

Views:
  today      open tasks due today
  overdue    open tasks due before today
  upcoming   open tasks due after today
  completed  tasks completed in the last --days days
  all        every task (default)

Examples:
  focuslens ls --view today
  focuslens ls --view completed --days 14
  focuslens ls --project acme --view overdue
  focuslens ls --from 2024-01-01 --to 2024-01-07`,
		Args: cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			if !cmd.Flags().Changed("days") {
				opts.days = a.cfg.Query.CompletedDays
			}
			tasks, err := queryTasks(cmd.Context(), store, opts)
			if err != nil {
				return err
			}

			projects, err := projectIndex(cmd.Context(), store)
			if err != nil {
				return err
			}

			if opts.category != "" {
				cat, err := models.ParseCategory(opts.category)
				if err != nil {
					return err
				}
				tasks = filterCategory(tasks, projects, cat)
			}

			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks found. Use 'focuslens add \"task title\" --project <name>' to create one.")
				return nil
			}
			printTasks(out, tasks, projects, store.Now())
			return nil
		}),
	}
	cmd.Flags().StringVarP(&opts.view, "view", "v", "", "View: today|overdue|upcoming|completed|all")
	cmd.Flags().StringVarP(&opts.project, "project", "p", "", "Only tasks of this project (id, prefix or name)")
	cmd.Flags().StringVarP(&opts.category, "category", "c", "", "Only tasks of projects in this category: work|learning")
	cmd.Flags().IntVar(&opts.days, "days", db.DefaultCompletedDays, "Look-back window of the completed view, in days")
	cmd.Flags().StringVar(&opts.from, "from", "", "First due day, YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.to, "to", "", "Last due day, YYYY-MM-DD")
	return cmd
}

func queryTasks(ctx context.Context, store *db.Store, opts listOptions) ([]models.Task, error) {
	if opts.from != "" || opts.to != "" {
		return queryRange(ctx, store, opts.from, opts.to)
	}

	view, err := db.ParseView(opts.view)
	if err != nil {
		return nil, err
	}

	if opts.project != "" {
		id, err := store.ResolveProjectID(ctx, opts.project)
		if err != nil {
			return nil, err
		}
		return store.ProjectView(ctx, id, view)
	}
	return store.Tasks(ctx, view, opts.days)
}

// queryRange lists tasks between two days; a missing bound collapses the range to one day
func queryRange(ctx context.Context, store *db.Store, from, to string) ([]models.Task, error) {
	if from == "" {
		from = to
	}
	if to == "" {
		to = from
	}

	fromDay, err := parser.ParseDay(from)
	if err != nil {
		return nil, err
	}
	toDay, err := parser.ParseDay(to)
	if err != nil {
		return nil, err
	}
	if toDay.Before(fromDay) {
		return nil, fmt.Errorf("--to %s is before --from %s", to, from)
	}
	return store.TasksInRange(ctx, fromDay, toDay)
}

func projectIndex(ctx context.Context, store *db.Store) (map[string]models.Project, error) {
	projects, err := store.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]models.Project, len(projects))
	for _, p := range projects {
		index[p.ID] = p
	}
	return index, nil
}

func filterCategory(tasks []models.Task, projects map[string]models.Project, cat models.ProjectCategory) []models.Task {
	var kept []models.Task
	for _, task := range tasks {
		if projects[task.ProjectID].Category == cat {
			kept = append(kept, task)
		}
	}
	return kept
}

// printTasks renders tasks as a table
func printTasks(w io.Writer, tasks []models.Task, projects map[string]models.Project, now time.Time) {
	fmt.Fprintf(w, "%-10s %-6s %-34s %-16s %-9s %-5s %s\n", "ID", "STATUS", "TITLE", "PROJECT", "TYPE", "HOURS", "DUE")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, task := range tasks {
		status := "todo"
		switch {
		case task.IsCompleted():
			status = "done"
		case task.OpenSession() != nil:
			status = "timing"
		}

		fmt.Fprintf(w, "%-10s %-6s %-34s %-16s %-9s %-5d %s\n",
			shortID(task.ID),
			status,
			truncate(task.Title, 34),
			truncate(projects[task.ProjectID].Name, 16),
			task.Type.Label(),
			task.EstHours,
			parser.FormatDueDate(task.DueDate, now))
	}
}

// shortID is the prefix shown in tables; any unique prefix resolves back
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
