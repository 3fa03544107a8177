package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/focuslens/internal/db"
	"github.com/balkashynov/focuslens/internal/models"
	"github.com/balkashynov/focuslens/internal/parser"
)

func newAddCmd(a *app) *cobra.Command {
	var project, taskType, due string
	var hours int

	cmd := &cobra.Command{
		Use:   "add <task title>",
		Short: "Add a new task",
		Long: `Add a task to a project.

Due dates: today, tomorrow, yesterday, YYYY-MM-DD, "3 days", "2 weeks".

Examples:
  focuslens add "Design homepage" --project acme --hours 2
  focuslens add "Read chapter 3" -p "Go course" --type passive --due tomorrow`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			ctx := cmd.Context()

			projectID, err := store.ResolveProjectID(ctx, project)
			if err != nil {
				return err
			}
			tt, err := models.ParseTaskType(taskType)
			if err != nil {
				return err
			}
			dueDate, err := parser.ParseDueDate(due, store.Now())
			if err != nil {
				return fmt.Errorf("error parsing due date: %w", err)
			}

			task, err := store.CreateTask(ctx, db.CreateTaskRequest{
				ProjectID: projectID,
				Title:     strings.Join(args, " "),
				Type:      tt,
				EstHours:  hours,
				DueDate:   dueDate,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created task %s: %s\n", shortID(task.ID), task.Title)
			fmt.Fprintf(out, "  Type: %s, %dh\n", task.Type.Label(), task.EstHours)
			fmt.Fprintf(out, "  Due: %s\n", parser.FormatDueDate(task.DueDate, store.Now()))
			return nil
		}),
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project id, prefix or name (required)")
	cmd.Flags().StringVarP(&taskType, "type", "t", string(models.TypeIntensive), "Task type: intensive|passive")
	cmd.Flags().IntVar(&hours, "hours", models.MinEstHours, "Estimated hours, 1 to 4")
	cmd.Flags().StringVarP(&due, "due", "d", "today", "Due date")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
