package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/focuslens/internal/db"
	"github.com/balkashynov/focuslens/internal/models"
	"github.com/balkashynov/focuslens/internal/parser"
)

func newEditCmd(a *app) *cobra.Command {
	var title, project, taskType, due string
	var hours int

	cmd := &cobra.Command{
		Use:   "edit <task>",
		Short: "Edit an existing task",
		Long: `Edit an existing task. Only the flags given are changed.

Examples:
  focuslens edit 3f2a --title "Design landing page"
  focuslens edit 3f2a --due "2 days" --hours 3`,
		Args: cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			ctx := cmd.Context()
			id, err := store.ResolveTaskID(ctx, args[0])
			if err != nil {
				return err
			}

			var changes db.TaskUpdate
			flags := cmd.Flags()
			if flags.Changed("title") {
				changes.Title = &title
			}
			if flags.Changed("project") {
				projectID, err := store.ResolveProjectID(ctx, project)
				if err != nil {
					return err
				}
				changes.ProjectID = &projectID
			}
			if flags.Changed("type") {
				tt, err := models.ParseTaskType(taskType)
				if err != nil {
					return err
				}
				changes.Type = &tt
			}
			if flags.Changed("hours") {
				changes.EstHours = &hours
			}
			if flags.Changed("due") {
				dueDate, err := parser.ParseDueDate(due, store.Now())
				if err != nil {
					return fmt.Errorf("error parsing due date: %w", err)
				}
				changes.DueDate = &dueDate
			}

			task, err := store.UpdateTask(ctx, id, changes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s: %s (due %s)\n",
				shortID(task.ID), task.Title, parser.FormatDueDate(task.DueDate, store.Now()))
			return nil
		}),
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&project, "project", "p", "", "Move to another project")
	cmd.Flags().StringVarP(&taskType, "type", "t", "", "Task type: intensive|passive")
	cmd.Flags().IntVar(&hours, "hours", 0, "Estimated hours, 1 to 4")
	cmd.Flags().StringVarP(&due, "due", "d", "", "Due date")
	return cmd
}
