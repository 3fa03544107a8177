package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/focuslens/internal/db"
)

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			id, err := store.ResolveTaskID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			task, err := store.CompleteTask(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Marked task %s as done: %s\n", shortID(task.ID), task.Title)
			if task.CompletedAt != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Completed at: %s\n", task.CompletedAt.Local().Format("15:04:05"))
			}
			return nil
		}),
	}
}

func newUndoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "undone <task>",
		Short: "Mark a completed task back to todo",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			id, err := store.ResolveTaskID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			task, err := store.ReopenTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked task %s back to todo: %s\n", shortID(task.ID), task.Title)
			return nil
		}),
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task>",
		Aliases: []string{"delete"},
		Short:   "Delete a task and its sessions",
		Args:    cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			ctx := cmd.Context()
			id, err := store.ResolveTaskID(ctx, args[0])
			if err != nil {
				return err
			}
			task, err := store.GetTask(ctx, id)
			if err != nil {
				return err
			}
			if err := store.DeleteTask(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s: %s\n", shortID(task.ID), task.Title)
			return nil
		}),
	}
}
