package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/focuslens/internal/db"
	"github.com/balkashynov/focuslens/internal/models"
	"github.com/balkashynov/focuslens/internal/tui"
)

func newStartCmd(a *app) *cobra.Command {
	var noUI bool

	cmd := &cobra.Command{
		Use:   "start <task>",
		Short: "Start a focus session on a task",
		Long: `Start a focus session on a task. Opens the interactive timer by default, use --no-ui for simple start.

Examples:
  focuslens start 3f2a          # Start with the interactive timer
  focuslens start 3f2a --no-ui  # Start without UI, stop later with 'focuslens stop'`,
		Args: cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			ctx := cmd.Context()
			taskID, err := store.ResolveTaskID(ctx, args[0])
			if err != nil {
				return err
			}

			sessionID, err := store.StartSession(ctx, taskID)
			if err != nil {
				return err
			}

			if !noUI {
				return tui.RunTimer(ctx, store, taskID, sessionID, cmd.OutOrStdout())
			}

			task, err := store.GetTask(ctx, taskID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Started session on task %s: %s\n", shortID(task.ID), task.Title)
			fmt.Fprintf(cmd.OutOrStdout(), "Started at: %s\n", task.OpenSession().Start.Format("15:04:05"))
			return nil
		}),
	}
	cmd.Flags().BoolVar(&noUI, "no-ui", false, "Start without the interactive timer")
	return cmd
}

func newStopCmd(a *app) *cobra.Command {
	var pauses, ressenti int
	var session string
	var complete bool

	cmd := &cobra.Command{
		Use:   "stop [task]",
		Short: "Stop a focus session",
		Long: `Stop the running session of a task and record its feedback. Without a task
argument the only running session is stopped.

Examples:
  focuslens stop --pauses 10 --ressenti 4
  focuslens stop 3f2a --done`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			ctx := cmd.Context()

			task, err := stopTarget(ctx, store, args)
			if err != nil {
				return err
			}

			sessionID := session
			if sessionID == "" {
				open := task.OpenSession()
				if open == nil {
					return fmt.Errorf("task %s has no running session", shortID(task.ID))
				}
				sessionID = open.ID
			}

			req := db.StopSessionRequest{
				TaskID:        task.ID,
				SessionID:     sessionID,
				PausesMinutes: pauses,
				MarkCompleted: complete,
			}
			if cmd.Flags().Changed("ressenti") {
				req.Ressenti = &ressenti
			}

			updated, err := store.StopSession(ctx, req)
			if err != nil {
				return err
			}
			tui.PrintStopped(cmd.OutOrStdout(), updated, sessionID)
			return nil
		}),
	}
	cmd.Flags().IntVar(&pauses, "pauses", 0, "Minutes of pauses during the session")
	cmd.Flags().IntVar(&ressenti, "ressenti", 0, "How the session felt, 1 to 5 (ignored for learning projects)")
	cmd.Flags().StringVar(&session, "session", "", "Session id, defaults to the running one")
	cmd.Flags().BoolVar(&complete, "done", false, "Also mark the task completed")
	return cmd
}

// stopTarget resolves the task named in args, or the single task with a running session
func stopTarget(ctx context.Context, store *db.Store, args []string) (*models.Task, error) {
	if len(args) == 1 {
		id, err := store.ResolveTaskID(ctx, args[0])
		if err != nil {
			return nil, err
		}
		return store.GetTask(ctx, id)
	}

	active, err := store.ActiveSessions(ctx)
	if err != nil {
		return nil, err
	}
	switch len(active) {
	case 0:
		return nil, fmt.Errorf("no running session")
	case 1:
		return &active[0], nil
	}

	refs := make([]string, 0, len(active))
	for _, t := range active {
		refs = append(refs, shortID(t.ID))
	}
	return nil, fmt.Errorf("%d sessions are running (%s), name the task to stop", len(active), strings.Join(refs, ", "))
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show running sessions",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			active, err := store.ActiveSessions(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(active) == 0 {
				fmt.Fprintln(out, "No running session")
				return nil
			}

			now := store.Now()
			for _, task := range active {
				open := task.OpenSession()
				fmt.Fprintf(out, "Running: task %s: %s\n", shortID(task.ID), task.Title)
				fmt.Fprintf(out, "  Started at: %s\n", open.Start.Format("15:04:05"))
				fmt.Fprintf(out, "  Elapsed: %s\n", tui.FormatDuration(open.Elapsed(now)))
			}
			return nil
		}),
	}
}
