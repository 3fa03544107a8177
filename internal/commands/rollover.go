package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/focuslens/internal/db"
	"github.com/balkashynov/focuslens/internal/scheduler"
)

func newRolloverCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rollover",
		Short: "Move every overdue open task to the next day",
		Long: `Move every open task due before today one day later. Tasks overdue by several
days move by one day per run; the daemon runs this every night.`,
		Args: cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			moved, err := store.RolloverOverdueTasks(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rolled over %d overdue task(s)\n", moved)
			return nil
		}),
	}
}

func newDaemonCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the nightly rollover until interrupted",
		Long: `Run in the foreground and roll overdue tasks over on the configured
schedule (rollover.schedule, default 00:05 every day). Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			job := func(ctx context.Context) error {
				moved, err := store.RolloverOverdueTasks(ctx)
				if err != nil {
					return err
				}
				a.log.Info("overdue tasks rolled over", "moved", moved)
				return nil
			}

			sched, err := scheduler.New(a.cfg.Rollover.Schedule, job, a.log, scheduler.WithClock(a.now))
			if err != nil {
				return err
			}

			sched.Start(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "Rollover daemon running, next run at %s\n", sched.Next().Format("2006-01-02 15:04"))

			<-ctx.Done()

			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			sched.Stop(stopCtx)
			return nil
		}),
	}
}
