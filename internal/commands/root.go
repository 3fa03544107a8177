package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/focuslens/internal/config"
	"github.com/balkashynov/focuslens/internal/db"
	"github.com/balkashynov/focuslens/internal/logging"
	"github.com/balkashynov/focuslens/internal/transfer"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app is the state shared by every command of one invocation
type app struct {
	cfgPath string
	cfg     *config.Config
	log     *slog.Logger
	now     func() time.Time
}

func newApp() *app {
	return &app{
		cfgPath: config.DefaultPath(),
		cfg:     config.Default(),
		log:     logging.Discard(),
		now:     time.Now,
	}
}

// load reads the config file and builds the logger; it runs before every command
func (a *app) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", a.cfgPath, err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger
	return nil
}

func (a *app) openStore() (*db.Store, error) {
	level, err := db.ParseSQLLogLevel(a.cfg.Database.LogLevel)
	if err != nil {
		return nil, err
	}
	return db.Open(a.cfg.Database.Path,
		db.WithClock(a.now),
		db.WithLogger(a.log),
		db.WithSQLLogLevel(level),
	)
}

// withStore wraps a command function to open the database first and close it after
func (a *app) withStore(fn func(cmd *cobra.Command, args []string, store *db.Store) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		store, err := a.openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		return fn(cmd, args, store)
	}
}

func (a *app) transfer(store *db.Store) *transfer.Engine {
	return transfer.New(store,
		transfer.WithLogger(a.log),
		transfer.WithPalette(a.cfg.Import.Palette),
	)
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "focuslens",
		Short: "A personal planner with focus session tracking",
		Long: `focuslens plans work and learning tasks by calendar day and tracks the
focus sessions spent on them. Overdue tasks roll over to the next day, and the
whole store can be exported, imported, or bulk-loaded from CSV.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}
	rootCmd.PersistentFlags().StringVar(&a.cfgPath, "config", a.cfgPath, "Config file")

	rootCmd.AddCommand(newProjectCmd(a))
	rootCmd.AddCommand(newAddCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newEditCmd(a))
	rootCmd.AddCommand(newDoneCmd(a))
	rootCmd.AddCommand(newUndoneCmd(a))
	rootCmd.AddCommand(newRemoveCmd(a))
	rootCmd.AddCommand(newStartCmd(a))
	rootCmd.AddCommand(newStopCmd(a))
	rootCmd.AddCommand(newStatusCmd(a))
	rootCmd.AddCommand(newRolloverCmd(a))
	rootCmd.AddCommand(newDaemonCmd(a))
	rootCmd.AddCommand(newExportCmd(a))
	rootCmd.AddCommand(newImportCmd(a))
	rootCmd.AddCommand(newImportCSVCmd(a))
	rootCmd.AddCommand(newWeekCmd(a))
	rootCmd.AddCommand(newProgressCmd(a))
	rootCmd.AddCommand(newTimesheetCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.SetHelpCommand(newHelpCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return newRootCmd(newApp()).ExecuteContext(ctx)
}
