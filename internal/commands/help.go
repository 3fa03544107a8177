package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Show help for focuslens or one of its commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				target, _, err := cmd.Root().Find(args)
				if err != nil {
					return err
				}
				return target.Help()
			}
			fmt.Fprint(cmd.OutOrStdout(), overview)
			return nil
		},
	}
}

const overview = `
focuslens - planner and focus session tracker

PROJECTS
  project add <name>       Create a project
    -c, --category         work|learning
    --color                Hex color, random when empty
  project ls               List projects
  project edit <project>   Change --name, --category or --color
  project rm <project>     Delete a project and its tasks

TASKS
  add <title>              Create a task
    -p, --project          Project id, prefix or name (required)
    -t, --type             intensive|passive
    --hours                Estimated hours, 1 to 4
    -d, --due              today, tomorrow, YYYY-MM-DD, "3 days", "2 weeks"
  ls                       List tasks
    -v, --view             today|overdue|upcoming|completed|all
    -p, --project          Only one project
    -c, --category         Only work or learning projects
    --days                 Window of the completed view
    --from, --to           Due day range
  edit <task>              Change --title, --project, --type, --hours, --due
  done <task>              Mark completed
  undone <task>            Mark back to todo
  rm <task>                Delete a task

SESSIONS
  start <task>             Start a session with the interactive timer
    --no-ui                Start without the timer
  stop [task]              Stop the running session
    --pauses               Minutes of pauses
    --ressenti             1 to 5, not recorded for learning projects
    --done                 Also complete the task
  status                   Show running sessions

PLANNING
  rollover                 Move overdue tasks to the next day
  daemon                   Run the rollover every night
  week                     Completion of the last 7 days
  progress [project]       Today's progress per project
  timesheet                Tracked hours per task this week

DATA
  export [-o file]         Write a JSON backup
  import <file>            Load a JSON backup (--mode merge|replace)
  import-csv <file>        Create tasks from CSV
  config init|show         Manage ~/.focuslens/config.yaml
  version                  Show version information

Task and project arguments accept a full id or any unique prefix; projects
also accept their exact name.

`

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "focuslens %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
