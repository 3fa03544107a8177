package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/balkashynov/focuslens/internal/db"
	"github.com/balkashynov/focuslens/internal/transfer"
)

// backupName is the default export file name for a given day
func backupName(a *app) string {
	return fmt.Sprintf("focuslens-backup-%s.json", a.now().Format("20060102"))
}

// writeFile creates path and fills it with write. A failed write removes the
// file so no partial backup is left behind.
func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func newExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every project and task to JSON",
		Long: `Export every project, task and session to a JSON document.

Examples:
  focuslens export                  # writes focuslens-backup-YYYYMMDD.json
  focuslens export -o backup.json
  focuslens export -o -             # writes to stdout`,
		Args: cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			engine := a.transfer(store)
			if output == "-" {
				return engine.ExportJSON(cmd.Context(), cmd.OutOrStdout())
			}
			if output == "" {
				output = backupName(a)
			}

			err := writeFile(output, func(w io.Writer) error {
				return engine.ExportJSON(cmd.Context(), w)
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", output)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var modeName string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON export",
		Long: `Import a document written by 'focuslens export'.

Modes:
  merge    add new records and update existing ones by id (default)
  replace  delete everything first, then load the document`,
		Args: cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			mode, err := transfer.ParseMode(modeName)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			result, err := a.transfer(store).Import(cmd.Context(), f, mode)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %s (%s)\n", args[0], mode)
			fmt.Fprintf(out, "  Projects: %d added, %d updated\n", result.ProjectsAdded, result.ProjectsUpdated)
			fmt.Fprintf(out, "  Tasks: %d added, %d updated\n", result.TasksAdded, result.TasksUpdated)
			if len(result.Skipped) > 0 {
				fmt.Fprintf(out, "  Skipped %d record(s):\n", len(result.Skipped))
				for _, skip := range result.Skipped {
					fmt.Fprintf(out, "    %s[%d] %s: %s\n", skip.Collection, skip.Index, skip.ID, skip.Reason)
				}
			}
			return nil
		}),
	}
	cmd.Flags().StringVarP(&modeName, "mode", "m", string(transfer.ModeMerge), "Import mode: merge|replace")
	return cmd
}

func newImportCSVCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import-csv <file>",
		Short: "Create tasks from a CSV file",
		Long: `Create one task per CSV row. The header must name the columns
project_nom, titre, type, estHeures and dueDate, in any order.

Example:
  project_nom,titre,type,estHeures,dueDate
  Acme,Design homepage,intensif,2,2024-01-15

Missing projects are created as work projects. Invalid rows are skipped and listed.`,
		Args: cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			result, err := a.transfer(store).ImportCSV(cmd.Context(), f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added %d task(s), created %d project(s)\n", result.Added, result.ProjectsCreated)
			for _, skip := range result.Skipped {
				fmt.Fprintf(out, "  Skipped line %d: %s\n", skip.Line, skip.Reason)
			}
			return nil
		}),
	}
}
