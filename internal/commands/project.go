package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/focuslens/internal/db"
	"github.com/balkashynov/focuslens/internal/models"
)

func newProjectCmd(a *app) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects", "p"},
		Short:   "Manage projects",
	}
	projectCmd.AddCommand(newProjectAddCmd(a))
	projectCmd.AddCommand(newProjectListCmd(a))
	projectCmd.AddCommand(newProjectEditCmd(a))
	projectCmd.AddCommand(newProjectRemoveCmd(a))
	return projectCmd
}

func newProjectAddCmd(a *app) *cobra.Command {
	var category, color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a project",
		Long: `Create a project. Category is work (travail) or learning (apprentissage).

Examples:
  focuslens project add "Acme redesign" --category work
  focuslens project add "Go course" -c learning --color "#7CD8FF"`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			cat, err := models.ParseCategory(category)
			if err != nil {
				return err
			}
			if color == "" {
				color = a.transfer(store).Color()
			}

			project, err := store.CreateProject(cmd.Context(), db.CreateProjectRequest{
				Name:     strings.Join(args, " "),
				Category: cat,
				ColorHex: color,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s: %s (%s)\n", shortID(project.ID), project.Name, project.Category.Label())
			return nil
		}),
	}
	cmd.Flags().StringVarP(&category, "category", "c", string(models.CategoryWork), "Category: work|learning")
	cmd.Flags().StringVar(&color, "color", "", "Hex color, random from the palette when empty")
	return cmd
}

func newProjectListCmd(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List projects",
		Args:    cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			var projects []models.Project
			var err error
			if category != "" {
				cat, perr := models.ParseCategory(category)
				if perr != nil {
					return perr
				}
				projects, err = store.ProjectsByCategory(cmd.Context(), cat)
			} else {
				projects, err = store.ListProjects(cmd.Context())
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintln(out, "No projects yet. Use 'focuslens project add <name>' to create one.")
				return nil
			}

			fmt.Fprintf(out, "%-10s %-30s %-14s %s\n", "ID", "NAME", "CATEGORY", "COLOR")
			fmt.Fprintln(out, strings.Repeat("-", 64))
			for _, p := range projects {
				fmt.Fprintf(out, "%-10s %-30s %-14s %s\n", shortID(p.ID), truncate(p.Name, 30), p.Category.Label(), p.ColorHex)
			}
			return nil
		}),
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "Filter by category: work|learning")
	return cmd
}

func newProjectEditCmd(a *app) *cobra.Command {
	var name, category, color string

	cmd := &cobra.Command{
		Use:   "edit <project>",
		Short: "Rename or recategorize a project",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			ctx := cmd.Context()
			id, err := store.ResolveProjectID(ctx, args[0])
			if err != nil {
				return err
			}

			var changes db.ProjectUpdate
			if cmd.Flags().Changed("name") {
				changes.Name = &name
			}
			if cmd.Flags().Changed("category") {
				cat, err := models.ParseCategory(category)
				if err != nil {
					return err
				}
				changes.Category = &cat
			}
			if cmd.Flags().Changed("color") {
				changes.ColorHex = &color
			}

			project, err := store.UpdateProject(ctx, id, changes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s: %s (%s)\n", shortID(project.ID), project.Name, project.Category.Label())
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVarP(&category, "category", "c", "", "New category: work|learning")
	cmd.Flags().StringVar(&color, "color", "", "New hex color")
	return cmd
}

func newProjectRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <project>",
		Aliases: []string{"delete"},
		Short:   "Delete a project and all of its tasks",
		Args:    cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *db.Store) error {
			ctx := cmd.Context()
			id, err := store.ResolveProjectID(ctx, args[0])
			if err != nil {
				return err
			}
			project, err := store.GetProject(ctx, id)
			if err != nil {
				return err
			}

			removed, err := store.DeleteProject(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s and %d task(s)\n", project.Name, removed)
			return nil
		}),
	}
}
