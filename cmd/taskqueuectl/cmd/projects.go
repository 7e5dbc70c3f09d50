package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

func newProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage projects",
	}
	cmd.AddCommand(newProjectsCreateCmd())
	cmd.AddCommand(newProjectsListCmd())
	cmd.AddCommand(newProjectsGetCmd())
	return cmd
}

func newProjectsCreateCmd() *cobra.Command {
	var description, tags string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			var tagList []string
			if tags != "" {
				tagList = strings.Split(tags, ",")
			}
			out, err := client.CreateProject(c.Context(), args[0], description, tagList)
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "project description")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags")
	return cmd
}

func newProjectsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(c *cobra.Command, args []string) error {
			out, err := client.ListProjects(c.Context())
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
}

func newProjectsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <project-id>",
		Short: "Get a project by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			out, err := client.GetProject(c.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
}
