package cmd

import (
	"github.com/hivellm/taskqueue-go/internal/apiclient"
	"github.com/spf13/cobra"
)

func newWorkflowsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflows",
		Short: "Manage task dependency workflows",
	}
	cmd.AddCommand(newWorkflowsSubmitCmd())
	cmd.AddCommand(newWorkflowsListCmd())
	cmd.AddCommand(newWorkflowsGetCmd())
	cmd.AddCommand(newWorkflowsApproveCmd())
	return cmd
}

func newWorkflowsSubmitCmd() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "submit <name>",
		Short: "Submit a workflow (tasks must be added afterward via tasks submit)",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			out, err := client.SubmitWorkflow(c.Context(), args[0], description, []apiclient.TaskPayload{})
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "workflow description")
	return cmd
}

func newWorkflowsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List workflows",
		RunE: func(c *cobra.Command, args []string) error {
			out, err := client.ListWorkflows(c.Context())
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
}

func newWorkflowsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <workflow-id>",
		Short: "Get a workflow by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			out, err := client.GetWorkflow(c.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
}

func newWorkflowsApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <workflow-id>",
		Short: "Approve a Pending workflow, moving it to Running",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			out, err := client.ApproveWorkflow(c.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
}
