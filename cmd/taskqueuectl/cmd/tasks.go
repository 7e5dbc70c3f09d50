package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/hivellm/taskqueue-go/internal/apiclient"
	"github.com/spf13/cobra"
)

func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage tasks",
	}
	cmd.AddCommand(newTasksSubmitCmd())
	cmd.AddCommand(newTasksListCmd())
	cmd.AddCommand(newTasksGetCmd())
	cmd.AddCommand(newTasksCancelCmd())
	cmd.AddCommand(newTasksRetryCmd())
	cmd.AddCommand(newTasksAdvancePhaseCmd())
	cmd.AddCommand(newTasksAdvanceWorkflowCmd())
	cmd.AddCommand(newTasksDeleteCmd())
	return cmd
}

func newTasksSubmitCmd() *cobra.Command {
	var (
		command            string
		description        string
		projectID          string
		taskType           string
		priority           string
		aiReviewsRequired  int
	)
	cmd := &cobra.Command{
		Use:   "submit <name>",
		Short: "Submit a new task",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			out, err := client.SubmitTask(c.Context(), apiclient.TaskPayload{
				Name:              args[0],
				Command:           command,
				Description:       description,
				ProjectID:         projectID,
				TaskType:          taskType,
				Priority:          priority,
				AIReviewsRequired: aiReviewsRequired,
			})
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
	cmd.Flags().StringVar(&command, "command", "", "the shell command or instruction the task represents")
	cmd.Flags().StringVar(&description, "description", "", "human-readable description")
	cmd.Flags().StringVar(&projectID, "project", "", "owning project ID")
	cmd.Flags().StringVar(&taskType, "type", "", "task type")
	cmd.Flags().StringVar(&priority, "priority", "", "priority: low, normal, high, critical")
	cmd.Flags().IntVar(&aiReviewsRequired, "ai-reviews-required", 0, "number of AI reviews required before completion")
	_ = cmd.MarkFlagRequired("command")
	return cmd
}

func newTasksListCmd() *cobra.Command {
	var projectID, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(c *cobra.Command, args []string) error {
			out, err := client.ListTasks(c.Context(), projectID, status)
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "filter by project ID")
	cmd.Flags().StringVar(&status, "status", "", "filter by effective status")
	return cmd
}

func newTasksGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <task-id>",
		Short: "Get a task by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			out, err := client.GetTask(c.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
}

func newTasksCancelCmd() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "cancel <task-id>",
		Short: "Cancel a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			out, err := client.CancelTask(c.Context(), args[0], reason)
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "cancellation reason")
	return cmd
}

func newTasksRetryCmd() *cobra.Command {
	var resetRetryCount bool
	cmd := &cobra.Command{
		Use:   "retry <task-id>",
		Short: "Retry a failed task",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			out, err := client.RetryTask(c.Context(), args[0], resetRetryCount)
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
	cmd.Flags().BoolVar(&resetRetryCount, "reset-retry-count", false, "reset the retry counter to zero")
	return cmd
}

func newTasksAdvancePhaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advance-phase <task-id>",
		Short: "Advance a task to the next lifecycle phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			out, err := client.AdvancePhase(c.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
}

func newTasksAdvanceWorkflowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advance-workflow <task-id>",
		Short: "Advance a task's development workflow one step",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			out, err := client.AdvanceWorkflow(c.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
}

func newTasksDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			out, err := client.DeleteTask(c.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
