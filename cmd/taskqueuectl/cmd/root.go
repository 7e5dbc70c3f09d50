package cmd

import (
	"github.com/hivellm/taskqueue-go/internal/apiclient"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	authToken string
	client    *apiclient.Client
)

var rootCmd = &cobra.Command{
	Use:   "taskqueuectl",
	Short: "Command-line client for the task-queue server",
	Long:  "taskqueuectl talks to a running taskqueued server's REST API to manage projects, tasks, and workflows.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		client = apiclient.New(serverURL)
		client.Token = authToken
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:16080", "task-queue server base URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "bearer token, if the server has auth enabled")

	rootCmd.AddCommand(newTasksCmd())
	rootCmd.AddCommand(newProjectsCmd())
	rootCmd.AddCommand(newWorkflowsCmd())
}
