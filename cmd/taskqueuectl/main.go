// Command taskqueuectl is a CLI front-end to the task-queue server's
// REST API: projects, tasks, and workflows subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/hivellm/taskqueue-go/cmd/taskqueuectl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
