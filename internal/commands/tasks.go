package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"trackctl/internal/config"
	"trackctl/internal/exitcode"
	"trackctl/internal/output"
	"trackctl/internal/service"
)

func init() {
	Register(&TasksCmd{})
}

// TasksCmd implements the tasks command.
type TasksCmd struct {
	status string
}

// SetStatus sets the status filter (for testing).
func (c *TasksCmd) SetStatus(status string) {
	c.status = status
}

func (c *TasksCmd) Name() string      { return "tasks" }
func (c *TasksCmd) Aliases() []string { return nil }
func (c *TasksCmd) Synopsis() string  { return "List a project's tasks" }
func (c *TasksCmd) Usage() string {
	return "trackctl tasks [common flags] [--status <s>] <project-id>"
}
func (c *TasksCmd) NeedsAuth() bool { return true }

func (c *TasksCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.status, "s", "", "")
}

func (c *TasksCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: project id required")
		return exitcode.UserError
	}
	projectID, err := parseID(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if c.status != "" && !service.ValidStatus(c.status) {
		fmt.Fprintf(errOut, "error: invalid status: %s\n", c.status)
		return exitcode.UserError
	}

	tasks, err := svc.Tasks(ctx, projectID, c.status)
	if err != nil {
		return failureExit(err, errOut)
	}

	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}
	for _, t := range tasks {
		output.FormatTask(out, t)
	}
	return exitcode.Success
}
