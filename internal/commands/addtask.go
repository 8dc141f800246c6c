package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"trackctl/internal/config"
	"trackctl/internal/exitcode"
	"trackctl/internal/service"
)

func init() {
	Register(&AddTaskCmd{})
}

// AddTaskCmd implements the addtask command.
type AddTaskCmd struct {
	due    string
	status string
}

// SetDue sets the due date (for testing).
func (c *AddTaskCmd) SetDue(due string) {
	c.due = due
}

// SetStatus sets the initial status (for testing).
func (c *AddTaskCmd) SetStatus(status string) {
	c.status = status
}

func (c *AddTaskCmd) Name() string      { return "addtask" }
func (c *AddTaskCmd) Aliases() []string { return []string{"add"} }
func (c *AddTaskCmd) Synopsis() string  { return "Create a task" }
func (c *AddTaskCmd) Usage() string {
	return "trackctl addtask [common flags] [--due YYYY-MM-DD] [--status <s>] <project-id> <title...>"
}
func (c *AddTaskCmd) NeedsAuth() bool { return true }

func (c *AddTaskCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.status, "status", "", "")
}

func (c *AddTaskCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintln(errOut, "error: project id and title required")
		return exitcode.UserError
	}
	projectID, err := parseID(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	title := strings.TrimSpace(strings.Join(args[1:], " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}
	if c.status != "" && !service.ValidStatus(c.status) {
		fmt.Fprintf(errOut, "error: invalid status: %s\n", c.status)
		return exitcode.UserError
	}
	if c.due != "" {
		if _, err := time.Parse("2006-01-02", c.due); err != nil {
			fmt.Fprintf(errOut, "error: invalid due date: %s\n", c.due)
			return exitcode.UserError
		}
	}

	task, err := svc.CreateTask(ctx, service.NewTask{
		Title:     title,
		DueDate:   c.due,
		Status:    c.status,
		ProjectID: projectID,
	})
	if err != nil {
		return failureExit(err, errOut)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "created task %d\n", task.ID)
	}
	return exitcode.Success
}
