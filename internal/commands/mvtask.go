package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"trackctl/internal/config"
	"trackctl/internal/exitcode"
	"trackctl/internal/service"
)

func init() {
	Register(&MvTaskCmd{})
}

// MvTaskCmd implements the mvtask command: a task status change, the only
// task field mutated after creation.
type MvTaskCmd struct{}

func (c *MvTaskCmd) Name() string      { return "mvtask" }
func (c *MvTaskCmd) Aliases() []string { return []string{"done"} }
func (c *MvTaskCmd) Synopsis() string  { return "Change a task's status" }
func (c *MvTaskCmd) Usage() string {
	return "trackctl mvtask [common flags] <task-id> [<status>]"
}
func (c *MvTaskCmd) NeedsAuth() bool { return true }

func (c *MvTaskCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *MvTaskCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: task id required")
		return exitcode.UserError
	}
	id, err := parseID(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	// Invoked as "done", the status defaults to completed.
	status := service.StatusCompleted
	if len(args) > 1 {
		status = args[1]
	}
	if !service.ValidStatus(status) {
		fmt.Fprintf(errOut, "error: invalid status: %s\n", status)
		return exitcode.UserError
	}

	if _, err := svc.UpdateTask(ctx, id, service.TaskPatch{Status: &status}); err != nil {
		return failureExit(err, errOut)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
