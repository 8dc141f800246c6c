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
	Register(&RmTaskCmd{})
}

// RmTaskCmd implements the rmtask command.
type RmTaskCmd struct{}

func (c *RmTaskCmd) Name() string      { return "rmtask" }
func (c *RmTaskCmd) Aliases() []string { return []string{"rm"} }
func (c *RmTaskCmd) Synopsis() string  { return "Delete a task" }
func (c *RmTaskCmd) Usage() string     { return "trackctl rmtask [common flags] <task-id>" }
func (c *RmTaskCmd) NeedsAuth() bool   { return true }

func (c *RmTaskCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmTaskCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: task id required")
		return exitcode.UserError
	}
	id, err := parseID(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := svc.DeleteTask(ctx, id); err != nil {
		return failureExit(err, errOut)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
