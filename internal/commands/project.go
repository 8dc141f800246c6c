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
	Register(&ProjectCmd{})
}

// ProjectCmd implements the project command: one project with its embedded
// tasks.
type ProjectCmd struct{}

func (c *ProjectCmd) Name() string      { return "project" }
func (c *ProjectCmd) Aliases() []string { return []string{"show"} }
func (c *ProjectCmd) Synopsis() string  { return "Show a project and its tasks" }
func (c *ProjectCmd) Usage() string     { return "trackctl project [common flags] <project-id>" }
func (c *ProjectCmd) NeedsAuth() bool   { return true }

func (c *ProjectCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ProjectCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: project id required")
		return exitcode.UserError
	}
	id, err := parseID(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	detail, err := svc.Project(ctx, id)
	if err != nil {
		return failureExit(err, errOut)
	}

	output.FormatProjectHeader(out, detail.Project)
	if len(detail.Tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks")
		}
		return exitcode.Success
	}
	for _, t := range detail.Tasks {
		output.FormatTask(out, t)
	}
	return exitcode.Success
}
