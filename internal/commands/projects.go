package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"

	"trackctl/internal/config"
	"trackctl/internal/exitcode"
	"trackctl/internal/output"
	"trackctl/internal/service"
)

func init() {
	Register(&ProjectsCmd{})
}

// ProjectsCmd implements the projects command.
type ProjectsCmd struct{}

func (c *ProjectsCmd) Name() string      { return "projects" }
func (c *ProjectsCmd) Aliases() []string { return []string{"ls"} }
func (c *ProjectsCmd) Synopsis() string  { return "List projects" }
func (c *ProjectsCmd) Usage() string     { return "trackctl projects [common flags]" }
func (c *ProjectsCmd) NeedsAuth() bool   { return true }

func (c *ProjectsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ProjectsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	projects, err := svc.Projects(ctx)
	if err != nil {
		return failureExit(err, errOut)
	}

	if len(projects) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no projects found")
		}
		return exitcode.Success
	}

	for _, p := range projects {
		output.FormatProject(out, p)
	}
	return exitcode.Success
}

// parseID parses a positional numeric ID argument.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id: %s", arg)
	}
	return id, nil
}
