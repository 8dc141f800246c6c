package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"trackctl/internal/config"
	"trackctl/internal/exitcode"
	"trackctl/internal/service"
)

func init() {
	Register(&MkProjectCmd{})
}

// MkProjectCmd implements the mkproject command.
type MkProjectCmd struct {
	description string
}

// SetDescription sets the description (for testing).
func (c *MkProjectCmd) SetDescription(desc string) {
	c.description = desc
}

func (c *MkProjectCmd) Name() string      { return "mkproject" }
func (c *MkProjectCmd) Aliases() []string { return nil }
func (c *MkProjectCmd) Synopsis() string  { return "Create a project" }
func (c *MkProjectCmd) Usage() string {
	return "trackctl mkproject [common flags] [--desc <text>] <title...>"
}
func (c *MkProjectCmd) NeedsAuth() bool { return true }

func (c *MkProjectCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "desc", "", "")
}

func (c *MkProjectCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	project, err := svc.CreateProject(ctx, title, c.description)
	if err != nil {
		return failureExit(err, errOut)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "created project %d\n", project.ID)
	}
	return exitcode.Success
}
