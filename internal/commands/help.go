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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "trackctl help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  trackctl                                           List projects
  trackctl projects [common flags]
  trackctl project [common flags] <project-id>
  trackctl mkproject [common flags] [--desc <text>] <title...>
  trackctl rmproject [common flags] <project-id>
  trackctl tasks [common flags] [--status <s>] <project-id>
  trackctl addtask [common flags] [--due YYYY-MM-DD] [--status <s>] <project-id> <title...>
  trackctl mvtask [common flags] <task-id> [<status>]
  trackctl rmtask [common flags] <task-id>
  trackctl shell [common flags] [<project-id>]
  trackctl register [common flags] [--password <pw>] <username> <email>
  trackctl login [common flags] [--password <pw>] <username>
  trackctl logout [common flags]
  trackctl whoami [common flags]
  trackctl help
  trackctl version

Statuses: pending, in_progress, completed

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
