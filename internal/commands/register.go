package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"trackctl/internal/backend/tracker"
	"trackctl/internal/config"
	"trackctl/internal/exitcode"
	"trackctl/internal/service"
)

func init() {
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command. A successful registration
// immediately logs in with the same credentials, so the stored session is
// established in one step.
type RegisterCmd struct {
	password string
	svc      service.Service
}

// SetPassword sets the password (for testing).
func (c *RegisterCmd) SetPassword(pw string) {
	c.password = pw
}

// SetService injects a service (for testing).
func (c *RegisterCmd) SetService(svc service.Service) {
	c.svc = svc
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return nil }
func (c *RegisterCmd) Synopsis() string  { return "Create an account and log in" }
func (c *RegisterCmd) Usage() string {
	return "trackctl register [--password <pw>] <username> <email>"
}
func (c *RegisterCmd) NeedsAuth() bool { return false }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.password, "p", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintln(errOut, "error: username and email required")
		return exitcode.UserError
	}
	username, email := args[0], args[1]

	password := c.password
	if password == "" {
		var err error
		password, err = promptPassword(os.Stdin, errOut)
		if err != nil {
			fmt.Fprintf(errOut, "error: failed to read password: %v\n", err)
			return exitcode.UserError
		}
	}
	if password == "" {
		fmt.Fprintln(errOut, "error: password required")
		return exitcode.UserError
	}

	if c.svc == nil {
		client, err := tracker.New(cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.AuthError
		}
		c.svc = client
	}

	if err := c.svc.Register(ctx, username, email, password); err != nil {
		return failureExit(err, errOut)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
