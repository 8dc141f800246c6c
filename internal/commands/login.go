package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"trackctl/internal/api"
	"trackctl/internal/backend/tracker"
	"trackctl/internal/config"
	"trackctl/internal/exitcode"
	"trackctl/internal/service"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command. It runs before a session exists,
// so it constructs its own backend client instead of receiving one from the
// dispatcher.
type LoginCmd struct {
	password string
	svc      service.Service
}

// SetPassword sets the password (for testing).
func (c *LoginCmd) SetPassword(pw string) {
	c.password = pw
}

// SetService injects a service (for testing).
func (c *LoginCmd) SetService(svc service.Service) {
	c.svc = svc
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Log in and store session tokens" }
func (c *LoginCmd) Usage() string     { return "trackctl login [--password <pw>] <username>" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.password, "p", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: username required")
		return exitcode.UserError
	}
	username := args[0]

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

	if err := c.svc.Login(ctx, username, password); err != nil {
		return loginFailureExit(err, errOut)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// loginFailureExit maps a failed credential exchange to an exit code.
// A rejected username/password is an auth error, not a backend one. With no
// stored refresh token, the pipeline reports a 401 from the token endpoint
// as session expiry; here that simply means the credentials were rejected.
func loginFailureExit(err error, errOut io.Writer) int {
	if errors.Is(err, api.ErrSessionExpired) {
		fmt.Fprintln(errOut, "error: login failed: invalid username or password")
		return exitcode.AuthError
	}
	var se *api.StatusError
	if errors.As(err, &se) && se.StatusCode < 500 {
		fmt.Fprintf(errOut, "error: login failed: %v\n", se)
		return exitcode.AuthError
	}
	return failureExit(err, errOut)
}

// promptPassword reads a password line from in, prompting on errOut.
func promptPassword(in io.Reader, errOut io.Writer) (string, error) {
	fmt.Fprint(errOut, "password: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
