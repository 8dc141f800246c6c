package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"trackctl/internal/config"
	"trackctl/internal/exitcode"
	"trackctl/internal/service"
	"trackctl/internal/session"
)

func init() {
	Register(&WhoamiCmd{})
}

// WhoamiCmd prints the identity and expiry carried by the stored access
// token. Claims are decoded without verification; the client never validates
// tokens, it only discovers expiry on a failing call.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Show the current session" }
func (c *WhoamiCmd) Usage() string     { return "trackctl whoami [common flags]" }
func (c *WhoamiCmd) NeedsAuth() bool   { return false }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	store, err := session.Open(cfg.SessionPath())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}
	if !store.Authenticated() {
		fmt.Fprintln(errOut, "error: not logged in (run: trackctl login)")
		return exitcode.AuthError
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(store.AccessToken(), claims); err != nil {
		fmt.Fprintf(errOut, "error: stored access token is not a valid JWT: %v\n", err)
		return exitcode.AuthError
	}

	if username, ok := claims["username"].(string); ok && username != "" {
		fmt.Fprintf(out, "user: %s\n", username)
	} else if uid, ok := claims["user_id"]; ok {
		fmt.Fprintf(out, "user id: %v\n", uid)
	} else {
		fmt.Fprintln(out, "logged in")
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		line := fmt.Sprintf("access token expires: %s", exp.Time.Format(time.RFC3339))
		if time.Now().After(exp.Time) {
			line += " (expired; will refresh on next call)"
		}
		fmt.Fprintln(out, line)
	}

	return exitcode.Success
}
