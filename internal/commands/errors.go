package commands

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"trackctl/internal/api"
	"trackctl/internal/exitcode"
)

// failureExit prints err for a failed backend operation and maps it to an
// exit code. Session expiry means the credentials are already cleared and
// the user must log in again.
func failureExit(err error, errOut io.Writer) int {
	if errors.Is(err, api.ErrSessionExpired) {
		fmt.Fprintln(errOut, "error: session expired (run: trackctl login)")
		return exitcode.AuthError
	}

	var se *api.StatusError
	if errors.As(err, &se) {
		switch {
		case len(se.Fields) > 0:
			fmt.Fprintf(errOut, "error: %v\n", se)
			return exitcode.UserError
		case se.StatusCode == http.StatusNotFound:
			fmt.Fprintln(errOut, "error: not found")
			return exitcode.UserError
		default:
			fmt.Fprintf(errOut, "error: backend error: %v\n", se)
			return exitcode.BackendError
		}
	}

	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}
