package commands_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"trackctl/internal/api"
	"trackctl/internal/commands"
	"trackctl/internal/config"
	"trackctl/internal/exitcode"
	"trackctl/internal/session"
	"trackctl/internal/testutil"
)

// Tests for login command
func TestLoginCommand(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.LoginCmd{}
	cmd.SetService(svc)
	cmd.SetPassword("secret")
	stdout, stderr, code := runCommand(t, cmd, nil, []string{"alice"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	if !svc.LoggedIn {
		t.Error("expected the service to be logged in")
	}
}

func TestLoginCommand_RequiresUsername(t *testing.T) {
	cmd := &commands.LoginCmd{}
	cmd.SetService(testutil.NewFakeService())
	cmd.SetPassword("secret")
	_, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: username required\n" {
		t.Errorf("expected username-required error, got %q", stderr)
	}
}

func TestLoginCommand_InvalidCredentials(t *testing.T) {
	svc := testutil.NewFakeService()
	// A rejected credential exchange surfaces as session expiry from the
	// pipeline, because no refresh token is stored yet.
	svc.LoginErr = api.ErrSessionExpired

	cmd := &commands.LoginCmd{}
	cmd.SetService(svc)
	cmd.SetPassword("wrong")
	_, stderr, code := runCommand(t, cmd, nil, []string{"alice"}, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: login failed: invalid username or password\n" {
		t.Errorf("expected invalid-credentials message, got %q", stderr)
	}
	if svc.LoggedIn {
		t.Error("expected no session after rejected login")
	}
}

// Tests for register command
func TestRegisterCommand(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.RegisterCmd{}
	cmd.SetService(svc)
	cmd.SetPassword("secret")
	stdout, _, code := runCommand(t, cmd, nil, []string{"alice", "alice@example.com"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	if !svc.LoggedIn {
		t.Error("expected registration to log in")
	}
}

func TestRegisterCommand_RequiresUsernameAndEmail(t *testing.T) {
	cmd := &commands.RegisterCmd{}
	cmd.SetService(testutil.NewFakeService())
	cmd.SetPassword("secret")
	_, stderr, code := runCommand(t, cmd, nil, []string{"alice"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: username and email required\n" {
		t.Errorf("expected args-required error, got %q", stderr)
	}
}

func TestRegisterCommand_TakenUsernameIsUserError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.RegisterErr = &api.StatusError{
		StatusCode: 400,
		Fields:     map[string][]string{"username": {"A user with that username already exists."}},
	}

	cmd := &commands.RegisterCmd{}
	cmd.SetService(svc)
	cmd.SetPassword("secret")
	_, stderr, code := runCommand(t, cmd, nil, []string{"alice", "alice@example.com"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: Bad Request: username: A user with that username already exists.\n" {
		t.Errorf("expected field errors, got %q", stderr)
	}
	if svc.LoggedIn {
		t.Error("expected no session after failed registration")
	}
}

// Tests for logout command
func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	cmd := &commands.LogoutCmd{}
	stdout, _, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "not logged in\n" {
		t.Errorf("expected not-logged-in message, got %q", stdout)
	}
}

func TestLogoutCommand_RemovesSession(t *testing.T) {
	var outBuf, errBuf strings.Builder

	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create config: %v", err)
	}
	store, err := session.Open(cfg.SessionPath())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := store.Establish("acc-1", "ref-1"); err != nil {
		t.Fatalf("failed to establish session: %v", err)
	}

	cmd := &commands.LogoutCmd{}
	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, errBuf.String())
	}
	if outBuf.String() != "ok\n" {
		t.Errorf("expected ok, got %q", outBuf.String())
	}
	if _, err := os.Stat(cfg.SessionPath()); !os.IsNotExist(err) {
		t.Error("expected session file to be removed")
	}
}

// Tests for whoami command
func TestWhoamiCommand_NotLoggedIn(t *testing.T) {
	cmd := &commands.WhoamiCmd{}
	_, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: not logged in (run: trackctl login)\n" {
		t.Errorf("expected not-logged-in error, got %q", stderr)
	}
}

func TestWhoamiCommand_PrintsTokenClaims(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "alice",
		"user_id":  1,
		"exp":      time.Now().Add(5 * time.Minute).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	var cmd commands.WhoamiCmd
	stdout, stderr, code := runCommandWithSession(t, &cmd, signed, "refresh-1")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if !strings.HasPrefix(stdout, "user: alice\n") {
		t.Errorf("expected username line, got %q", stdout)
	}
	if !strings.Contains(stdout, "access token expires: ") {
		t.Errorf("expected expiry line, got %q", stdout)
	}
	if strings.Contains(stdout, "(expired") {
		t.Errorf("token is not expired yet, got %q", stdout)
	}
}

func TestWhoamiCommand_MarksExpiredToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "alice",
		"exp":      time.Now().Add(-5 * time.Minute).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	var cmd commands.WhoamiCmd
	stdout, _, code := runCommandWithSession(t, &cmd, signed, "refresh-1")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stdout, "(expired; will refresh on next call)") {
		t.Errorf("expected expired marker, got %q", stdout)
	}
}
