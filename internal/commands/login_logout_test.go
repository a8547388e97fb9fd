package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todo/internal/backend"
	"todo/internal/cli"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
)

const testOAuthClient = `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`

// googleConfigDir returns a config dir holding oauth_client.json and, if token
// is non-empty, token.json.
func googleConfigDir(t *testing.T, token string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.OAuthClientFile), []byte(testOAuthClient), 0600); err != nil {
		t.Fatal(err)
	}
	if token != "" {
		if err := os.WriteFile(filepath.Join(dir, config.TokenFile), []byte(token), 0600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// dispatch runs args through the real dispatcher and backend.Open.
func dispatch(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	for _, key := range []string{config.EnvBackend, config.EnvFile, config.EnvGoogleList} {
		t.Setenv(key, "")
	}
	var out, errOut bytes.Buffer
	code = cli.NewDispatcher(commands.DefaultRegistry, backend.Open).Run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestLogin_MissingOAuthClient(t *testing.T) {
	dir := t.TempDir()

	stdout, stderr, code := dispatch(t, "login", "--config", dir, "--backend", "google")

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	for _, want := range []string{filepath.Join(dir, config.OAuthClientFile), "Then run 'todo login' again."} {
		if !strings.Contains(stderr, want) {
			t.Errorf("expected %q in stderr, got %q", want, stderr)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, config.TokenFile)); !os.IsNotExist(err) {
		t.Error("no token should be written")
	}
}

func TestLogin_UnusableTokenStartsFlow(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "no token", token: ""},
		{name: "no refresh token", token: `{"access_token":"expired","token_type":"Bearer","expiry":"2020-01-01T00:00:00Z"}`},
		{name: "corrupt token", token: `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := googleConfigDir(t, tt.token)
			cfg := &config.Config{Dir: dir, Backend: config.BackendGoogle}

			// Cancelled up front so the callback wait returns at once.
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			var out, errOut bytes.Buffer
			code := (&commands.LoginCmd{}).Run(ctx, cfg, nil, nil, &out, &errOut)

			if code != exitcode.ConfigError {
				t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
			}
			if out.String() != "" {
				t.Errorf("expected no stdout, got %q", out.String())
			}
			stderr := errOut.String()
			for _, want := range []string{"Open this URL", "access_type=offline", "code_challenge_method=S256", "tasks", "error: cancelled"} {
				if !strings.Contains(stderr, want) {
					t.Errorf("expected %q in stderr, got %q", want, stderr)
				}
			}

			data, err := os.ReadFile(cfg.TokenPath())
			if tt.token == "" {
				if !os.IsNotExist(err) {
					t.Error("cancelled login should not write a token")
				}
			} else if string(data) != tt.token {
				t.Errorf("token file changed: %q", string(data))
			}
		})
	}
}

func TestLogout_RemovesTokenThenStoreNeedsLogin(t *testing.T) {
	dir := googleConfigDir(t, `{"access_token":"a","refresh_token":"r","token_type":"Bearer"}`)

	stdout, stderr, code := dispatch(t, "logout", "--config", dir, "--backend", "google")
	if code != exitcode.Success {
		t.Fatalf("logout: exit code %d, stderr %q", code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(dir, config.TokenFile)); !os.IsNotExist(err) {
		t.Error("token.json should have been deleted")
	}
	if _, err := os.Stat(filepath.Join(dir, config.OAuthClientFile)); err != nil {
		t.Error("oauth_client.json should be kept")
	}

	_, stderr, code = dispatch(t, "list", "--config", dir, "--backend", "google")
	if code != exitcode.ConfigError {
		t.Errorf("list after logout: expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if !strings.Contains(stderr, "not logged in (run: todo login)") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestLogout_IgnoresBackend(t *testing.T) {
	// The token belongs to the config dir, whichever store is selected.
	dir := googleConfigDir(t, `{"refresh_token":"r"}`)

	_, stderr, code := dispatch(t, "logout", "--config", dir, "--backend", "csv")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if _, err := os.Stat(filepath.Join(dir, config.TokenFile)); !os.IsNotExist(err) {
		t.Error("token.json should have been deleted")
	}
	if _, err := os.Stat(filepath.Join(dir, "tasks.csv")); !os.IsNotExist(err) {
		t.Error("logout should not touch the task store")
	}
}

func TestLogout_NotLoggedIn(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		stdout string
	}{
		{name: "default", stdout: "not logged in\n"},
		{name: "quiet", args: []string{"--quiet"}, stdout: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"logout", "--config", t.TempDir()}, tt.args...)
			stdout, stderr, code := dispatch(t, args...)

			if code != exitcode.Success {
				t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
			}
			if stderr != "" {
				t.Errorf("expected no stderr, got %q", stderr)
			}
			if stdout != tt.stdout {
				t.Errorf("expected %q, got %q", tt.stdout, stdout)
			}
		})
	}
}

func TestLogout_RemoveFails(t *testing.T) {
	dir := t.TempDir()
	// A non-empty directory where token.json should be cannot be removed.
	if err := os.MkdirAll(filepath.Join(dir, config.TokenFile, "keep"), 0700); err != nil {
		t.Fatal(err)
	}

	_, stderr, code := dispatch(t, "logout", "--config", dir)

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if !strings.HasPrefix(stderr, "error: failed to remove token:") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}
