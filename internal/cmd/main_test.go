package cmd

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/99designs/keyring"

	"github.com/autolab/autolab-cli/internal/config"
)

func TestMain(m *testing.M) {
	// Ensure tests use text output by default regardless of the shell env.
	_ = os.Setenv("AUTOLAB_OUTPUT", "text")
	_ = os.Setenv("NO_COLOR", "1")

	cleanup := config.SetOpenKeyring(func(cfg keyring.Config) (keyring.Keyring, error) {
		return keyring.NewArrayKeyring(nil), nil
	})
	code := m.Run()
	cleanup()
	os.Exit(code)
}

// setupTestEnv points the CLI at a mock service and installs a token pair
// through the environment.
func setupTestEnv(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("AUTOLAB_BASE_URL", server.URL)
	t.Setenv("AUTOLAB_ACCESS_TOKEN", "test-access")
	t.Setenv("AUTOLAB_REFRESH_TOKEN", "test-refresh")
	return server
}

// captureStdout runs fn while collecting everything written to os.Stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// captureStderr runs fn while collecting everything written to os.Stderr.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stderr = w

	fn()

	_ = w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}
