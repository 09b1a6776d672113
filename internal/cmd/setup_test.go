package cmd

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autolab/autolab-cli/internal/config"
)

func withFreshKeyring(t *testing.T) {
	t.Helper()
	ring := keyring.NewArrayKeyring(nil)
	cleanup := config.SetOpenKeyring(func(cfg keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	})
	t.Cleanup(cleanup)
}

func TestSetupCommandGranted(t *testing.T) {
	var tokenCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/device_flow_init", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"device_code":"dev-1","user_code":"WXYZ-9876","verification_uri":"https://autolab.test/activate"}`))
	})
	mux.HandleFunc("/oauth/device_flow_authorize", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code": "grant-code"}`))
	})
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		_, _ = w.Write([]byte(`{"access_token":"fresh-access","refresh_token":"fresh-refresh"}`))
	})
	mux.HandleFunc("/api/v1/user", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fresh-access", r.URL.Query().Get("access_token"))
		_, _ = w.Write([]byte(`{"first_name":"Harry","last_name":"Bovik","email":"bovik@cs.cmu.edu"}`))
	})

	setupTestEnv(t, mux)
	// Setup must run unauthenticated; clear the env token override so the
	// flow's own tokens are used and persisted.
	t.Setenv("AUTOLAB_ACCESS_TOKEN", "")
	t.Setenv("AUTOLAB_REFRESH_TOKEN", "")
	withFreshKeyring(t)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"setup", "--no-input"}))
	})

	assert.Contains(t, output, "WXYZ-9876")
	assert.Contains(t, output, "https://autolab.test/activate")
	assert.Contains(t, output, "Hello Harry Bovik!")
	assert.Equal(t, int32(1), tokenCalls.Load())

	tokens, err := config.LoadTokens()
	require.NoError(t, err)
	assert.Equal(t, "fresh-access", tokens.AccessToken)
	assert.Equal(t, "fresh-refresh", tokens.RefreshToken)
}

func TestSetupCommandDenied(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/device_flow_init", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"device_code":"dev-1","user_code":"AB","verification_uri":"https://autolab.test/activate"}`))
	})
	mux.HandleFunc("/oauth/device_flow_authorize", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "access_denied"}`))
	})

	setupTestEnv(t, mux)
	t.Setenv("AUTOLAB_ACCESS_TOKEN", "")
	t.Setenv("AUTOLAB_REFRESH_TOKEN", "")
	withFreshKeyring(t)

	var execErr error
	stderr := captureStderr(t, func() {
		execErr = Execute(context.Background(), []string{"setup", "--no-input"})
	})
	require.Error(t, execErr)
	assert.Contains(t, stderr, "denied")
	assert.False(t, config.HasTokens())
}

func TestSetupCommandAlreadyConfigured(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/user", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"first_name":"Harry","last_name":"Bovik","email":"bovik@cs.cmu.edu"}`))
	})
	mux.HandleFunc("/oauth/device_flow_init", func(w http.ResponseWriter, r *http.Request) {
		t.Error("setup must not restart the flow when already configured")
	})
	setupTestEnv(t, mux)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"setup"}))
	})
	assert.Contains(t, output, "Already set up as Harry Bovik")
}

func TestStatusCommand(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/user", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"first_name":"Harry","last_name":"Bovik","email":"bovik@cs.cmu.edu","school":"SCS","major":"CS","year":"3"}`))
	})
	setupTestEnv(t, mux)
	chdir(t, t.TempDir())

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"status"}))
	})
	assert.Contains(t, output, "Harry Bovik")
	assert.Contains(t, output, "bovik@cs.cmu.edu")
	assert.Contains(t, output, "Not inside an assessment directory")
}

func TestStatusCommandNotConfigured(t *testing.T) {
	setupTestEnv(t, http.NewServeMux())
	t.Setenv("AUTOLAB_ACCESS_TOKEN", "")
	t.Setenv("AUTOLAB_REFRESH_TOKEN", "")
	withFreshKeyring(t)

	var execErr error
	stderr := captureStderr(t, func() {
		execErr = Execute(context.Background(), []string{"status"})
	})
	require.Error(t, execErr)
	assert.Equal(t, exitAuth, ExitCode(execErr))
	assert.Contains(t, stderr, "autolab setup")
}
