package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/autolab/autolab-cli/internal/api"
	"github.com/autolab/autolab-cli/internal/config"
)

// Application credentials registered with the Autolab service. Overridden at
// build time via ldflags for site-specific distributions, or at run time
// through the AUTOLAB_* environment variables.
var (
	defaultBaseURL      = "https://autolab.andrew.cmu.edu"
	defaultClientID     = "c84f10b6b11a901e49a0298aca2a19eca080a2a1ba5e0e53e0ba23a887523b46"
	defaultClientSecret = "c9a94ad9f1a3abbabe1be4ae9c26d3ff6482ae062a1c5633c7a6b4d64f6b03e7"
	defaultRedirectURI  = "urn:ietf:wg:oauth:2.0:oob"
)

type clientFactory struct {
	timeout   time.Duration
	userAgent string
}

func newClientFactory() *clientFactory {
	return &clientFactory{
		timeout:   flags.Timeout,
		userAgent: fmt.Sprintf("autolab-cli/%s", version),
	}
}

// authenticated returns a client loaded with the stored token pair.
func (f *clientFactory) authenticated() (*api.Client, error) {
	tokens, err := config.LoadTokens()
	if err != nil {
		return nil, err
	}
	client := f.newClient()
	client.SetTokens(tokens.AccessToken, tokens.RefreshToken)
	return client, nil
}

// unauthenticated returns a client without credentials, for setup.
func (f *clientFactory) unauthenticated() *api.Client {
	return f.newClient()
}

func (f *clientFactory) newClient() *api.Client {
	client := api.New(envOr("AUTOLAB_BASE_URL", defaultBaseURL),
		envOr("AUTOLAB_CLIENT_ID", defaultClientID),
		envOr("AUTOLAB_CLIENT_SECRET", defaultClientSecret),
		envOr("AUTOLAB_REDIRECT_URI", defaultRedirectURI))
	if f.timeout > 0 {
		client.HTTP.Timeout = f.timeout
	}
	if f.userAgent != "" {
		client.UserAgent = f.userAgent
	}
	client.OnTokensSaved = persistTokens
	return client
}

// persistTokens writes refreshed tokens back to the keychain. Failures are
// non-fatal: the session keeps working with in-memory tokens.
func persistTokens(accessToken, refreshToken string) {
	_ = config.SaveTokens(config.Tokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return strings.TrimSuffix(value, "/")
	}
	return fallback
}

// getClient creates an API client from stored credentials
func getClient() (*api.Client, error) {
	return newClientFactory().authenticated()
}
