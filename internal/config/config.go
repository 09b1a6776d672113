// Package config persists the user's OAuth token pair in the OS keychain,
// falling back to an encrypted file keyring on headless machines.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
)

const (
	serviceName = "autolab-cli"
	tokensKey   = "tokens"

	envAccessToken    = "AUTOLAB_ACCESS_TOKEN"
	envRefreshToken   = "AUTOLAB_REFRESH_TOKEN"
	envKeyringBackend = "AUTOLAB_KEYRING_BACKEND"
	envKeyringPass    = "AUTOLAB_KEYRING_PASSWORD"
	envCredentialsDir = "AUTOLAB_CREDENTIALS_DIR"

	keyringBackendAuto   = "auto"
	keyringBackendFile   = "file"
	keyringBackendSystem = "system"
)

// ErrNotConfigured is returned when no token pair has been stored yet.
var ErrNotConfigured = errors.New("no user is set up on this client - run 'autolab setup' first")

// Tokens is the persisted OAuth pair. Both fields are always present
// together; a partial pair is never written.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// openKeyring is a package-level function for opening keyrings.
// It can be replaced in tests to use a mock keyring.
var openKeyring = func(cfg keyring.Config) (keyring.Keyring, error) {
	return keyring.Open(cfg)
}

var userConfigDir = os.UserConfigDir

var stdinHasTTY = func() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// SetOpenKeyring allows replacing the keyring opener for testing.
// Returns a cleanup function that restores the original.
func SetOpenKeyring(fn func(keyring.Config) (keyring.Keyring, error)) func() {
	original := openKeyring
	openKeyring = fn
	return func() { openKeyring = original }
}

func keyringConfig() keyring.Config {
	cfg := keyring.Config{
		ServiceName: serviceName,
	}

	backend := keyringBackendMode()
	if backend == keyringBackendSystem {
		return cfg
	}

	// Always configure file backend details in auto mode so keyring.Open can
	// fall through to encrypted file storage when native backends are missing.
	cfg.FileDir = keyringFileDir()
	cfg.FilePasswordFunc = keyringFilePassword

	// Headless Linux should bypass other backends and use encrypted file storage.
	if shouldForceFileBackend(runtime.GOOS, backend, os.Getenv("DBUS_SESSION_BUS_ADDRESS")) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}

	return cfg
}

func keyringBackendMode() string {
	backend := strings.ToLower(strings.TrimSpace(os.Getenv(envKeyringBackend)))
	switch backend {
	case "", keyringBackendAuto:
		return keyringBackendAuto
	case keyringBackendFile:
		return keyringBackendFile
	case keyringBackendSystem, "os", "native":
		return keyringBackendSystem
	default:
		return keyringBackendAuto
	}
}

func shouldForceFileBackend(goos, backend, dbusAddr string) bool {
	if backend == keyringBackendFile {
		return true
	}
	if backend != keyringBackendAuto {
		return false
	}
	return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
}

func keyringFileDir() string {
	base := strings.TrimSpace(os.Getenv(envCredentialsDir))
	if base == "" {
		if dir, err := userConfigDir(); err == nil && strings.TrimSpace(dir) != "" {
			base = filepath.Join(dir, serviceName)
		}
	}
	if base == "" {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			base = filepath.Join(home, ".config", serviceName)
		}
	}
	if base == "" {
		base = filepath.Join(os.TempDir(), serviceName)
	}
	return filepath.Join(base, "keyring")
}

func keyringFilePassword(prompt string) (string, error) {
	if password, ok := os.LookupEnv(envKeyringPass); ok && strings.TrimSpace(password) != "" {
		return password, nil
	}
	if !stdinHasTTY() {
		return "", fmt.Errorf("set %s when using file keyring in non-interactive environments", envKeyringPass)
	}
	return keyring.TerminalPrompt(prompt)
}

// SaveTokens stores the token pair in the keychain, encrypted with the
// active codec.
func SaveTokens(tokens Tokens) error {
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		return fmt.Errorf("refusing to save a partial token pair")
	}

	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}

	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}
	sealed, err := activeCodec().Encrypt(data)
	if err != nil {
		return fmt.Errorf("failed to seal tokens: %w", err)
	}

	if err := ring.Set(keyring.Item{Key: tokensKey, Data: sealed}); err != nil {
		return fmt.Errorf("failed to save tokens: %w", err)
	}
	return nil
}

// LoadTokens retrieves the stored token pair. AUTOLAB_ACCESS_TOKEN and
// AUTOLAB_REFRESH_TOKEN override the keychain when both are set, which lets
// CI environments skip setup entirely.
func LoadTokens() (Tokens, error) {
	envAccess := strings.TrimSpace(os.Getenv(envAccessToken))
	envRefresh := strings.TrimSpace(os.Getenv(envRefreshToken))
	if envAccess != "" || envRefresh != "" {
		if envAccess == "" || envRefresh == "" {
			return Tokens{}, fmt.Errorf("%s and %s must both be set", envAccessToken, envRefreshToken)
		}
		return Tokens{AccessToken: envAccess, RefreshToken: envRefresh}, nil
	}

	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return Tokens{}, fmt.Errorf("failed to open keyring: %w", err)
	}

	item, err := ring.Get(tokensKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return Tokens{}, ErrNotConfigured
		}
		return Tokens{}, fmt.Errorf("failed to get tokens: %w", err)
	}

	data, err := activeCodec().Decrypt(item.Data)
	if err != nil {
		return Tokens{}, fmt.Errorf("failed to unseal tokens: %w", err)
	}

	var tokens Tokens
	if err := json.Unmarshal(data, &tokens); err != nil {
		return Tokens{}, fmt.Errorf("failed to unmarshal tokens: %w", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		return Tokens{}, ErrNotConfigured
	}
	return tokens, nil
}

// DeleteTokens removes the stored pair. Missing tokens are not an error.
func DeleteTokens() error {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}
	if err := ring.Remove(tokensKey); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to remove tokens: %w", err)
	}
	return nil
}

// HasTokens checks whether a usable token pair is available.
func HasTokens() bool {
	_, err := LoadTokens()
	return err == nil
}
