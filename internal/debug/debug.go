// Package debug provides context-based debug mode with structured logging.
package debug

import (
	"context"
	"log/slog"
	"os"
)

type debugKey struct{}

// WithDebug returns a context with debug mode enabled/disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, debugKey{}, enabled)
}

// IsEnabled returns true if debug mode is enabled in the context.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(debugKey{}).(bool); ok {
		return v
	}
	return false
}

// EnvEnabled reports whether AUTOLAB_DEBUG requests debug logging even
// without the --debug flag.
func EnvEnabled() bool {
	switch os.Getenv("AUTOLAB_DEBUG") {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// SetupLogger configures slog based on debug mode.
func SetupLogger(debugEnabled bool) {
	level := slog.LevelWarn
	if debugEnabled {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
