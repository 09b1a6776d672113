// Package iocontext threads a command's streams through its context.
// Commands never write to os.Stdout directly; they pull an IO out of the
// context, which lets tests capture output and lets the root command
// silence or redirect streams globally.
package iocontext

import (
	"context"
	"io"
	"os"
)

// IO bundles the three streams a command interacts with.
type IO struct {
	Out    io.Writer
	ErrOut io.Writer
	In     io.Reader
}

// System returns an IO bound to the process streams. The struct is freshly
// allocated so callers can reassign individual streams without affecting
// anyone else.
func System() *IO {
	return &IO{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
		In:     os.Stdin,
	}
}

// Silence discards everything written to Out. Errors keep flowing to
// ErrOut; quiet mode must not swallow diagnostics.
func (s *IO) Silence() {
	s.Out = io.Discard
}

type ioKey struct{}

// WithIO returns a context carrying the given streams.
func WithIO(ctx context.Context, streams *IO) context.Context {
	return context.WithValue(ctx, ioKey{}, streams)
}

// GetIO returns the streams carried by ctx, falling back to the process
// streams when none were installed.
func GetIO(ctx context.Context) *IO {
	if streams, ok := ctx.Value(ioKey{}).(*IO); ok && streams != nil {
		return streams
	}
	return System()
}
