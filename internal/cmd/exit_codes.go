package cmd

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	"github.com/spf13/pflag"

	"github.com/autolab/autolab-cli/internal/api"
	"github.com/autolab/autolab-cli/internal/config"
)

const (
	exitOK       = 0
	exitGeneric  = 1
	exitUsage    = 2
	exitAuth     = 3
	exitNotFound = 4
	exitAPI      = 5
	exitProtocol = 6
	exitNetwork  = 8
)

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	var handled *handledError
	if errors.As(err, &handled) {
		if handled.exitCode != 0 {
			return handled.exitCode
		}
		err = handled.err
	}

	if errors.Is(err, api.ErrInvalidToken) || errors.Is(err, config.ErrNotConfigured) {
		return exitAuth
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if strings.Contains(strings.ToLower(apiErr.Message), "not found") {
			return exitNotFound
		}
		return exitAPI
	}

	var protocolErr *api.ProtocolError
	if errors.As(err, &protocolErr) {
		return exitProtocol
	}

	var transportErr *api.TransportError
	if errors.As(err, &transportErr) {
		return exitNetwork
	}
	if isNetworkError(err) {
		return exitNetwork
	}
	if isUsageError(err) {
		return exitUsage
	}
	return exitGeneric
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "i/o timeout")
}

func isUsageError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	indicators := []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"requires at least",
		"requires exactly",
		"accepts at most",
		"invalid argument",
		"invalid assessment",
		"expected course:assessment",
		"is required",
	}
	for _, indicator := range indicators {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
