package cmd

import (
	"context"
	"errors"
	"net"

	"github.com/99designs/keyring"

	"github.com/steipete/mogcli/internal/config"
	"github.com/steipete/mogcli/internal/graph"
	"github.com/steipete/mogcli/internal/msauth"
)

const (
	// Exit code 0 is success.
	// Exit code 1 is generic failure.

	exitCodeUsage            = 2
	exitCodeAuthRequired     = 4
	exitCodeNotFound         = 5
	exitCodePermissionDenied = 6
	exitCodeRateLimited      = 7
	exitCodeRetryable        = 8
	exitCodeConfig           = 10

	// 130 is the conventional "interrupted" exit code (SIGINT / Ctrl-C).
	exitCodeCancelled = 130
)

// stableExitCode wraps common/expected failure modes in ExitError so callers
// can branch on exit status without parsing the envelope's error string.
func stableExitCode(err error) error {
	if err == nil {
		return nil
	}

	var ee *ExitError
	if errors.As(err, &ee) {
		return err
	}

	if errors.Is(err, context.Canceled) {
		return &ExitError{Code: exitCodeCancelled, Err: err}
	}

	var authErr *msauth.AuthRequiredError
	if errors.As(err, &authErr) {
		return &ExitError{Code: exitCodeAuthRequired, Err: err}
	}

	var pendErr *msauth.AuthPendingError
	if errors.As(err, &pendErr) {
		return &ExitError{Code: exitCodeAuthRequired, Err: err}
	}

	var credErr *config.CredentialsMissingError
	if errors.As(err, &credErr) {
		return &ExitError{Code: exitCodeConfig, Err: err}
	}

	if errors.Is(err, keyring.ErrKeyNotFound) {
		return &ExitError{Code: exitCodeAuthRequired, Err: err}
	}

	var apiErr *graph.APIError
	if errors.As(err, &apiErr) {
		if code := graphExitCode(apiErr.StatusCode); code != 1 {
			return &ExitError{Code: code, Err: err}
		}
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &ExitError{Code: exitCodeRetryable, Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &ExitError{Code: exitCodeRetryable, Err: err}
	}

	return err
}

func graphExitCode(status int) int {
	switch status {
	case 401:
		return exitCodeAuthRequired
	case 403:
		return exitCodePermissionDenied
	case 404:
		return exitCodeNotFound
	case 429:
		return exitCodeRateLimited
	default:
		if status >= 500 {
			return exitCodeRetryable
		}
	}

	return 1
}
