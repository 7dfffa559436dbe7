package cmd

import (
	"errors"
	"fmt"
)

// ExitError carries a stable process exit code alongside the failure.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit %d", e.Code)
	}

	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps an error from Execute to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}

	return 1
}

// usage marks a local validation failure. These short-circuit before the
// auth gate runs and before any network activity.
func usage(msg string) error {
	return &ExitError{Code: exitCodeUsage, Err: errors.New(msg)}
}

func usagef(format string, args ...any) error {
	return &ExitError{Code: exitCodeUsage, Err: fmt.Errorf(format, args...)}
}
