package main

import (
	"github.com/cockroachdb/errors"

	"github.com/vertti/batchcheck/pkg/batch"
)

// ErrCheckFailed is returned when at least one file fails.
var ErrCheckFailed = errors.New("check failed")

// exitError carries the process exit code alongside the error cobra prints.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// exitCode maps an error from Execute to the process exit status. Errors
// without an explicit code are usage or environment problems.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return batch.ExitEnvironment
}
