// Package runner invokes the external verification tool and captures its result.
package runner

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/cockroachdb/errors"
)

// Capture selects how the tool's output streams are collected.
type Capture string

const (
	// CaptureMerged folds stderr into stdout; the combined text is classified.
	CaptureMerged Capture = "merged"
	// CaptureSeparate keeps stderr apart; only stdout is classified.
	CaptureSeparate Capture = "separate"
)

// WaitDelay bounds how long RunCommand waits for output pipes to close after
// the tool exits or is killed.
const WaitDelay = 2 * time.Second

// Invocation is the outcome of running the tool against one target.
type Invocation struct {
	Output   string // text used for classification
	Stderr   string // empty in merged mode
	ExitCode int
}

// ToolInvocationError reports that the tool could not be spawned at all.
type ToolInvocationError struct {
	Tool string
	Err  error
}

func (e *ToolInvocationError) Error() string {
	return "tool invocation failed: " + e.Tool + ": " + e.Err.Error()
}

func (e *ToolInvocationError) Unwrap() error {
	return e.Err
}

// Runner abstracts tool execution for testability.
type Runner interface {
	LookPath(file string) (string, error)
	RunCommand(ctx context.Context, name string, args ...string) (Invocation, error)
}

// RealRunner implements Runner using actual OS processes.
type RealRunner struct {
	Capture Capture
	Dir     string // working directory for the tool; empty means inherit
}

// LookPath searches for an executable in PATH.
func (r *RealRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// RunCommand runs the tool to completion. A non-zero exit is reported through
// Invocation.ExitCode; only a spawn failure returns a *ToolInvocationError.
func (r *RealRunner) RunCommand(ctx context.Context, name string, args ...string) (Invocation, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- the tool is operator configured
	cmd.Dir = r.Dir
	cmd.WaitDelay = WaitDelay
	killGroup(cmd)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	if r.Capture == CaptureSeparate {
		cmd.Stderr = &errBuf
	} else {
		cmd.Stderr = &outBuf
	}

	err := cmd.Run()
	inv := Invocation{
		Output: outBuf.String(),
		Stderr: errBuf.String(),
	}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		inv.ExitCode = exitErr.ExitCode()
	case errors.Is(err, exec.ErrWaitDelay):
		// The tool exited zero but a child of it kept the output open.
		inv.ExitCode = cmd.ProcessState.ExitCode()
	default:
		return inv, &ToolInvocationError{Tool: name, Err: err}
	}
	return inv, nil
}

// MockRunner is a test double for Runner.
type MockRunner struct {
	LookPathFunc   func(file string) (string, error)
	RunCommandFunc func(ctx context.Context, name string, args ...string) (Invocation, error)
}

// LookPath calls the mock function.
func (m *MockRunner) LookPath(file string) (string, error) {
	return m.LookPathFunc(file)
}

// RunCommand calls the mock function.
func (m *MockRunner) RunCommand(ctx context.Context, name string, args ...string) (Invocation, error) {
	return m.RunCommandFunc(ctx, name, args...)
}

// ParseCapture converts a flag or config value into a Capture.
func ParseCapture(s string) (Capture, error) {
	switch Capture(s) {
	case "", CaptureMerged:
		return CaptureMerged, nil
	case CaptureSeparate:
		return CaptureSeparate, nil
	}
	return "", errors.Newf("invalid capture mode %q (want %s or %s)", s, CaptureMerged, CaptureSeparate)
}
