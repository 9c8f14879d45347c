//go:build windows

package runner

import "os/exec"

// killGroup is a no-op on Windows; WaitDelay still bounds the wait.
func killGroup(_ *exec.Cmd) {}
