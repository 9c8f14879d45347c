package runner

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestRealRunner_MergedCapture(t *testing.T) {
	skipWithoutShell(t)

	r := &RealRunner{Capture: CaptureMerged}
	inv, err := r.RunCommand(context.Background(), "sh", "-c", "echo out; echo 'x error: y' >&2; exit 3")
	if err != nil {
		t.Fatalf("RunCommand error = %v", err)
	}
	if inv.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", inv.ExitCode)
	}
	if !strings.Contains(inv.Output, "out") || !strings.Contains(inv.Output, "x error: y") {
		t.Errorf("Output = %q, want both streams", inv.Output)
	}
	if inv.Stderr != "" {
		t.Errorf("Stderr = %q, want empty in merged mode", inv.Stderr)
	}
}

func TestRealRunner_SeparateCapture(t *testing.T) {
	skipWithoutShell(t)

	r := &RealRunner{Capture: CaptureSeparate}
	inv, err := r.RunCommand(context.Background(), "sh", "-c", "echo out; echo err >&2")
	if err != nil {
		t.Fatalf("RunCommand error = %v", err)
	}
	if inv.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", inv.ExitCode)
	}
	if inv.Output != "out\n" {
		t.Errorf("Output = %q, want %q", inv.Output, "out\n")
	}
	if inv.Stderr != "err\n" {
		t.Errorf("Stderr = %q, want %q", inv.Stderr, "err\n")
	}
}

func TestRealRunner_Dir(t *testing.T) {
	skipWithoutShell(t)

	dir := t.TempDir()
	r := &RealRunner{Dir: dir}
	inv, err := r.RunCommand(context.Background(), "sh", "-c", "pwd")
	if err != nil {
		t.Fatalf("RunCommand error = %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(inv.Output), filepath.Base(dir)) {
		t.Errorf("Output = %q, want working directory %q", inv.Output, dir)
	}
}

func TestRealRunner_CancelStopsChildProcesses(t *testing.T) {
	skipWithoutShell(t)

	for _, capture := range []Capture{CaptureMerged, CaptureSeparate} {
		t.Run(string(capture), func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()

			r := &RealRunner{Capture: capture}
			start := time.Now()
			inv, err := r.RunCommand(ctx, "sh", "-c", "sleep 5; echo done")
			elapsed := time.Since(start)

			if err != nil {
				t.Fatalf("RunCommand error = %v", err)
			}
			if elapsed > 5*time.Second-500*time.Millisecond {
				t.Errorf("RunCommand returned after %v, want well before the child's 5s sleep", elapsed)
			}
			if inv.ExitCode == 0 {
				t.Errorf("ExitCode = 0, want non-zero for a killed tool")
			}
			if strings.Contains(inv.Output, "done") {
				t.Errorf("Output = %q, tool should not have finished", inv.Output)
			}
		})
	}
}

func TestRealRunner_BackgroundChildHoldsOutput(t *testing.T) {
	skipWithoutShell(t)

	r := &RealRunner{Capture: CaptureMerged}
	start := time.Now()
	inv, err := r.RunCommand(context.Background(), "sh", "-c", "echo ok; sleep 10 &")
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("RunCommand error = %v", err)
	}
	if elapsed > WaitDelay+3*time.Second {
		t.Errorf("RunCommand returned after %v, want about %v", elapsed, WaitDelay)
	}
	if inv.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", inv.ExitCode)
	}
	if !strings.Contains(inv.Output, "ok") {
		t.Errorf("Output = %q, want %q", inv.Output, "ok")
	}
}

func TestRealRunner_MissingTool(t *testing.T) {
	r := &RealRunner{}
	_, err := r.RunCommand(context.Background(), "nonexistent-tool-xyz-12345", "check")

	var toolErr *ToolInvocationError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error = %v, want *ToolInvocationError", err)
	}
	if toolErr.Tool != "nonexistent-tool-xyz-12345" {
		t.Errorf("Tool = %q, want %q", toolErr.Tool, "nonexistent-tool-xyz-12345")
	}
	if !strings.HasPrefix(err.Error(), "tool invocation failed:") {
		t.Errorf("Error() = %q, want prefix %q", err.Error(), "tool invocation failed:")
	}
}

func TestToolInvocationError_Unwrap(t *testing.T) {
	inner := errors.New("permission denied")
	err := &ToolInvocationError{Tool: "moon", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
	if err.Error() != "tool invocation failed: moon: permission denied" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestMockRunner(t *testing.T) {
	m := &MockRunner{
		LookPathFunc: func(file string) (string, error) {
			if file == "moon" {
				return "/usr/local/bin/moon", nil
			}
			return "", errors.New("not found")
		},
		RunCommandFunc: func(_ context.Context, name string, args ...string) (Invocation, error) {
			return Invocation{Output: name + " " + strings.Join(args, " "), ExitCode: 0}, nil
		},
	}

	path, err := m.LookPath("moon")
	if err != nil || path != "/usr/local/bin/moon" {
		t.Errorf("LookPath(moon) = %q, %v", path, err)
	}

	inv, err := m.RunCommand(context.Background(), "moon", "run", "--debug", "a.mbt")
	if err != nil {
		t.Fatalf("RunCommand error = %v", err)
	}
	if inv.Output != "moon run --debug a.mbt" {
		t.Errorf("Output = %q", inv.Output)
	}
}

func TestParseCapture(t *testing.T) {
	tests := []struct {
		input   string
		want    Capture
		wantErr bool
	}{
		{"", CaptureMerged, false},
		{"merged", CaptureMerged, false},
		{"separate", CaptureSeparate, false},
		{"both", "", true},
		{"Merged", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCapture(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCapture(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCapture(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
