// Package batch runs the verification tool over every discovered file and
// aggregates the outcome into a single pass/fail summary.
package batch

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/vertti/batchcheck/pkg/check"
	"github.com/vertti/batchcheck/pkg/discover"
	"github.com/vertti/batchcheck/pkg/output"
	"github.com/vertti/batchcheck/pkg/runner"
)

// Exit codes of a batch run.
const (
	ExitPassed      = 0
	ExitFailed      = 1
	ExitEnvironment = 2
)

// Summary is the aggregate state of one run.
type Summary struct {
	Passed  bool
	Total   int
	Failed  int
	Results []check.Result
}

func newSummary() Summary {
	return Summary{Passed: true}
}

func (s *Summary) add(r check.Result) {
	s.Total++
	s.Results = append(s.Results, r)
	if !r.OK() {
		s.Failed++
		s.Passed = false
	}
}

// ExitCode maps the summary to the process exit status.
func (s Summary) ExitCode() int {
	if s.Passed {
		return ExitPassed
	}
	return ExitFailed
}

// Checker invokes Tool with Args followed by each target path.
type Checker struct {
	Tool       string
	Args       []string
	Timeout    time.Duration // zero waits for the tool indefinitely
	Verbose    bool          // echo each tool command line
	Runner     runner.Runner
	Discoverer *discover.Discoverer
	Printer    *output.Printer
}

// CheckOne runs the tool against a single path and classifies the result.
// A classified failure is reported through the Result; the returned error is
// non-nil only when the tool could not be spawned.
func (c *Checker) CheckOne(ctx context.Context, path string) (check.Result, error) {
	c.Printer.Progress(path)

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	args := make([]string, 0, len(c.Args)+1)
	args = append(args, c.Args...)
	args = append(args, path)

	if c.Verbose {
		c.Printer.Command(c.Tool, args)
	}

	inv, err := c.Runner.RunCommand(ctx, c.Tool, args...)
	result := check.Result{
		Name:     path,
		ExitCode: inv.ExitCode,
	}

	if c.Timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		result.Failf("timed out after %s", c.Timeout)
		c.Printer.Failure(result)
		return result, nil
	}
	if err != nil {
		return result, err
	}

	result.Status = check.Classify(inv.Output, inv.ExitCode)
	if result.OK() {
		return result, nil
	}

	if line, ok := check.FirstErrorLine(inv.Output); ok {
		result.FirstError = line
	}
	if stderr := strings.TrimRight(inv.Stderr, "\n"); stderr != "" {
		result.AddDetailf("stderr: %s", stderr)
	}
	result.Err = errors.Newf("%s failed with exit code %d", path, inv.ExitCode)
	c.Printer.Failure(result)
	return result, nil
}

// Run checks every target discovered in dirs. All targets are attempted even
// after failures. The error is non-nil only for a discovery or tool
// invocation failure, which aborts the run.
func (c *Checker) Run(ctx context.Context, dirs []string) (Summary, error) {
	summary := newSummary()
	for target, err := range c.Discoverer.Targets(dirs) {
		if err != nil {
			return summary, err
		}
		result, err := c.CheckOne(ctx, target.Path)
		if err != nil {
			return summary, err
		}
		summary.add(result)
	}
	c.finish(summary)
	return summary, nil
}

// RunFiles checks the given paths directly, bypassing discovery.
func (c *Checker) RunFiles(ctx context.Context, paths []string) (Summary, error) {
	summary := newSummary()
	for _, path := range paths {
		result, err := c.CheckOne(ctx, path)
		if err != nil {
			return summary, err
		}
		summary.add(result)
	}
	c.finish(summary)
	return summary, nil
}

func (c *Checker) finish(s Summary) {
	if s.Total == 0 {
		c.Printer.NoTargets()
	}
	if s.Passed {
		c.Printer.Passed()
		return
	}
	c.Printer.Failed(s.Failed, s.Total)
}
