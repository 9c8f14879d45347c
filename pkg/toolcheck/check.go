// Package toolcheck verifies that the verification tool can be spawned, and
// optionally that it reports an acceptable version, before a batch run.
package toolcheck

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"

	"github.com/vertti/batchcheck/pkg/check"
	"github.com/vertti/batchcheck/pkg/runner"
)

// DefaultTimeout bounds the version query.
const DefaultTimeout = 30 * time.Second

var versionRegex = regexp.MustCompile(`v?\d+(?:\.\d+){0,2}(?:-[0-9A-Za-z.-]+)?`)

// Check verifies the tool exists and, when Constraint is set, that its
// version satisfies it.
type Check struct {
	Tool        string              // resolved tool path or bare name
	VersionArgs []string            // args to get version (default: --version)
	Constraint  *semver.Constraints // nil skips the version query
	Timeout     time.Duration       // timeout for version command (default: 30s)
	Runner      runner.Runner       // injected for testing
}

// Run executes the tool check.
func (c *Check) Run(ctx context.Context) check.Result {
	result := check.Result{
		Name: fmt.Sprintf("tool: %s", c.Tool),
	}

	path, err := c.Runner.LookPath(c.Tool)
	if err != nil {
		return result.Failf("not found: %v", err)
	}
	result.AddDetailf("path: %s", path)

	if c.Constraint == nil {
		result.Status = check.StatusOK
		return result
	}

	args := c.VersionArgs
	if len(args) == 0 {
		args = []string{"--version"}
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	inv, err := c.Runner.RunCommand(ctx, path, args...)
	if ctx.Err() == context.DeadlineExceeded {
		return result.Failf("version command timed out after %s", timeout)
	}
	if err != nil {
		return result.Fail(fmt.Sprintf("version command failed: %v", err), err)
	}
	if inv.ExitCode != 0 {
		return result.Failf("version command exited with code %d", inv.ExitCode)
	}

	// Tools differ in which stream carries the version.
	v, err := Extract(inv.Output + "\n" + inv.Stderr)
	if err != nil {
		return result.Failf("could not parse version from output: %v", err)
	}
	result.AddDetailf("version: %s", v)

	if ok, errs := c.Constraint.Validate(v); !ok {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return result.Failf("version %s does not satisfy %s: %s", v, c.Constraint, strings.Join(msgs, "; "))
	}

	result.Status = check.StatusOK
	return result
}

// Extract finds and parses the first version number in s.
func Extract(s string) (*semver.Version, error) {
	match := versionRegex.FindString(s)
	if match == "" {
		return nil, errors.Newf("no version found in: %q", strings.TrimSpace(s))
	}
	return semver.NewVersion(match)
}
