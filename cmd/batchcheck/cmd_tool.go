package main

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/vertti/batchcheck/pkg/batch"
	"github.com/vertti/batchcheck/pkg/output"
	"github.com/vertti/batchcheck/pkg/runner"
	"github.com/vertti/batchcheck/pkg/toolcheck"
)

// ErrToolUnavailable is returned when the tool preflight fails.
var ErrToolUnavailable = errors.New("verification tool unavailable")

var toolCmd = &cobra.Command{
	Use:   "tool",
	Short: "Check that the verification tool can be run",
	Args:  cobra.NoArgs,
	RunE:  runToolCheck,
}

func init() {
	rootCmd.AddCommand(toolCmd)
}

func runToolCheck(cmd *cobra.Command, _ []string) error {
	env, err := currentEnv()
	if err != nil {
		return withExitCode(batch.ExitEnvironment, err)
	}
	s, err := resolveSettings(cmd, env)
	if err != nil {
		return withExitCode(batch.ExitEnvironment, err)
	}

	printer := output.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
	result := newToolCheck(s).Run(cmd.Context())
	printer.PrintResult(result)

	if !result.OK() {
		return withExitCode(batch.ExitEnvironment, ErrToolUnavailable)
	}
	return nil
}

// newToolCheck queries the version with merged capture whatever capture mode
// the run uses for files.
func newToolCheck(s settings) *toolcheck.Check {
	return &toolcheck.Check{
		Tool:        s.Tool,
		VersionArgs: s.VersionArgs,
		Constraint:  s.Constraint,
		Runner:      &runner.RealRunner{Capture: runner.CaptureMerged, Dir: s.ToolDir},
	}
}

// preflightTool stops a run before any file is checked when the tool is
// missing, so an environment problem is not reported as failing files.
func preflightTool(ctx context.Context, s settings, printer *output.Printer) error {
	result := newToolCheck(s).Run(ctx)
	if result.OK() {
		return nil
	}
	printer.PrintResult(result)
	return withExitCode(batch.ExitEnvironment, ErrToolUnavailable)
}
