package main

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/vertti/batchcheck/pkg/batch"
	"github.com/vertti/batchcheck/pkg/discover"
	"github.com/vertti/batchcheck/pkg/output"
	"github.com/vertti/batchcheck/pkg/report"
	"github.com/vertti/batchcheck/pkg/runner"
)

var (
	runDirs        []string
	runPattern     string
	runArgs        []string
	runCapture     string
	runSkipMissing bool
	runTimeout     time.Duration
	runReport      string
	runVerbose     bool
)

var runCmd = &cobra.Command{
	Use:   "run [file...]",
	Short: "Check every matching file, or only the given files",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringSliceVar(&runDirs, "dir", nil, "directory to scan (repeatable, scanned in order)")
	runCmd.Flags().StringVar(&runPattern, "pattern", "", "glob matched against file names (e.g. *.mbt)")
	runCmd.Flags().StringArrayVar(&runArgs, "arg", nil, "argument placed before the file path (repeatable)")
	runCmd.Flags().StringVar(&runCapture, "capture", "", "output capture: merged or separate")
	runCmd.Flags().BoolVar(&runSkipMissing, "skip-missing", false, "treat missing directories as empty instead of failing")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "per-file timeout (0 waits indefinitely)")
	runCmd.Flags().StringVar(&runReport, "report", "", "write a JSON report to this path")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "print each tool command line")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if err := requireNoFilesWith(args,
		flagSet{"--dir", flags.Changed("dir")},
		flagSet{"--pattern", flags.Changed("pattern")},
		flagSet{"--skip-missing", flags.Changed("skip-missing")},
	); err != nil {
		return withExitCode(batch.ExitEnvironment, err)
	}

	env, err := currentEnv()
	if err != nil {
		return withExitCode(batch.ExitEnvironment, err)
	}
	s, err := resolveSettings(cmd, env)
	if err != nil {
		return withExitCode(batch.ExitEnvironment, err)
	}

	printer := output.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
	r := &runner.RealRunner{Capture: s.Capture, Dir: s.ToolDir}

	if err := preflightTool(cmd.Context(), s, printer); err != nil {
		return err
	}

	d := &discover.Discoverer{Pattern: s.Pattern, Missing: s.Missing, FS: &discover.RealFileSystem{}}
	if len(args) == 0 {
		if err := d.Validate(); err != nil {
			return withExitCode(batch.ExitEnvironment, err)
		}
	}

	checker := &batch.Checker{
		Tool:       s.Tool,
		Args:       s.Args,
		Timeout:    s.Timeout,
		Verbose:    runVerbose,
		Runner:     r,
		Discoverer: d,
		Printer:    printer,
	}

	var summary batch.Summary
	if len(args) > 0 {
		summary, err = checker.RunFiles(cmd.Context(), args)
	} else {
		summary, err = checker.Run(cmd.Context(), s.Dirs)
	}
	if err != nil {
		return withExitCode(batch.ExitEnvironment, err)
	}

	if runReport != "" {
		if err := report.WriteFile(runReport, report.FromSummary(summary)); err != nil {
			return withExitCode(batch.ExitEnvironment, err)
		}
	}

	if !summary.Passed {
		return withExitCode(summary.ExitCode(),
			errors.Wrapf(ErrCheckFailed, "%d of %d files failed", summary.Failed, summary.Total))
	}
	return nil
}
