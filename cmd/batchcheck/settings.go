package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/vertti/batchcheck/pkg/config"
	"github.com/vertti/batchcheck/pkg/discover"
	"github.com/vertti/batchcheck/pkg/runner"
)

// settings is the effective configuration of one invocation: the config
// file (or defaults) overridden by any flag the user set.
type settings struct {
	Dirs        []string
	Pattern     string
	Tool        string
	Args        []string
	Capture     runner.Capture
	Missing     discover.MissingPolicy
	Timeout     time.Duration
	Constraint  *semver.Constraints
	VersionArgs []string
	ToolDir     string // working directory the tool runs in
}

func currentEnv() (config.Env, error) {
	wd, err := os.Getwd()
	if err != nil {
		return config.Env{}, errors.Wrap(err, "failed to get working directory")
	}
	// A missing home directory only matters for ~/ tool paths, which
	// ResolveToolPath reports on its own.
	home, _ := os.UserHomeDir()
	return config.Env{WorkDir: wd, HomeDir: home}, nil
}

// loadConfig returns the config file named by --config or found by walking
// up from the work dir, and the directory its relative paths are based on.
func loadConfig(env config.Env) (config.Config, string, error) {
	if configPath != "" {
		cfg, err := config.NewLoader().Load(configPath)
		if err != nil {
			return config.Config{}, "", err
		}
		dir, err := filepath.Abs(filepath.Dir(configPath))
		if err != nil {
			return config.Config{}, "", errors.Wrap(err, "failed to get absolute path")
		}
		return cfg, dir, nil
	}

	cfg, dir, err := config.NewFinder(config.NewLoader(), env.HomeDir).Find(env.WorkDir)
	if errors.Is(err, config.ErrNotFound) {
		return config.Default(), env.WorkDir, nil
	}
	return cfg, dir, err
}

// relativeBase expresses projectDir relative to the work dir so that
// discovered paths print the way the user would type them.
func relativeBase(workDir, projectDir string) string {
	if projectDir == workDir {
		return ""
	}
	if rel, err := filepath.Rel(workDir, projectDir); err == nil {
		return rel
	}
	return projectDir
}

func resolveSettings(cmd *cobra.Command, env config.Env) (settings, error) {
	cfg, projectDir, err := loadConfig(env)
	if err != nil {
		return settings{}, err
	}

	s := settings{
		Dirs:    cfg.ResolveDirectories(relativeBase(env.WorkDir, projectDir)),
		Pattern: cfg.Pattern,
		Args:    cfg.Args,
		ToolDir: env.WorkDir,
	}

	flags := cmd.Flags()
	toolEnv := config.Env{WorkDir: projectDir, HomeDir: env.HomeDir}
	tool := cfg.Tool
	if flags.Changed("tool") {
		tool = toolFlag
		toolEnv.WorkDir = env.WorkDir
	}
	if s.Tool, err = config.ResolveToolPath(tool, toolEnv); err != nil {
		return settings{}, err
	}

	if flags.Changed("dir") {
		s.Dirs = runDirs
	}
	if flags.Changed("pattern") {
		s.Pattern = runPattern
	}
	if flags.Changed("arg") {
		s.Args = runArgs
	}

	captureValue := cfg.Capture
	if flags.Changed("capture") {
		captureValue = runCapture
	}
	if s.Capture, err = runner.ParseCapture(captureValue); err != nil {
		return settings{}, err
	}

	missingValue := cfg.MissingDirs
	if flags.Changed("skip-missing") {
		missingValue = string(discover.MissingError)
		if runSkipMissing {
			missingValue = string(discover.MissingSkip)
		}
	}
	if s.Missing, err = discover.ParseMissingPolicy(missingValue); err != nil {
		return settings{}, err
	}

	if s.Timeout, err = cfg.TimeoutDuration(); err != nil {
		return settings{}, err
	}
	if flags.Changed("timeout") {
		s.Timeout = runTimeout
	}
	if s.Timeout < 0 {
		return settings{}, errors.New("--timeout must not be negative")
	}

	constraint := cfg.MinToolVersion
	if flags.Changed("min-tool-version") {
		constraint = minToolVersion
	}
	if constraint != "" {
		if s.Constraint, err = semver.NewConstraint(constraint); err != nil {
			return settings{}, errors.Wrapf(err, "invalid --min-tool-version %q", constraint)
		}
	}
	s.VersionArgs = strings.Fields(versionArgs)

	return s, nil
}
