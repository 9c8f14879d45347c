package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vertti/batchcheck/pkg/config"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:          "batchcheck",
	Short:        "Run a verification tool over a directory of test files",
	Long:         "Batchcheck invokes an external compiler or runner on every matching file and fails the build if any file reports an error.",
	Version:      Version,
	SilenceUsage: true,
}

var (
	configPath     string
	toolFlag       string
	minToolVersion string
	versionArgs    string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to "+config.FileName+" (default: search up from current directory)")
	rootCmd.PersistentFlags().StringVar(&toolFlag, "tool", "", "verification tool; ~/ is resolved against the home directory")
	rootCmd.PersistentFlags().StringVar(&minToolVersion, "min-tool-version", "", "semver constraint the tool version must satisfy (e.g. \">= 0.1.0\")")
	rootCmd.PersistentFlags().StringVar(&versionArgs, "version-cmd", "--version", "arguments that make the tool print its version")
}
