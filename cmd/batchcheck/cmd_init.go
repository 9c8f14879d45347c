package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vertti/batchcheck/pkg/batch"
	"github.com/vertti/batchcheck/pkg/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default " + config.FileName + " in the current directory",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	env, err := currentEnv()
	if err != nil {
		return withExitCode(batch.ExitEnvironment, err)
	}
	if err := config.WriteToFile(env.WorkDir, config.Default(), config.NewWriter()); err != nil {
		return withExitCode(batch.ExitEnvironment, err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", config.FileName)
	return nil
}
