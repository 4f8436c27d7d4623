package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/forge-dev/forge/envconfig"
	"github.com/forge-dev/forge/executor"
)

func newExecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec COMMAND...",
		Short: "Run a shell command through the safety checker",
		Args:  cobra.MinimumNArgs(1),
		RunE:  ExecHandler,
	}

	cmd.Flags().Duration("timeout", 0, "Kill the command after this duration")
	cmd.Flags().String("dir", "", "Working directory")
	cmd.Flags().Bool("no-safety", false, "Skip the safety check")
	return cmd
}

func ExecHandler(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	dir, _ := cmd.Flags().GetString("dir")
	noSafety, _ := cmd.Flags().GetBool("no-safety")

	opts := executor.DefaultOptions()
	opts.Timeout = timeout
	opts.WorkingDir = dir
	opts.SafetyCheck = !noSafety && !envconfig.NoSafety()
	opts.CaptureOutput = false

	start := time.Now()
	result, err := executor.New().Run(cmd.Context(), strings.Join(args, " "), opts)
	if err != nil {
		return err
	}

	if !result.Success() {
		return fmt.Errorf("command exited with code %d after %s",
			result.ExitCode, time.Since(start).Round(time.Millisecond))
	}
	return nil
}

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive shell with safety checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			shell := executor.NewShell(executor.New())
			if envconfig.NoSafety() {
				shell = shell.WithoutSafety()
			}
			return shell.Interactive(cmd.Context())
		},
	}
}
