package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forge-dev/forge/envconfig"
	"github.com/forge-dev/forge/executor"
	"github.com/forge-dev/forge/workflow"
)

func newWorkflowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Run multi-step command workflows",
	}

	runCmd := &cobra.Command{
		Use:   "run NAME|FILE",
		Short: "Run a built-in workflow or a workflow file",
		Args:  cobra.ExactArgs(1),
		RunE:  WorkflowRunHandler,
	}
	runCmd.Flags().StringToString("var", nil, "Override workflow variables (name=value)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List built-in workflows",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			for _, w := range workflow.Presets() {
				fmt.Printf("%-20s %s\n", w.Name, w.Description)
			}
			return nil
		},
	}

	cmd.AddCommand(runCmd, listCmd)
	return cmd
}

func WorkflowRunHandler(cmd *cobra.Command, args []string) error {
	exec := executor.New()
	runner := workflow.NewRunner(exec)
	for _, preset := range workflow.Presets() {
		runner.Add(preset)
	}

	name := args[0]
	if _, err := os.Stat(name); err == nil {
		w, err := runner.Load(name)
		if err != nil {
			return err
		}
		name = w.Name
	}

	if overrides, err := cmd.Flags().GetStringToString("var"); err == nil && len(overrides) > 0 {
		w, ok := runner.Get(name)
		if !ok {
			return fmt.Errorf("workflow %q not found", name)
		}
		if w.Variables == nil {
			w.Variables = make(map[string]string)
		}
		for k, v := range overrides {
			w.Variables[k] = v
		}
	}

	if envconfig.NoSafety() {
		exec.WithConfirm(func(string) (string, error) { return "YES", nil })
	}

	execution, err := runner.Run(cmd.Context(), name)
	if err != nil {
		return err
	}
	if !execution.Success {
		return fmt.Errorf("workflow %q failed", execution.Workflow)
	}
	return nil
}
