package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forge-dev/forge/api"
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show MODEL",
		Short: "Show information for a model",
		Args:  cobra.ExactArgs(1),
		RunE:  ShowHandler,
	}

	cmd.Flags().Bool("modelfile", false, "Show the Modelfile")
	cmd.Flags().Bool("parameters", false, "Show model parameters")
	cmd.Flags().Bool("template", false, "Show the prompt template")
	cmd.Flags().Bool("system", false, "Show the system message")
	return cmd
}

func ShowHandler(cmd *cobra.Command, args []string) error {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}

	resp, err := client.Show(cmd.Context(), &api.ShowRequest{Model: args[0]})
	if err != nil {
		return err
	}

	flagged := map[string]string{
		"modelfile":  resp.Modelfile,
		"parameters": resp.Parameters,
		"template":   resp.Template,
		"system":     resp.System,
	}
	for name, content := range flagged {
		if set, _ := cmd.Flags().GetBool(name); set {
			fmt.Println(content)
			return nil
		}
	}

	fmt.Println("  Model")
	fmt.Printf("    name            \t%s\n", args[0])
	fmt.Printf("    architecture    \t%s\n", resp.Details.Family)
	fmt.Printf("    parameters      \t%s\n", resp.Details.ParameterSize)
	fmt.Printf("    quantization    \t%s\n", resp.Details.QuantizationLevel)
	fmt.Println()

	if resp.System != "" {
		fmt.Println("  System")
		for line := range strings.SplitSeq(strings.TrimSpace(resp.System), "\n") {
			fmt.Printf("    %s\n", line)
		}
		fmt.Println()
	}

	if resp.Parameters != "" {
		fmt.Println("  Parameters")
		for line := range strings.SplitSeq(strings.TrimSpace(resp.Parameters), "\n") {
			fmt.Printf("    %s\n", line)
		}
		fmt.Println()
	}
	return nil
}
