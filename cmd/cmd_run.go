package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forge-dev/forge/api"
	"github.com/forge-dev/forge/config"
	"github.com/forge-dev/forge/envconfig"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run PROMPT...",
		Short: "Run a single prompt and print the response",
		Args:  cobra.MinimumNArgs(1),
		RunE:  RunHandler,
	}

	cmd.Flags().String("model", "", "Model to use (default from config)")
	cmd.Flags().Bool("verbose", false, "Show timings for the response")
	cmd.Flags().Bool("nowordwrap", false, "Don't wrap words to the next line automatically")
	return cmd
}

func RunHandler(cmd *cobra.Command, args []string) error {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = cfg.LLM.Model
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	nowordwrap, _ := cmd.Flags().GetBool("nowordwrap")

	ctx := cmd.Context()
	if timeout := envconfig.RequestTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req := &api.GenerateRequest{
		Model:  model,
		Prompt: strings.Join(args, " "),
		Options: map[string]any{
			"temperature": cfg.LLM.Temperature,
		},
	}

	var state displayResponseState
	var metrics api.Metrics

	err = client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		displayResponse(resp.Response, !nowordwrap, &state)
		if resp.Done {
			metrics = resp.Metrics
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Println()
	if verbose {
		fmt.Println()
		printMetrics(metrics)
	}
	return nil
}
