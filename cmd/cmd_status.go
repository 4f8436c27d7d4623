package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/forge-dev/forge/api"
	"github.com/forge-dev/forge/envconfig"
	"github.com/forge-dev/forge/format"
	"github.com/forge-dev/forge/version"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show connection and model status",
		Args:  cobra.NoArgs,
		RunE:  StatusHandler,
	}
}

func StatusHandler(cmd *cobra.Command, _ []string) error {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}

	host := envconfig.Host()
	fmt.Printf("forge version: %s\n", version.Version)
	fmt.Printf("server:        %s\n", host)

	if err := client.Heartbeat(cmd.Context()); err != nil {
		fmt.Println("status:        unreachable")
		return fmt.Errorf("could not connect to server at %s: %w", host, err)
	}
	fmt.Println("status:        ok")

	if serverVersion, err := client.Version(cmd.Context()); err == nil {
		fmt.Printf("server version: %s\n", serverVersion)
	}

	models, err := client.List(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("\n%d model(s) available:\n", len(models.Models))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"NAME", "SIZE"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	for _, m := range models.Models {
		table.Append([]string{m.Name, format.HumanBytes(m.Size)})
	}
	table.Render()

	return nil
}
