package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/forge-dev/forge/api"
	"github.com/forge-dev/forge/format"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list [PREFIX]",
		Aliases: []string{"ls"},
		Short:   "List models available on the server",
		Args:    cobra.MaximumNArgs(1),
		RunE:    ListHandler,
	}
}

func ListHandler(cmd *cobra.Command, args []string) error {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}

	models, err := client.List(cmd.Context())
	if err != nil {
		return err
	}

	var data [][]string
	for _, m := range models.Models {
		if len(args) > 0 && !strings.HasPrefix(strings.ToLower(m.Name), strings.ToLower(args[0])) {
			continue
		}

		digest := m.Digest
		if len(digest) > 12 {
			digest = digest[:12]
		}
		data = append(data, []string{
			m.Name,
			digest,
			format.HumanBytes(m.Size),
			format.HumanTime(m.ModifiedAt, "Never"),
		})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"NAME", "ID", "SIZE", "MODIFIED"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	return nil
}

// listModels is the /list handler inside the chat session.
func listModels(ctx context.Context, client *api.Client) error {
	models, err := client.List(ctx)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"NAME", "SIZE", "MODIFIED"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	for _, m := range models.Models {
		table.Append([]string{m.Name, format.HumanBytes(m.Size), format.HumanTime(m.ModifiedAt, "Never")})
	}
	table.Render()

	return nil
}
