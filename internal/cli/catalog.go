package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vibetools/t8ctl/internal/t8"
)

func newParamsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "List all parameters in the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			refs, err := client.ListParams(cmd.Context())
			if err != nil {
				return fmt.Errorf("list parameters: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRefs(refs, "PARAMETER"))
			return nil
		},
	}
}

func newProcModesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "proc_modes",
		Short: "List all processing modes in the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			refs, err := client.ListProcModes(cmd.Context())
			if err != nil {
				return fmt.Errorf("list processing modes: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRefs(refs, "MODE"))
			return nil
		},
	}
}

var tableHeaderStyle = lipgloss.NewStyle().Bold(true)

func renderRefs(refs []t8.ModeRef, tagLabel string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("MACHINE", "POINT", tagLabel)
	for _, ref := range refs {
		t.Row(ref.Machine, ref.Point, ref.Tag)
	}
	return t.Render()
}
