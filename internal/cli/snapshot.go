package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vibetools/t8ctl/internal/export"
	"github.com/vibetools/t8ctl/internal/shape"
)

func newSnapshotCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "List and retrieve machine snapshots",
	}
	cmd.AddCommand(newSnapshotListCmd(opts), newSnapshotGetCmd(opts))
	return cmd
}

func newSnapshotListCmd(opts *rootOptions) *cobra.Command {
	var machine string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available snapshot timestamps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			stamps, err := client.ListSnapshots(cmd.Context(), machine)
			if err != nil {
				return fmt.Errorf("list snapshots: %w", err)
			}
			for _, line := range shape.Timestamps(stamps) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&machine, "machine", "M", "", "machine name")
	_ = cmd.MarkFlagRequired("machine")
	return cmd
}

func newSnapshotGetCmd(opts *rootOptions) *cobra.Command {
	var (
		machine string
		at      string
		output  string
	)
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Retrieve a snapshot and save it as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseTime(at)
			if err != nil {
				return err
			}
			client, err := opts.client()
			if err != nil {
				return err
			}
			snap, err := client.FetchSnapshot(cmd.Context(), machine, t)
			if err != nil {
				return fmt.Errorf("retrieve snapshot: %w", err)
			}

			printSnapshot(cmd, snap)
			path := output
			if path == "" {
				path = export.SnapshotFilename(machine, snap.Time)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saving snapshot to %s\n", path)
			return export.JSON(snap.Raw, path)
		},
	}
	cmd.Flags().StringVarP(&machine, "machine", "M", "", "machine name")
	_ = cmd.MarkFlagRequired("machine")
	cmd.Flags().StringVarP(&at, "time", "t", "", "capture timestamp, ISO-8601 (default: latest)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path override")
	return cmd
}
