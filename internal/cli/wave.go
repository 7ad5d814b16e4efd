package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vibetools/t8ctl/internal/export"
	"github.com/vibetools/t8ctl/internal/shape"
)

func newWaveCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wave",
		Short: "List and retrieve waveforms",
	}
	cmd.AddCommand(newWaveListCmd(opts), newWaveGetCmd(opts))
	return cmd
}

func newWaveListCmd(opts *rootOptions) *cobra.Command {
	var target targetFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available waveform timestamps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			stamps, err := client.ListWaves(cmd.Context(), target.machine, target.point, target.pmode)
			if err != nil {
				return fmt.Errorf("list waves: %w", err)
			}
			for _, line := range shape.Timestamps(stamps) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	target.register(cmd, true)
	return cmd
}

func newWaveGetCmd(opts *rootOptions) *cobra.Command {
	var (
		target targetFlags
		at     string
		output string
	)
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Retrieve a waveform and save it as CSV",
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
			wave, err := client.FetchWave(cmd.Context(), target.machine, target.point, target.pmode, t)
			if err != nil {
				return fmt.Errorf("retrieve wave: %w", err)
			}

			printWave(cmd, wave)
			path := output
			if path == "" {
				path = export.WaveFilename(target.machine, target.point, target.pmode, wave.SnapTime)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saving waveform to %s\n", path)
			return export.CSV(shape.Wave(wave), path)
		},
	}
	target.register(cmd, true)
	cmd.Flags().StringVarP(&at, "time", "t", "", "capture timestamp, ISO-8601 (default: latest)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path override")
	return cmd
}
