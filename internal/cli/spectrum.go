package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vibetools/t8ctl/internal/export"
	"github.com/vibetools/t8ctl/internal/shape"
)

func newSpectrumCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spectrum",
		Short: "List and retrieve spectra",
	}
	cmd.AddCommand(newSpectrumListCmd(opts), newSpectrumGetCmd(opts))
	return cmd
}

func newSpectrumListCmd(opts *rootOptions) *cobra.Command {
	var target targetFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available spectrum timestamps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			stamps, err := client.ListSpectra(cmd.Context(), target.machine, target.point, target.pmode)
			if err != nil {
				return fmt.Errorf("list spectra: %w", err)
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

func newSpectrumGetCmd(opts *rootOptions) *cobra.Command {
	var (
		target targetFlags
		at     string
		output string
	)
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Retrieve a spectrum and save it as CSV",
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
			spectrum, err := client.FetchSpectrum(cmd.Context(), target.machine, target.point, target.pmode, t)
			if err != nil {
				return fmt.Errorf("retrieve spectrum: %w", err)
			}

			printSpectrum(cmd, spectrum)
			path := output
			if path == "" {
				path = export.SpectrumFilename(target.machine, target.point, target.pmode, spectrum.SnapTime)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saving spectrum to %s\n", path)
			return export.CSV(shape.Spectrum(spectrum), path)
		},
	}
	target.register(cmd, true)
	cmd.Flags().StringVarP(&at, "time", "t", "", "capture timestamp, ISO-8601 (default: latest)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path override")
	return cmd
}
