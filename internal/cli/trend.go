package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vibetools/t8ctl/internal/export"
	"github.com/vibetools/t8ctl/internal/shape"
)

func newTrendCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Retrieve trend histories and save them as CSV",
	}
	cmd.AddCommand(
		newMachineTrendCmd(opts),
		newPointTrendCmd(opts),
		newProcModeTrendCmd(opts),
		newParamTrendCmd(opts),
	)
	return cmd
}

func newMachineTrendCmd(opts *rootOptions) *cobra.Command {
	var (
		machine string
		output  string
	)
	cmd := &cobra.Command{
		Use:   "machine",
		Short: "Retrieve the trend history of a machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			trend, err := client.FetchMachineTrend(cmd.Context(), machine)
			if err != nil {
				return fmt.Errorf("retrieve machine trend: %w", err)
			}
			path := output
			if path == "" {
				path = export.MachineTrendFilename(machine)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saving machine trend to %s\n", path)
			return export.CSV(shape.MachineTrend(trend), path)
		},
	}
	cmd.Flags().StringVarP(&machine, "machine", "M", "", "machine name")
	_ = cmd.MarkFlagRequired("machine")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path override")
	return cmd
}

func newPointTrendCmd(opts *rootOptions) *cobra.Command {
	var (
		target targetFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "point",
		Short: "Retrieve the trend history of a point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			trend, err := client.FetchPointTrend(cmd.Context(), target.machine, target.point)
			if err != nil {
				return fmt.Errorf("retrieve point trend: %w", err)
			}
			path := output
			if path == "" {
				path = export.PointTrendFilename(target.machine, target.point)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saving point trend to %s\n", path)
			return export.CSV(shape.PointTrend(trend), path)
		},
	}
	target.register(cmd, false)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path override")
	return cmd
}

func newProcModeTrendCmd(opts *rootOptions) *cobra.Command {
	var (
		target targetFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "pmode",
		Short: "Retrieve the trend history of a processing mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			trend, err := client.FetchProcModeTrend(cmd.Context(), target.machine, target.point, target.pmode)
			if err != nil {
				return fmt.Errorf("retrieve processing mode trend: %w", err)
			}
			path := output
			if path == "" {
				path = export.ProcModeTrendFilename(target.machine, target.point, target.pmode)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saving processing mode trend to %s\n", path)
			return export.CSV(shape.ProcModeTrend(trend), path)
		},
	}
	target.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path override")
	return cmd
}

func newParamTrendCmd(opts *rootOptions) *cobra.Command {
	var (
		target targetFlags
		param  string
		output string
	)
	cmd := &cobra.Command{
		Use:   "param",
		Short: "Retrieve the trend history of a parameter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			trend, err := client.FetchParamTrend(cmd.Context(), target.machine, target.point, param)
			if err != nil {
				return fmt.Errorf("retrieve parameter trend: %w", err)
			}
			path := output
			if path == "" {
				path = export.ParamTrendFilename(target.machine, target.point, param)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saving parameter trend to %s\n", path)
			return export.CSV(shape.ParamTrend(trend), path)
		},
	}
	target.register(cmd, false)
	cmd.Flags().StringVar(&param, "param", "", "parameter name")
	_ = cmd.MarkFlagRequired("param")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path override")
	return cmd
}
