package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vibetools/t8ctl/internal/export"
)

func newInfoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show device identity and hardware information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			info, err := client.FetchSystemInfo(cmd.Context())
			if err != nil {
				return fmt.Errorf("retrieve system info: %w", err)
			}
			printSystemInfo(cmd, info)
			return nil
		},
	}
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show device health status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			status, err := client.FetchStatus(cmd.Context())
			if err != nil {
				return fmt.Errorf("retrieve status: %w", err)
			}
			printStatus(cmd, status)
			return nil
		},
	}
}

func newLicenseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "license",
		Short: "Show device license and feature table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			info, err := client.FetchSystemInfo(cmd.Context())
			if err != nil {
				return fmt.Errorf("retrieve system info: %w", err)
			}
			if info.License == nil {
				return fmt.Errorf("device %s has no license information", info.FullSerial)
			}
			printLicense(cmd, info.License, info.FullSerial)
			return nil
		},
	}
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "List and retrieve device configurations",
	}
	cmd.AddCommand(newConfigListCmd(opts), newConfigGetCmd(opts))
	return cmd
}

func newConfigListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configuration IDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			ids, err := client.ListConfigs(cmd.Context())
			if err != nil {
				return fmt.Errorf("list configurations: %w", err)
			}
			for _, id := range ids {
				// ID 0 is the device's scratch slot, not a stored config.
				if id == "0" {
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func newConfigGetCmd(opts *rootOptions) *cobra.Command {
	var (
		id     string
		output string
	)
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Retrieve a configuration and save it as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			// The export filename carries the device serial, which only
			// the system info endpoint knows.
			info, err := client.FetchSystemInfo(ctx)
			if err != nil {
				return fmt.Errorf("retrieve system info: %w", err)
			}
			doc, err := client.FetchConfig(ctx, id)
			if err != nil {
				return fmt.Errorf("retrieve configuration: %w", err)
			}
			path := output
			if path == "" {
				path = export.ConfigFilename(info.FullSerial, doc.UID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saving configuration to %s\n", path)
			return export.JSON(doc.Raw, path)
		},
	}
	cmd.Flags().StringVarP(&id, "id", "i", "0", "configuration ID")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path override")
	return cmd
}
