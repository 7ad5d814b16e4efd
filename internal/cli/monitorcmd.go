package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vibetools/t8ctl/internal/monitor"
)

func newMonitorCmd(opts *rootOptions) *cobra.Command {
	var pollSeconds int
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Show a live device status view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			monOpts := monitor.Options{
				Client: client,
				Host:   client.Host(),
			}
			if pollSeconds > 0 {
				monOpts.PollEvery = time.Duration(pollSeconds) * time.Second
			}
			return monitor.Run(cmd.Context(), monOpts)
		},
	}
	cmd.Flags().IntVar(&pollSeconds, "poll", 0, "refresh interval in seconds (default 2)")
	return cmd
}
