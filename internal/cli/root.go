// Package cli wires the command tree: credential resolution, one command
// per device resource, and export of fetched records to the working
// directory.
package cli

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vibetools/t8ctl/internal/config"
	"github.com/vibetools/t8ctl/internal/t8"
)

type rootOptions struct {
	host       string
	user       string
	passw      string
	configPath string
	verbose    bool
}

// client resolves credentials (flags over environment over config file)
// and opens a device client.
func (o *rootOptions) client() (*t8.Client, error) {
	// A .env in the working directory feeds the T8_* variables when present.
	_ = godotenv.Load()

	fileCfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	flagCfg := config.Config{Host: o.host, User: o.user, Password: o.passw}
	cfg := config.Merge(flagCfg, config.FromEnv(), fileCfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return t8.NewClient(cfg.Host, cfg.User, cfg.Password)
}

// NewRootCmd builds the t8ctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "t8ctl",
		Short:         "Retrieve vibration data from a T8 condition-monitoring device",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.host, "host", "", "device base URL (env T8_HOST)")
	flags.StringVar(&opts.user, "user", "", "username (env T8_USER)")
	flags.StringVar(&opts.passw, "passw", "", "password (env T8_PASSW)")
	flags.StringVar(&opts.configPath, "config", "", "config file path (default ~/.config/t8ctl/config.toml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newParamsCmd(opts),
		newProcModesCmd(opts),
		newSnapshotCmd(opts),
		newWaveCmd(opts),
		newSpectrumCmd(opts),
		newTrendCmd(opts),
		newConfigCmd(opts),
		newInfoCmd(opts),
		newStatusCmd(opts),
		newLicenseCmd(opts),
		newMonitorCmd(opts),
	)
	return root
}

// targetFlags carries the machine/point/pmode selection shared by the
// record commands.
type targetFlags struct {
	machine string
	point   string
	pmode   string
}

func (t *targetFlags) register(cmd *cobra.Command, withPmode bool) {
	cmd.Flags().StringVarP(&t.machine, "machine", "M", "", "machine name")
	cmd.Flags().StringVarP(&t.point, "point", "p", "", "point name")
	_ = cmd.MarkFlagRequired("machine")
	_ = cmd.MarkFlagRequired("point")
	if withPmode {
		cmd.Flags().StringVarP(&t.pmode, "pmode", "m", "", "processing mode")
		_ = cmd.MarkFlagRequired("pmode")
	}
}

// parseTime parses the optional -t value. Empty input selects the latest
// record via the zero time.
func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q (expected ISO-8601): %w", value, t8.ErrValidation)
}
