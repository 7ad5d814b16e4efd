package cli

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vibetools/t8ctl/internal/t8"
)

var labelStyle = lipgloss.NewStyle().Bold(true).Width(14)

func printField(cmd *cobra.Command, label string, value any) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n", labelStyle.Render(label+":"), value)
}

func printWave(cmd *cobra.Command, w *t8.Wave) {
	printField(cmd, "Path", w.Path)
	printField(cmd, "Speed", fmt.Sprintf("%g Hz", w.Speed))
	printField(cmd, "Timestamp", w.Time.UTC().Format(time.RFC3339))
	printField(cmd, "Snapshot", w.SnapTime.UTC().Format(time.RFC3339))
	printField(cmd, "Unit ID", w.UnitID)
	printField(cmd, "Sample rate", fmt.Sprintf("%g Hz", w.SampleRate))
	printField(cmd, "Samples", len(w.Data))
	printField(cmd, "Duration", fmt.Sprintf("%.3f s", w.Duration().Seconds()))
}

func printSpectrum(cmd *cobra.Command, s *t8.Spectrum) {
	printField(cmd, "Path", s.Path)
	printField(cmd, "Speed", fmt.Sprintf("%g Hz", s.Speed))
	printField(cmd, "Timestamp", s.Time.UTC().Format(time.RFC3339))
	printField(cmd, "Snapshot", s.SnapTime.UTC().Format(time.RFC3339))
	printField(cmd, "Unit ID", s.UnitID)
	printField(cmd, "Min. freq", fmt.Sprintf("%g Hz", s.MinFreq))
	printField(cmd, "Max. freq", fmt.Sprintf("%g Hz", s.MaxFreq))
	printField(cmd, "Window", s.Window)
	printField(cmd, "Bins", len(s.Data))
}

func printSnapshot(cmd *cobra.Command, snap *t8.Snapshot) {
	printField(cmd, "Tag", snap.Tag)
	printField(cmd, "Timestamp", snap.Time.UTC().Format(time.RFC3339))
	printField(cmd, "Conf ID", snap.ConfID)
	printField(cmd, "Speed", fmt.Sprintf("%g Hz", snap.Speed))
	printField(cmd, "State", snap.StateID)
}

func printSystemInfo(cmd *cobra.Command, info *t8.SystemInfo) {
	fmt.Fprintln(cmd.OutOrStdout(), "T8 System Information:")
	printField(cmd, "Serial", info.FullSerial)
	printField(cmd, "Model", fmt.Sprintf("%s %s", info.Model, info.Variant))
	printField(cmd, "Version", info.Version)
	printField(cmd, "Revision", info.Revision)
	printField(cmd, "HW Version", info.HWVersion)
	printField(cmd, "Host", info.Host)
	if info.ExpModule != "" {
		printField(cmd, "Exp Module", fmt.Sprintf("%s (%s)", info.ExpModule, info.ExpSerial))
	}
}

func printStatus(cmd *cobra.Command, status *t8.DeviceStatus) {
	fmt.Fprintln(cmd.OutOrStdout(), "T8 Status:")
	printField(cmd, "Time", status.Time().Format(time.RFC3339))
	printField(cmd, "Uptime", fmt.Sprintf("%g s", status.UpTime))
	printField(cmd, "Board Temp", fmt.Sprintf("%g °C", status.BoardTemp))
	printField(cmd, "CPU Temp", fmt.Sprintf("%g °C", status.CPUTemp))
	printField(cmd, "Input Voltage", fmt.Sprintf("%g V", status.VInput))
	printField(cmd, "Fan PWM", status.FanPWM)
	printField(cmd, "Host", status.Host)
	printField(cmd, "HW Addr", status.HWAddr)
	printField(cmd, "IP Addr", status.IPAddr)
	printField(cmd, "Gateway", status.Gateway)
	printField(cmd, "DHCP Enabled", status.DHCPEnabled)
	fmt.Fprintln(cmd.OutOrStdout(), "Data Mount:")
	printMount(cmd, status.DataMount)
}

func printMount(cmd *cobra.Command, mount t8.MountInfo) {
	printField(cmd, "  Device", mount.Device)
	printField(cmd, "  Path", mount.Path)
	printField(cmd, "  Total", fmt.Sprintf("%d bytes", mount.Total))
	printField(cmd, "  Used", fmt.Sprintf("%d bytes", mount.Used))
	printField(cmd, "  Volatile", mount.Volatile)
}

func printLicense(cmd *cobra.Command, lic *t8.License, serial string) {
	fmt.Fprintln(cmd.OutOrStdout(), "License Information:")
	printField(cmd, "Serial", serial)
	printField(cmd, "Changed at", time.Unix(lic.ChangedAt, 0).UTC().Format(time.RFC3339))
	printField(cmd, "Expires at", time.Unix(lic.ExpiresAt, 0).UTC().Format(time.RFC3339))
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), renderFeatures(lic.Features))
}

func renderFeatures(features []t8.LicenseFeature) string {
	sorted := make([]t8.LicenseFeature, len(features))
	copy(sorted, features)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("#", "ABBREV", "NAME", "ENABLED")
	for _, f := range sorted {
		t.Row(strconv.Itoa(f.Number), f.Abbrev, f.Name, strconv.FormatBool(f.Enabled))
	}
	return t.Render()
}
