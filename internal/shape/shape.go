// Package shape turns decoded capture records into flat tables ready for
// CSV export: a derived x-axis column next to the sample values, or one
// row per trend sample.
package shape

import (
	"math"
	"strconv"
	"time"

	"github.com/vibetools/t8ctl/internal/t8"
)

// Table is an in-memory CSV document: a header row plus data rows of
// already-formatted cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Wave lays out a waveform as Time,Value rows. The time axis is derived
// from the sample rate: t(i) = i / rate, one entry per sample.
func Wave(w *t8.Wave) Table {
	table := Table{Header: []string{"Time", "Value"}}
	table.Rows = make([][]string, 0, len(w.Data))
	for i, v := range w.Data {
		x := float64(i) / w.SampleRate
		table.Rows = append(table.Rows, []string{formatFloat(x), formatFloat(v)})
	}
	return table
}

// Spectrum lays out a spectrum as Frequency,RMS rows. The frequency axis
// is derived from the declared band: f(i) = min + i*(max-min)/n with the
// endpoint excluded, so the bin step equals span divided by bin count.
func Spectrum(s *t8.Spectrum) Table {
	table := Table{Header: []string{"Frequency", "RMS"}}
	n := len(s.Data)
	if n == 0 {
		return table
	}
	step := (s.MaxFreq - s.MinFreq) / float64(n)
	table.Rows = make([][]string, 0, n)
	for i, v := range s.Data {
		f := s.MinFreq + float64(i)*step
		table.Rows = append(table.Rows, []string{formatFloat(f), formatFloat(v)})
	}
	return table
}

// MachineTrend lays out a machine health history, one row per sample.
func MachineTrend(tr *t8.MachineTrend) Table {
	table := Table{Header: []string{"Timestamp", "Speed", "Load", "State", "Alarm", "Strategy"}}
	table.Rows = make([][]string, 0, len(tr.Times))
	for i, t := range tr.Times {
		table.Rows = append(table.Rows, []string{
			formatTime(t),
			floatCell(tr.Speed, i),
			floatCell(tr.Load, i),
			byteCell(tr.State, i),
			byteCell(tr.Alarm, i),
			byteCell(tr.Strategy, i),
		})
	}
	return table
}

// PointTrend lays out a point health history, one row per sample.
func PointTrend(tr *t8.PointTrend) Table {
	table := Table{Header: []string{"Timestamp", "Alarm", "Bias"}}
	table.Rows = make([][]string, 0, len(tr.Times))
	for i, t := range tr.Times {
		table.Rows = append(table.Rows, []string{
			formatTime(t),
			byteCell(tr.Alarm, i),
			floatCell(tr.Bias, i),
		})
	}
	return table
}

// ProcModeTrend lays out a processing-mode health history, one row per
// sample.
func ProcModeTrend(tr *t8.ProcModeTrend) Table {
	table := Table{Header: []string{"Timestamp", "Alarm", "Mask"}}
	table.Rows = make([][]string, 0, len(tr.Times))
	for i, t := range tr.Times {
		table.Rows = append(table.Rows, []string{
			formatTime(t),
			byteCell(tr.Alarm, i),
			byteCell(tr.Mask, i),
		})
	}
	return table
}

// ParamTrend lays out a parameter value history, one row per sample.
// Missing samples stay in place as NaN cells so every value remains on
// its own timestamp row.
func ParamTrend(tr *t8.ParamTrend) Table {
	table := Table{Header: []string{"Timestamp", "Value", "Alarm", "Unit"}}
	table.Rows = make([][]string, 0, len(tr.Times))
	for i, t := range tr.Times {
		unit := "NaN"
		if i < len(tr.Unit) {
			unit = strconv.FormatUint(uint64(tr.Unit[i]), 10)
		}
		table.Rows = append(table.Rows, []string{
			formatTime(t),
			floatCell(tr.Value, i),
			byteCell(tr.Alarm, i),
			unit,
		})
	}
	return table
}

// Timestamps formats capture instants for listing output, skipping the
// zero sentinel some devices pad listings with.
func Timestamps(stamps []time.Time) []string {
	out := make([]string, 0, len(stamps))
	for _, t := range stamps {
		if t.Unix() == 0 {
			continue
		}
		out = append(out, formatTime(t))
	}
	return out
}

func floatCell(values []float64, i int) string {
	if i >= len(values) {
		return "NaN"
	}
	return formatFloat(values[i])
}

func byteCell(values []uint8, i int) string {
	if i >= len(values) {
		return "NaN"
	}
	return strconv.FormatUint(uint64(values[i]), 10)
}

// formatFloat renders the shortest representation that parses back to the
// same value; NaN renders as the literal NaN marker.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
