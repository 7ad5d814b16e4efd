// Package export writes shaped data to disk: CSV for tabular records,
// JSON for hierarchical documents. Filenames are derived from the
// resource identifiers so repeated exports of the same record land on the
// same path.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/vibetools/t8ctl/internal/shape"
)

// CSV writes the table to path, header first. An empty table produces a
// header-only file.
func CSV(table shape.Table, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	writer := csv.NewWriter(file)
	writeErr := writer.Write(table.Header)
	if writeErr == nil {
		writeErr = writer.WriteAll(table.Rows)
	}
	writer.Flush()
	if writeErr == nil {
		writeErr = writer.Error()
	}
	closeErr := file.Close()
	if writeErr != nil {
		return fmt.Errorf("write %s: %w", path, writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", path, closeErr)
	}
	return nil
}

// JSON re-indents the raw server document and writes it to path. Working
// from the raw bytes keeps the server's key order intact.
func JSON(raw json.RawMessage, path string) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "    "); err != nil {
		return fmt.Errorf("indent document: %w", err)
	}
	buf.WriteByte('\n')
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WaveFilename names a waveform export after its target and snapshot time.
func WaveFilename(machine, point, pmode string, snap time.Time) string {
	return fmt.Sprintf("wf_%s_%s_%s_%d.csv", machine, point, pmode, unixOrZero(snap))
}

// SpectrumFilename names a spectrum export after its target and snapshot time.
func SpectrumFilename(machine, point, pmode string, snap time.Time) string {
	return fmt.Sprintf("sp_%s_%s_%s_%d.csv", machine, point, pmode, unixOrZero(snap))
}

// SnapshotFilename names a snapshot export after its machine and capture time.
func SnapshotFilename(machine string, at time.Time) string {
	return fmt.Sprintf("ss_%s_%d.json", machine, unixOrZero(at))
}

// unixOrZero keeps empty-record exports from picking up the huge negative
// epoch of the zero time.
func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

// ConfigFilename names a configuration export after the device serial and
// the document uid.
func ConfigFilename(serial, uid string) string {
	return fmt.Sprintf("conf_%s_%s.json", serial, uid)
}

// MachineTrendFilename names a machine trend export.
func MachineTrendFilename(machine string) string {
	return fmt.Sprintf("trend_mach_%s.csv", machine)
}

// PointTrendFilename names a point trend export.
func PointTrendFilename(machine, point string) string {
	return fmt.Sprintf("trend_point_%s_%s.csv", machine, point)
}

// ProcModeTrendFilename names a processing-mode trend export.
func ProcModeTrendFilename(machine, point, pmode string) string {
	return fmt.Sprintf("trend_pmode_%s_%s_%s.csv", machine, point, pmode)
}

// ParamTrendFilename names a parameter trend export.
func ParamTrendFilename(machine, point, param string) string {
	return fmt.Sprintf("trend_param_%s_%s_%s.csv", machine, point, param)
}
