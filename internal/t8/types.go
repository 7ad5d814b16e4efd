package t8

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ModeRef identifies a processing mode or parameter inside the device
// configuration tree: machine contains points, points carry the tagged item.
type ModeRef struct {
	Machine string
	Point   string
	Tag     string
}

// Path returns the machine:point:tag form used in record summaries.
func (r ModeRef) Path() string {
	return strings.Join([]string{r.Machine, r.Point, r.Tag}, ":")
}

// Window identifies the window function applied before the FFT.
type Window int

const (
	WindowRect Window = iota
	WindowHanning
	WindowHamming
	WindowBlackman
)

func (w Window) String() string {
	switch w {
	case WindowRect:
		return "rect"
	case WindowHanning:
		return "hanning"
	case WindowHamming:
		return "hamming"
	case WindowBlackman:
		return "blackman"
	default:
		return fmt.Sprintf("window(%d)", int(w))
	}
}

// Wave is one time-domain capture. Data holds engineering-unit samples,
// already scaled by the record's factor.
type Wave struct {
	Path       string
	Speed      float64 // rotation speed in Hz
	Time       time.Time
	SnapTime   time.Time
	UnitID     int
	SampleRate float64 // Hz
	Data       []float64
}

// Duration returns the capture length derived from the sample count.
func (w *Wave) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(w.Data)) / w.SampleRate * float64(time.Second))
}

// Spectrum is one frequency-domain capture between MinFreq and MaxFreq.
type Spectrum struct {
	Path     string
	Speed    float64
	Time     time.Time
	SnapTime time.Time
	UnitID   int
	MinFreq  float64
	MaxFreq  float64
	Window   Window
	Data     []float64
}

// Resolution returns the frequency step between adjacent bins.
func (s *Spectrum) Resolution() float64 {
	if len(s.Data) == 0 {
		return 0
	}
	return (s.MaxFreq - s.MinFreq) / float64(len(s.Data))
}

// MachineTrend is the per-machine health history. All slices share one
// length; Times is ascending.
type MachineTrend struct {
	Times    []time.Time
	Speed    []float64
	Load     []float64
	Alarm    []uint8
	State    []uint8
	Strategy []uint8
}

// PointTrend is the per-point health history.
type PointTrend struct {
	Times []time.Time
	Alarm []uint8
	Bias  []float64
}

// ProcModeTrend is the per-processing-mode health history.
type ProcModeTrend struct {
	Times []time.Time
	Alarm []uint8
	Mask  []uint8
}

// ParamTrend is the value history of a single parameter. Missing samples
// appear as NaN in Value and keep their timestamp slot.
type ParamTrend struct {
	Times []time.Time
	Value []float64
	Alarm []uint8
	Unit  []uint16
}

// Snapshot is the simultaneous-capture bundle for one machine at one
// instant. Raw preserves the full server document for export.
type Snapshot struct {
	Tag     string
	Time    time.Time
	ConfID  string
	Speed   float64
	StateID int
	Raw     json.RawMessage
}

// ConfigDoc is one device configuration document. Raw preserves the full
// server document for export.
type ConfigDoc struct {
	UID string
	Raw json.RawMessage
}

// MountInfo describes one device storage mount.
type MountInfo struct {
	Device   string `json:"device"`
	Path     string `json:"path"`
	Total    int64  `json:"total"`
	Used     int64  `json:"used"`
	Volatile bool   `json:"volatile"`
}

// DeviceStatus mirrors /rest/info/status.
type DeviceStatus struct {
	Timestamp    int64     `json:"timestamp"`
	UpTime       float64   `json:"up_time"`
	IdleTime     float64   `json:"idle_time"`
	Host         string    `json:"host"`
	HWAddr       string    `json:"hw_addr"`
	IPAddr       string    `json:"ip_addr"`
	Gateway      string    `json:"gateway"`
	PrefixLength int       `json:"prefix_length"`
	DHCPEnabled  bool      `json:"dhcp_enabled"`
	DataMount    MountInfo `json:"data_mount"`
	RWMount      MountInfo `json:"rw_mount"`
	BoardTemp    float64   `json:"board_temp"`
	CPUTemp      float64   `json:"cpu_temp"`
	VBat         float64   `json:"vbat"`
	VInput       float64   `json:"vinput"`
	FanPWM       int       `json:"fan_pwm"`
}

// Time returns the status timestamp as a UTC instant.
func (s *DeviceStatus) Time() time.Time {
	return time.Unix(s.Timestamp, 0).UTC()
}

// LicenseFeature is one licensable device capability.
type LicenseFeature struct {
	Abbrev  string `json:"abbrev"`
	Desc    string `json:"desc"`
	Enabled bool   `json:"enabled"`
	Name    string `json:"name"`
	Number  int    `json:"number"`
}

// License mirrors the license block of /rest/info/system.
type License struct {
	ChangedAt int64            `json:"changed_at"`
	ExpiresAt int64            `json:"expires_at"`
	Features  []LicenseFeature `json:"features"`
}

// SystemInfo mirrors /rest/info/system.
type SystemInfo struct {
	Serial        int      `json:"serial"`
	FullSerial    string   `json:"full_serial"`
	Model         string   `json:"model"`
	Variant       string   `json:"variant"`
	Version       string   `json:"version"`
	Revision      string   `json:"revision"`
	HWVersion     int      `json:"hw_version"`
	BoardModel    string   `json:"board_model"`
	BoardRevision int      `json:"board_revision"`
	CPUSerial     int64    `json:"cpu_serial"`
	Host          string   `json:"host"`
	EnableNTP     bool     `json:"enable_ntp"`
	ExpModule     string   `json:"exp_module"`
	ExpSerial     string   `json:"exp_serial"`
	InstalledTime int64    `json:"installed_time"`
	License       *License `json:"license"`
}

// listResponse is the envelope every listing endpoint returns: items whose
// self link carries the identifying path segments.
type listResponse struct {
	Items []listItem `json:"_items"`
}

type listItem struct {
	Links struct {
		Self string `json:"self"`
	} `json:"_links"`
	Name string `json:"name"`
}

// lastSegment returns the final path segment of the item's self link.
func (i listItem) lastSegment() string {
	parts := strings.Split(strings.TrimRight(i.Links.Self, "/"), "/")
	return parts[len(parts)-1]
}

// timestamp parses the final path segment as a Unix-seconds instant.
func (i listItem) timestamp() (time.Time, error) {
	seg := i.lastSegment()
	secs, err := strconv.ParseInt(seg, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse listing timestamp %q: %w", seg, err)
	}
	return time.Unix(secs, 0).UTC(), nil
}

// modeRef parses the final three path segments as machine, point and tag.
func (i listItem) modeRef() (ModeRef, error) {
	parts := strings.Split(strings.Trim(i.Links.Self, "/"), "/")
	if len(parts) < 3 {
		return ModeRef{}, fmt.Errorf("malformed listing link %q", i.Links.Self)
	}
	return ModeRef{
		Machine: parts[len(parts)-3],
		Point:   parts[len(parts)-2],
		Tag:     parts[len(parts)-1],
	}, nil
}

// waveResponse mirrors the wire form of /rest/waves/{mach}/{point}/{pmode}/{t}.
type waveResponse struct {
	Factor     *float64 `json:"factor"`
	Data       string   `json:"data"`
	Speed      float64  `json:"speed"`
	T          float64  `json:"t"`
	SnapT      float64  `json:"snap_t"`
	UnitID     int      `json:"unit_id"`
	SampleRate float64  `json:"sample_rate"`
}

// spectrumResponse mirrors the wire form of /rest/spectra/{mach}/{point}/{pmode}/{t}.
type spectrumResponse struct {
	Factor  *float64 `json:"factor"`
	Data    string   `json:"data"`
	Speed   float64  `json:"speed"`
	T       float64  `json:"t"`
	SnapT   float64  `json:"snap_t"`
	UnitID  int      `json:"unit_id"`
	MinFreq float64  `json:"min_freq"`
	MaxFreq float64  `json:"max_freq"`
	Window  int      `json:"window"`
}

// snapshotHeader is the subset of snapshot fields used for summaries and
// file naming; the full document travels in Snapshot.Raw.
type snapshotHeader struct {
	Tag     string  `json:"tag"`
	T       float64 `json:"t"`
	ConfID  string  `json:"conf_id"`
	Speed   float64 `json:"speed"`
	StateID int     `json:"state_id"`
}

func unixFloat(t float64) time.Time {
	secs := int64(t)
	nanos := int64((t - float64(secs)) * float64(time.Second))
	return time.Unix(secs, nanos).UTC()
}
