package t8

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Client talks to the T8 REST API. It is safe for concurrent use; the
// credentials are read-only after construction.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	user     string
	password string
	log      logrus.FieldLogger
}

const (
	defaultUserAgent = "t8ctl/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client for the given host. The scheme defaults to
// http when missing; a path prefix on the host is preserved, since devices
// behind a proxy mount the API under one.
func NewClient(host, user, password string) (*Client, error) {
	base, err := parseBaseURL(host)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		user:     user,
		password: password,
		log:      logrus.StandardLogger(),
	}, nil
}

// WithLogger replaces the request logger. Nil restores the default.
func (c *Client) WithLogger(log logrus.FieldLogger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	c.log = log
	return c
}

// Host returns the configured base URL.
func (c *Client) Host() string {
	return c.baseURL.String()
}

// ListProcModes lists every processing mode in the current configuration,
// sorted by machine, point and tag.
func (c *Client) ListProcModes(ctx context.Context) ([]ModeRef, error) {
	return c.listModeRefs(ctx, []string{"waves"})
}

// ListParams lists every parameter in the current configuration, sorted by
// machine, point and tag.
func (c *Client) ListParams(ctx context.Context) ([]ModeRef, error) {
	return c.listModeRefs(ctx, []string{"trends", "param"})
}

func (c *Client) listModeRefs(ctx context.Context, segments []string) ([]ModeRef, error) {
	var payload listResponse
	if err := c.getJSON(ctx, segments, nil, &payload); err != nil {
		return nil, err
	}
	refs := make([]ModeRef, 0, len(payload.Items))
	for _, item := range payload.Items {
		ref, err := item.modeRef()
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		a, b := refs[i], refs[j]
		if a.Machine != b.Machine {
			return a.Machine < b.Machine
		}
		if a.Point != b.Point {
			return a.Point < b.Point
		}
		return a.Tag < b.Tag
	})
	return refs, nil
}

// ListConfigs lists the available configuration IDs.
func (c *Client) ListConfigs(ctx context.Context) ([]string, error) {
	var payload listResponse
	if err := c.getJSON(ctx, []string{"confs"}, nil, &payload); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(payload.Items))
	for _, item := range payload.Items {
		ids = append(ids, item.lastSegment())
	}
	return ids, nil
}

// FetchConfig retrieves one configuration document by ID.
func (c *Client) FetchConfig(ctx context.Context, id string) (*ConfigDoc, error) {
	if err := requireTags(map[string]string{"config id": id}); err != nil {
		return nil, err
	}
	raw, err := c.getRaw(ctx, []string{"confs", id}, nil)
	if err != nil {
		return nil, err
	}
	var header struct {
		UID string `json:"uid"`
	}
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &ConfigDoc{UID: header.UID, Raw: raw}, nil
}

// ListSnapshots lists the capture instants available for a machine,
// ascending.
func (c *Client) ListSnapshots(ctx context.Context, machine string) ([]time.Time, error) {
	if err := requireTags(map[string]string{"machine": machine}); err != nil {
		return nil, err
	}
	return c.listTimestamps(ctx, []string{"snapshots", machine})
}

// FetchSnapshot retrieves the snapshot of a machine at the given instant.
// A zero instant selects the newest snapshot by listing first and fetching
// the maximum timestamp, which takes two round trips.
func (c *Client) FetchSnapshot(ctx context.Context, machine string, at time.Time) (*Snapshot, error) {
	if err := requireTags(map[string]string{"machine": machine}); err != nil {
		return nil, err
	}
	if at.IsZero() {
		latest, err := c.latest(ctx, []string{"snapshots", machine})
		if err != nil {
			return nil, err
		}
		at = latest
	}
	raw, err := c.getRaw(ctx, []string{"snapshots", machine, epoch(at)}, nil)
	if err != nil {
		return nil, err
	}
	var header snapshotHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &Snapshot{
		Tag:     header.Tag,
		Time:    unixFloat(header.T),
		ConfID:  header.ConfID,
		Speed:   header.Speed,
		StateID: header.StateID,
		Raw:     raw,
	}, nil
}

// ListWaves lists the capture instants with a stored waveform for the
// given target, ascending.
func (c *Client) ListWaves(ctx context.Context, machine, point, pmode string) ([]time.Time, error) {
	if err := requireTags(map[string]string{"machine": machine, "point": point, "pmode": pmode}); err != nil {
		return nil, err
	}
	return c.listTimestamps(ctx, []string{"waves", machine, point, pmode})
}

// FetchWave retrieves one waveform. A zero instant selects the newest
// capture via list-then-get; an empty listing then yields an empty record
// rather than an error, so exports become header-only files.
func (c *Client) FetchWave(ctx context.Context, machine, point, pmode string, at time.Time) (*Wave, error) {
	if err := requireTags(map[string]string{"machine": machine, "point": point, "pmode": pmode}); err != nil {
		return nil, err
	}
	if at.IsZero() {
		stamps, err := c.listTimestamps(ctx, []string{"waves", machine, point, pmode})
		if err != nil {
			return nil, err
		}
		if len(stamps) == 0 {
			return &Wave{Path: ModeRef{Machine: machine, Point: point, Tag: pmode}.Path()}, nil
		}
		at = stamps[len(stamps)-1]
	}
	query := url.Values{"array_fmt": []string{string(FormatZint)}}
	var payload waveResponse
	if err := c.getJSON(ctx, []string{"waves", machine, point, pmode, epoch(at)}, query, &payload); err != nil {
		return nil, err
	}
	data, err := decodeFloats(payload.Data, FormatZint)
	if err != nil {
		return nil, fmt.Errorf("decode wave samples: %w", err)
	}
	applyFactor(data, payload.Factor)
	return &Wave{
		Path:       ModeRef{Machine: machine, Point: point, Tag: pmode}.Path(),
		Speed:      payload.Speed,
		Time:       unixFloat(payload.T),
		SnapTime:   unixFloat(payload.SnapT),
		UnitID:     payload.UnitID,
		SampleRate: payload.SampleRate,
		Data:       data,
	}, nil
}

// ListSpectra lists the capture instants with a stored spectrum for the
// given target, ascending.
func (c *Client) ListSpectra(ctx context.Context, machine, point, pmode string) ([]time.Time, error) {
	if err := requireTags(map[string]string{"machine": machine, "point": point, "pmode": pmode}); err != nil {
		return nil, err
	}
	return c.listTimestamps(ctx, []string{"spectra", machine, point, pmode})
}

// FetchSpectrum retrieves one spectrum. A zero instant selects the newest
// capture via list-then-get; an empty listing then yields an empty record
// rather than an error.
func (c *Client) FetchSpectrum(ctx context.Context, machine, point, pmode string, at time.Time) (*Spectrum, error) {
	if err := requireTags(map[string]string{"machine": machine, "point": point, "pmode": pmode}); err != nil {
		return nil, err
	}
	if at.IsZero() {
		stamps, err := c.listTimestamps(ctx, []string{"spectra", machine, point, pmode})
		if err != nil {
			return nil, err
		}
		if len(stamps) == 0 {
			return &Spectrum{Path: ModeRef{Machine: machine, Point: point, Tag: pmode}.Path()}, nil
		}
		at = stamps[len(stamps)-1]
	}
	query := url.Values{"array_fmt": []string{string(FormatZint)}}
	var payload spectrumResponse
	if err := c.getJSON(ctx, []string{"spectra", machine, point, pmode, epoch(at)}, query, &payload); err != nil {
		return nil, err
	}
	data, err := decodeFloats(payload.Data, FormatZint)
	if err != nil {
		return nil, fmt.Errorf("decode spectrum samples: %w", err)
	}
	applyFactor(data, payload.Factor)
	return &Spectrum{
		Path:     ModeRef{Machine: machine, Point: point, Tag: pmode}.Path(),
		Speed:    payload.Speed,
		Time:     unixFloat(payload.T),
		SnapTime: unixFloat(payload.SnapT),
		UnitID:   payload.UnitID,
		MinFreq:  payload.MinFreq,
		MaxFreq:  payload.MaxFreq,
		Window:   Window(payload.Window),
		Data:     data,
	}, nil
}

// FetchMachineTrend retrieves the health history of a machine.
func (c *Client) FetchMachineTrend(ctx context.Context, machine string) (*MachineTrend, error) {
	if err := requireTags(map[string]string{"machine": machine}); err != nil {
		return nil, err
	}
	fields, err := c.fetchTrend(ctx, []string{"trends", "mach", machine})
	if err != nil {
		return nil, err
	}
	trend := &MachineTrend{}
	if trend.Times, err = fields.times(); err != nil {
		return nil, err
	}
	if trend.Speed, err = fields.floats("speed.f"); err != nil {
		return nil, err
	}
	if trend.Load, err = fields.floats("load.f"); err != nil {
		return nil, err
	}
	if trend.Alarm, err = fields.bytes("alarm.B"); err != nil {
		return nil, err
	}
	if trend.State, err = fields.bytes("state.B"); err != nil {
		return nil, err
	}
	if trend.Strategy, err = fields.bytes("strategy.B"); err != nil {
		return nil, err
	}
	return trend, nil
}

// FetchPointTrend retrieves the health history of a point.
func (c *Client) FetchPointTrend(ctx context.Context, machine, point string) (*PointTrend, error) {
	if err := requireTags(map[string]string{"machine": machine, "point": point}); err != nil {
		return nil, err
	}
	fields, err := c.fetchTrend(ctx, []string{"trends", "point", machine, point})
	if err != nil {
		return nil, err
	}
	trend := &PointTrend{}
	if trend.Times, err = fields.times(); err != nil {
		return nil, err
	}
	if trend.Alarm, err = fields.bytes("alarm.B"); err != nil {
		return nil, err
	}
	if trend.Bias, err = fields.floats("bias.f"); err != nil {
		return nil, err
	}
	return trend, nil
}

// FetchProcModeTrend retrieves the health history of a processing mode.
func (c *Client) FetchProcModeTrend(ctx context.Context, machine, point, pmode string) (*ProcModeTrend, error) {
	if err := requireTags(map[string]string{"machine": machine, "point": point, "pmode": pmode}); err != nil {
		return nil, err
	}
	fields, err := c.fetchTrend(ctx, []string{"trends", "pmode", machine, point, pmode})
	if err != nil {
		return nil, err
	}
	trend := &ProcModeTrend{}
	if trend.Times, err = fields.times(); err != nil {
		return nil, err
	}
	if trend.Alarm, err = fields.bytes("alarm.B"); err != nil {
		return nil, err
	}
	if trend.Mask, err = fields.bytes("mask.B"); err != nil {
		return nil, err
	}
	return trend, nil
}

// FetchParamTrend retrieves the value history of a parameter. Samples the
// device could not compute arrive as NaN and are kept in place.
func (c *Client) FetchParamTrend(ctx context.Context, machine, point, param string) (*ParamTrend, error) {
	if err := requireTags(map[string]string{"machine": machine, "point": point, "param": param}); err != nil {
		return nil, err
	}
	fields, err := c.fetchTrend(ctx, []string{"trends", "param", machine, point, param})
	if err != nil {
		return nil, err
	}
	trend := &ParamTrend{}
	if trend.Times, err = fields.times(); err != nil {
		return nil, err
	}
	if trend.Value, err = fields.floats("value.f"); err != nil {
		return nil, err
	}
	if trend.Alarm, err = fields.bytes("alarm.B"); err != nil {
		return nil, err
	}
	if trend.Unit, err = fields.units(); err != nil {
		return nil, err
	}
	return trend, nil
}

// FetchStatus retrieves the device health status.
func (c *Client) FetchStatus(ctx context.Context) (*DeviceStatus, error) {
	var payload DeviceStatus
	if err := c.getJSON(ctx, []string{"info", "status"}, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchSystemInfo retrieves the device identity and license information.
func (c *Client) FetchSystemInfo(ctx context.Context) (*SystemInfo, error) {
	var payload SystemInfo
	if err := c.getJSON(ctx, []string{"info", "system"}, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// trendFields holds the keyed array payload of a trend endpoint. Keys carry
// a dtype suffix: .I uint32, .f float32, .B uint8, .H uint16.
type trendFields map[string]string

func (f trendFields) times() ([]time.Time, error) {
	secs, err := decodeUint32s(f["t.I"])
	if err != nil {
		return nil, fmt.Errorf("decode trend field t.I: %w", err)
	}
	times := make([]time.Time, len(secs))
	for i, s := range secs {
		times[i] = time.Unix(int64(s), 0).UTC()
	}
	return times, nil
}

func (f trendFields) floats(key string) ([]float64, error) {
	values, err := decodeFloats(f[key], FormatZlib)
	if err != nil {
		return nil, fmt.Errorf("decode trend field %s: %w", key, err)
	}
	return values, nil
}

func (f trendFields) bytes(key string) ([]uint8, error) {
	values, err := decodeBytes(f[key])
	if err != nil {
		return nil, fmt.Errorf("decode trend field %s: %w", key, err)
	}
	return values, nil
}

func (f trendFields) units() ([]uint16, error) {
	values, err := decodeUint16s(f["unit.H"])
	if err != nil {
		return nil, fmt.Errorf("decode trend field unit.H: %w", err)
	}
	return values, nil
}

func (c *Client) fetchTrend(ctx context.Context, segments []string) (trendFields, error) {
	query := url.Values{"array_fmt": []string{string(FormatZlib)}}
	var payload trendFields
	if err := c.getJSON(ctx, segments, query, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) listTimestamps(ctx context.Context, segments []string) ([]time.Time, error) {
	var payload listResponse
	if err := c.getJSON(ctx, segments, nil, &payload); err != nil {
		return nil, err
	}
	stamps := make([]time.Time, 0, len(payload.Items))
	for _, item := range payload.Items {
		t, err := item.timestamp()
		if err != nil {
			return nil, err
		}
		stamps = append(stamps, t)
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })
	return stamps, nil
}

// latest lists the available instants and returns the maximum one.
func (c *Client) latest(ctx context.Context, segments []string) (time.Time, error) {
	stamps, err := c.listTimestamps(ctx, segments)
	if err != nil {
		return time.Time{}, err
	}
	if len(stamps) == 0 {
		return time.Time{}, fmt.Errorf("no records available for %s: %w", strings.Join(segments, "/"), ErrNotFound)
	}
	return stamps[len(stamps)-1], nil
}

func (c *Client) getJSON(ctx context.Context, segments []string, query url.Values, dest any) error {
	body, err := c.getRaw(ctx, segments, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) getRaw(ctx context.Context, segments []string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL.JoinPath(append([]string{"rest"}, segments...)...)
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)
	req.SetBasicAuth(c.user, c.password)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.WithFields(logrus.Fields{
		"path":     reqURL.Path,
		"status":   resp.StatusCode,
		"duration": time.Since(start).Round(time.Millisecond).String(),
	}).Debug("t8 api request")

	if resp.StatusCode >= 400 {
		return nil, statusError(reqURL.Path, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

func applyFactor(data []float64, factor *float64) {
	if factor == nil {
		return
	}
	for i := range data {
		data[i] *= *factor
	}
}

func epoch(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}

func parseBaseURL(host string) (*url.URL, error) {
	trimmed := strings.TrimSpace(host)
	if trimmed == "" {
		return nil, fmt.Errorf("host is required: %w", ErrValidation)
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse host %q: %w", host, err)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
