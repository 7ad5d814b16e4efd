package t8

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
)

func listingBody(links ...string) string {
	items := make([]map[string]any, 0, len(links))
	for _, link := range links {
		items = append(items, map[string]any{"_links": map[string]string{"self": link}})
	}
	body, _ := json.Marshal(map[string]any{"_items": items})
	return string(body)
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestParseBaseURL(t *testing.T) {
	t.Parallel()

	u, err := parseBaseURL("lzfs45.example.com")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "lzfs45.example.com" {
		t.Fatalf("url = %q, want http://lzfs45.example.com", u.String())
	}

	u, err = parseBaseURL("https://mirror.example.com/lzfs45/")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Path != "/lzfs45" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("  "); !errors.Is(err, ErrValidation) {
		t.Fatalf("parseBaseURL(empty) error = %v, want ErrValidation", err)
	}
}

func TestClient_ListWavesSortsAscending(t *testing.T) {
	t.Parallel()

	router := mux.NewRouter()
	router.HandleFunc("/rest/waves/{machine}/{point}/{pmode}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingBody(
			"http://dev/rest/waves/M1/P1/AM1/1555000000",
			"http://dev/rest/waves/M1/P1/AM1/1554907724",
			"http://dev/rest/waves/M1/P1/AM1/1554990000",
		))
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "admin", "secret")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	stamps, err := c.ListWaves(testContext(t), "M1", "P1", "AM1")
	if err != nil {
		t.Fatalf("ListWaves returned error: %v", err)
	}
	if len(stamps) != 3 {
		t.Fatalf("len(stamps) = %d, want 3", len(stamps))
	}
	for i := 1; i < len(stamps); i++ {
		if stamps[i].Before(stamps[i-1]) {
			t.Fatalf("stamps not ascending: %v", stamps)
		}
	}
	if stamps[0].Unix() != 1554907724 {
		t.Fatalf("stamps[0] = %v, want 1554907724", stamps[0].Unix())
	}
}

func TestClient_ListWavesEmptyIsNotAnError(t *testing.T) {
	t.Parallel()

	router := mux.NewRouter()
	router.HandleFunc("/rest/waves/{machine}/{point}/{pmode}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingBody())
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	c, _ := NewClient(server.URL, "admin", "secret")
	stamps, err := c.ListWaves(testContext(t), "M1", "P1", "AM1")
	if err != nil {
		t.Fatalf("ListWaves returned error: %v", err)
	}
	if len(stamps) != 0 {
		t.Fatalf("len(stamps) = %d, want 0", len(stamps))
	}

	// Latest retrieval on an empty listing is an empty record, not an
	// error; exports downstream become header-only files.
	wave, err := c.FetchWave(testContext(t), "M1", "P1", "AM1", time.Time{})
	if err != nil {
		t.Fatalf("FetchWave latest returned error: %v", err)
	}
	if len(wave.Data) != 0 || wave.Path != "M1:P1:AM1" {
		t.Fatalf("wave = %+v, want empty record for M1:P1:AM1", wave)
	}
}

func TestClient_FetchWaveLatestListsThenGetsMax(t *testing.T) {
	t.Parallel()

	var listCalls, getCalls int
	var gotPath, gotFmt string

	router := mux.NewRouter()
	router.HandleFunc("/rest/waves/{machine}/{point}/{pmode}", func(w http.ResponseWriter, r *http.Request) {
		listCalls++
		fmt.Fprint(w, listingBody(
			"http://dev/rest/waves/M1/P1/AM1/1554907724",
			"http://dev/rest/waves/M1/P1/AM1/1555000000",
		))
	})
	router.HandleFunc("/rest/waves/{machine}/{point}/{pmode}/{t}", func(w http.ResponseWriter, r *http.Request) {
		getCalls++
		gotPath = r.URL.Path
		gotFmt = r.URL.Query().Get("array_fmt")
		payload := map[string]any{
			"factor":      0.5,
			"data":        encodeZint(t, []int16{2, 4, -6}),
			"speed":       25.0,
			"t":           1555000000.0,
			"snap_t":      1555000000.0,
			"unit_id":     3,
			"sample_rate": 5120.0,
		}
		_ = json.NewEncoder(w).Encode(payload)
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	c, _ := NewClient(server.URL, "admin", "secret")
	wave, err := c.FetchWave(testContext(t), "M1", "P1", "AM1", time.Time{})
	if err != nil {
		t.Fatalf("FetchWave returned error: %v", err)
	}

	if listCalls != 1 || getCalls != 1 {
		t.Fatalf("calls = %d list, %d get, want 1 and 1", listCalls, getCalls)
	}
	if gotPath != "/rest/waves/M1/P1/AM1/1555000000" {
		t.Fatalf("get path = %q, want max timestamp from listing", gotPath)
	}
	if gotFmt != "zint" {
		t.Fatalf("array_fmt = %q, want zint", gotFmt)
	}
	want := []float64{1, 2, -3}
	if len(wave.Data) != len(want) {
		t.Fatalf("len(Data) = %d, want %d", len(wave.Data), len(want))
	}
	for i := range want {
		if wave.Data[i] != want[i] {
			t.Fatalf("Data[%d] = %v, want %v (factor applied)", i, wave.Data[i], want[i])
		}
	}
	if wave.SampleRate != 5120 || wave.Path != "M1:P1:AM1" {
		t.Fatalf("wave = %+v, want sample rate 5120, path M1:P1:AM1", wave)
	}
	if wave.Time.Unix() != 1555000000 {
		t.Fatalf("Time = %v, want 1555000000", wave.Time.Unix())
	}
}

func TestClient_FetchWaveExplicitTimestampSkipsListing(t *testing.T) {
	t.Parallel()

	var listCalls int
	router := mux.NewRouter()
	router.HandleFunc("/rest/waves/{machine}/{point}/{pmode}", func(w http.ResponseWriter, r *http.Request) {
		listCalls++
		fmt.Fprint(w, listingBody())
	})
	router.HandleFunc("/rest/waves/{machine}/{point}/{pmode}/{t}", func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"data":        encodeZint(t, []int16{1}),
			"speed":       10.0,
			"t":           1554907724.0,
			"snap_t":      1554907724.0,
			"unit_id":     1,
			"sample_rate": 2560.0,
		}
		_ = json.NewEncoder(w).Encode(payload)
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	c, _ := NewClient(server.URL, "admin", "secret")
	at := time.Unix(1554907724, 0).UTC()
	wave, err := c.FetchWave(testContext(t), "M1", "P1", "AM1", at)
	if err != nil {
		t.Fatalf("FetchWave returned error: %v", err)
	}
	if listCalls != 0 {
		t.Fatalf("listCalls = %d, want 0 for explicit timestamp", listCalls)
	}
	// Without a factor field the samples pass through unscaled.
	if wave.Data[0] != 1 {
		t.Fatalf("Data[0] = %v, want 1", wave.Data[0])
	}
}

func TestClient_FetchSpectrum(t *testing.T) {
	t.Parallel()

	router := mux.NewRouter()
	router.HandleFunc("/rest/spectra/{machine}/{point}/{pmode}/{t}", func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"factor":   1.0,
			"data":     encodeZint(t, []int16{10, 20}),
			"speed":    25.0,
			"t":        1555007724.0,
			"snap_t":   1555007724.0,
			"unit_id":  2,
			"min_freq": 0.0,
			"max_freq": 1000.0,
			"window":   1,
		}
		_ = json.NewEncoder(w).Encode(payload)
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	c, _ := NewClient(server.URL, "admin", "secret")
	spectrum, err := c.FetchSpectrum(testContext(t), "M1", "P1", "AM1", time.Unix(1555007724, 0))
	if err != nil {
		t.Fatalf("FetchSpectrum returned error: %v", err)
	}
	if spectrum.MinFreq != 0 || spectrum.MaxFreq != 1000 {
		t.Fatalf("band = [%v, %v], want [0, 1000]", spectrum.MinFreq, spectrum.MaxFreq)
	}
	if spectrum.Window != WindowHanning {
		t.Fatalf("window = %v, want hanning", spectrum.Window)
	}
	if got := spectrum.Resolution(); got != 500 {
		t.Fatalf("Resolution() = %v, want 500 for 2 bins over 1000 Hz", got)
	}
}

func TestClient_FetchParamTrend(t *testing.T) {
	t.Parallel()

	var gotFmt string
	router := mux.NewRouter()
	router.HandleFunc("/rest/trends/param/{machine}/{point}/{param}", func(w http.ResponseWriter, r *http.Request) {
		gotFmt = r.URL.Query().Get("array_fmt")
		stamps := make([]byte, 12)
		for i, s := range []uint32{1554907724, 1554908724, 1554909724} {
			putUint32LE(stamps[i*4:], s)
		}
		payload := map[string]string{
			"t.I":     b64deflate(t, stamps),
			"value.f": encodeZlib(t, []float32{1.5, float32(math.NaN()), 2.5}),
			"alarm.B": b64deflate(t, []byte{0, 0, 1}),
			"unit.H":  b64deflate(t, []byte{7, 0, 7, 0, 7, 0}),
		}
		_ = json.NewEncoder(w).Encode(payload)
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	c, _ := NewClient(server.URL, "admin", "secret")
	trend, err := c.FetchParamTrend(testContext(t), "M1", "P1", "RMS")
	if err != nil {
		t.Fatalf("FetchParamTrend returned error: %v", err)
	}
	if gotFmt != "zlib" {
		t.Fatalf("array_fmt = %q, want zlib", gotFmt)
	}
	if len(trend.Times) != 3 || len(trend.Value) != 3 {
		t.Fatalf("lengths = %d times, %d values, want 3 and 3", len(trend.Times), len(trend.Value))
	}
	if !trend.Times[0].Before(trend.Times[1]) || !trend.Times[1].Before(trend.Times[2]) {
		t.Fatalf("times not ascending: %v", trend.Times)
	}
	if !math.IsNaN(trend.Value[1]) {
		t.Fatalf("Value[1] = %v, want NaN kept in place", trend.Value[1])
	}
	if trend.Alarm[2] != 1 || trend.Unit[0] != 7 {
		t.Fatalf("alarm/unit = %v/%v, want 1/7", trend.Alarm[2], trend.Unit[0])
	}
}

func TestClient_FetchSnapshotKeepsRawDocument(t *testing.T) {
	t.Parallel()

	router := mux.NewRouter()
	router.HandleFunc("/rest/snapshots/{machine}/{t}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tag":"LP_Turbine","t":1554907724,"conf_id":"17","speed":25.5,"state_id":2,"points":{"MAD31CY005":{"bias":0.2}}}`)
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	c, _ := NewClient(server.URL, "admin", "secret")
	snap, err := c.FetchSnapshot(testContext(t), "LP_Turbine", time.Unix(1554907724, 0))
	if err != nil {
		t.Fatalf("FetchSnapshot returned error: %v", err)
	}
	if snap.Tag != "LP_Turbine" || snap.ConfID != "17" || snap.StateID != 2 {
		t.Fatalf("snapshot header = %+v, want tag LP_Turbine conf 17 state 2", snap)
	}
	if snap.Time.Unix() != 1554907724 {
		t.Fatalf("Time = %v, want 1554907724", snap.Time.Unix())
	}
	var doc map[string]any
	if err := json.Unmarshal(snap.Raw, &doc); err != nil {
		t.Fatalf("Raw is not valid JSON: %v", err)
	}
	if _, ok := doc["points"]; !ok {
		t.Fatalf("Raw lost nested keys: %s", snap.Raw)
	}
}

func TestClient_SendsBasicAuthUnderPathPrefix(t *testing.T) {
	t.Parallel()

	var gotUser, gotPass, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"timestamp":1554907724,"up_time":10}`)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/lzfs45", "admin", "secret")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.FetchStatus(testContext(t)); err != nil {
		t.Fatalf("FetchStatus returned error: %v", err)
	}
	if gotUser != "admin" || gotPass != "secret" {
		t.Fatalf("auth = %q/%q, want admin/secret", gotUser, gotPass)
	}
	if gotPath != "/lzfs45/rest/info/status" {
		t.Fatalf("path = %q, want /lzfs45/rest/info/status", gotPath)
	}
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	t.Parallel()

	status := http.StatusOK
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	c, _ := NewClient(server.URL, "admin", "wrong")

	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrAuthentication},
		{http.StatusForbidden, ErrAuthentication},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusInternalServerError, ErrServer},
		{http.StatusBadGateway, ErrServer},
	}
	for _, tc := range cases {
		status = tc.status
		_, err := c.FetchStatus(testContext(t))
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d error = %v, want %v", tc.status, err, tc.want)
		}
	}
}

func TestClient_ValidatesTagsBeforeRequest(t *testing.T) {
	t.Parallel()

	c, _ := NewClient("127.0.0.1:1", "admin", "secret")
	ctx := testContext(t)

	if _, err := c.ListWaves(ctx, "", "P1", "AM1"); !errors.Is(err, ErrValidation) {
		t.Fatalf("ListWaves error = %v, want ErrValidation", err)
	}
	if _, err := c.FetchSpectrum(ctx, "M1", "", "AM1", time.Time{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("FetchSpectrum error = %v, want ErrValidation", err)
	}
	if _, err := c.FetchParamTrend(ctx, "M1", "P1", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("FetchParamTrend error = %v, want ErrValidation", err)
	}
}

func TestClient_ListParamsSorted(t *testing.T) {
	t.Parallel()

	router := mux.NewRouter()
	router.HandleFunc("/rest/trends/param", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingBody(
			"http://dev/rest/trends/param/M2/P1/RMS/",
			"http://dev/rest/trends/param/M1/P2/Peak/",
			"http://dev/rest/trends/param/M1/P1/RMS/",
		))
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	c, _ := NewClient(server.URL, "admin", "secret")
	refs, err := c.ListParams(testContext(t))
	if err != nil {
		t.Fatalf("ListParams returned error: %v", err)
	}
	want := []ModeRef{
		{Machine: "M1", Point: "P1", Tag: "RMS"},
		{Machine: "M1", Point: "P2", Tag: "Peak"},
		{Machine: "M2", Point: "P1", Tag: "RMS"},
	}
	if len(refs) != len(want) {
		t.Fatalf("len(refs) = %d, want %d", len(refs), len(want))
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Fatalf("refs[%d] = %+v, want %+v", i, refs[i], want[i])
		}
	}
}

func putUint32LE(b []byte, v uint32) {
	binary.LittleEndian.PutUint32(b, v)
}

func b64deflate(t *testing.T, data []byte) string {
	t.Helper()
	return base64.StdEncoding.EncodeToString(deflate(t, data))
}
