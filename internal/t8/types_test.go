package t8

import (
	"testing"
	"time"
)

func TestWindowString(t *testing.T) {
	t.Parallel()

	cases := map[Window]string{
		WindowRect:     "rect",
		WindowHanning:  "hanning",
		WindowHamming:  "hamming",
		WindowBlackman: "blackman",
		Window(9):      "window(9)",
	}
	for w, want := range cases {
		if got := w.String(); got != want {
			t.Fatalf("Window(%d).String() = %q, want %q", int(w), got, want)
		}
	}
}

func TestWaveDuration(t *testing.T) {
	t.Parallel()

	w := &Wave{SampleRate: 5120, Data: make([]float64, 5120)}
	if got := w.Duration(); got != time.Second {
		t.Fatalf("Duration() = %v, want 1s", got)
	}

	w = &Wave{Data: make([]float64, 10)}
	if got := w.Duration(); got != 0 {
		t.Fatalf("Duration() with zero rate = %v, want 0", got)
	}
}

func TestListItemParsing(t *testing.T) {
	t.Parallel()

	item := listItem{}
	item.Links.Self = "http://dev/rest/waves/LP_Turbine/MAD32CY005/AM2/1554907724"

	stamp, err := item.timestamp()
	if err != nil {
		t.Fatalf("timestamp returned error: %v", err)
	}
	if stamp.Unix() != 1554907724 {
		t.Fatalf("timestamp = %v, want 1554907724", stamp.Unix())
	}

	item.Links.Self = "http://dev/rest/waves/LP_Turbine/MAD32CY005/AM2/"
	ref, err := item.modeRef()
	if err != nil {
		t.Fatalf("modeRef returned error: %v", err)
	}
	want := ModeRef{Machine: "LP_Turbine", Point: "MAD32CY005", Tag: "AM2"}
	if ref != want {
		t.Fatalf("modeRef = %+v, want %+v", ref, want)
	}
	if got := ref.Path(); got != "LP_Turbine:MAD32CY005:AM2" {
		t.Fatalf("Path() = %q, want LP_Turbine:MAD32CY005:AM2", got)
	}
}

func TestUnixFloat(t *testing.T) {
	t.Parallel()

	got := unixFloat(1554907724.5)
	if got.Unix() != 1554907724 {
		t.Fatalf("seconds = %d, want 1554907724", got.Unix())
	}
	if got.Nanosecond() != int(500*time.Millisecond) {
		t.Fatalf("nanos = %d, want 500ms", got.Nanosecond())
	}
	if got.Location() != time.UTC {
		t.Fatalf("location = %v, want UTC", got.Location())
	}
}
