package cli

import (
	"errors"
	"testing"

	"github.com/vibetools/t8ctl/internal/t8"
)

func TestParseTime(t *testing.T) {
	t.Parallel()

	got, err := parseTime("2019-04-13T01:38:16Z")
	if err != nil {
		t.Fatalf("parseTime returned error: %v", err)
	}
	if got.Unix() != 1555119496 {
		t.Fatalf("parsed = %d, want 1555119496", got.Unix())
	}

	got, err = parseTime("")
	if err != nil {
		t.Fatalf("parseTime(empty) returned error: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("parseTime(empty) = %v, want zero time (latest)", got)
	}

	if _, err := parseTime("13/04/2019"); !errors.Is(err, t8.ErrValidation) {
		t.Fatalf("parseTime error = %v, want ErrValidation", err)
	}
}

func TestRootCommandSurface(t *testing.T) {
	t.Parallel()

	root := NewRootCmd()
	want := []string{
		"params", "proc_modes", "snapshot", "wave", "spectrum", "trend",
		"config", "info", "status", "license", "monitor",
	}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("command %q not registered (err %v)", name, err)
		}
	}

	for _, path := range [][]string{
		{"snapshot", "list"}, {"snapshot", "get"},
		{"wave", "list"}, {"wave", "get"},
		{"spectrum", "list"}, {"spectrum", "get"},
		{"trend", "machine"}, {"trend", "point"}, {"trend", "pmode"}, {"trend", "param"},
		{"config", "list"}, {"config", "get"},
	} {
		cmd, _, err := root.Find(path)
		if err != nil || cmd.Name() != path[len(path)-1] {
			t.Fatalf("subcommand %v not registered (err %v)", path, err)
		}
	}
}
