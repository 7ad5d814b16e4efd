package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg != (Config{}) {
		t.Fatalf("cfg = %+v, want zero value", cfg)
	}
}

func TestLoadParsesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "host = \"http://t8.local\"\nuser = \"admin\"\npassw = \"secret\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Config{Host: "http://t8.local", User: "admin", Password: "secret"}
	if cfg != want {
		t.Fatalf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("host = [broken"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load accepted malformed toml, want error")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("T8_HOST", "http://env.local")
	t.Setenv("T8_USER", "envuser")
	t.Setenv("T8_PASSW", "envpass")

	cfg := FromEnv()
	want := Config{Host: "http://env.local", User: "envuser", Password: "envpass"}
	if cfg != want {
		t.Fatalf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestMergePrecedence(t *testing.T) {
	flags := Config{Host: "http://flag.local"}
	env := Config{Host: "http://env.local", User: "envuser"}
	file := Config{Host: "http://file.local", User: "fileuser", Password: "filepass"}

	merged := Merge(flags, env, file)
	want := Config{Host: "http://flag.local", User: "envuser", Password: "filepass"}
	if merged != want {
		t.Fatalf("merged = %+v, want %+v", merged, want)
	}
}

func TestValidate(t *testing.T) {
	if err := (Config{User: "admin"}).Validate(); err == nil {
		t.Fatalf("Validate accepted missing host, want error")
	}
	if err := (Config{Host: "http://t8.local"}).Validate(); err == nil {
		t.Fatalf("Validate accepted missing user, want error")
	}
	if err := (Config{Host: "http://t8.local", User: "admin"}).Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}
