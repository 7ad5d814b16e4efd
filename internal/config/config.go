// Package config resolves device credentials from the three supported
// sources. Precedence is explicit: command-line flags override the
// T8_HOST/T8_USER/T8_PASSW environment, which overrides the config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config carries the connection settings for one device.
type Config struct {
	Host     string
	User     string
	Password string
}

const defaultConfigPath = "~/.config/t8ctl/config.toml"

const (
	envHost     = "T8_HOST"
	envUser     = "T8_USER"
	envPassword = "T8_PASSW"
)

// Load parses the toml config file. A missing file yields an empty Config,
// not an error; the other sources may still supply every field.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	raw, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var file struct {
		Host  string `toml:"host"`
		User  string `toml:"user"`
		Passw string `toml:"passw"`
	}
	if err := toml.Unmarshal(raw, &file); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return Config{
		Host:     strings.TrimSpace(file.Host),
		User:     strings.TrimSpace(file.User),
		Password: file.Passw,
	}, nil
}

// FromEnv reads the T8_* environment variables.
func FromEnv() Config {
	return Config{
		Host:     strings.TrimSpace(os.Getenv(envHost)),
		User:     strings.TrimSpace(os.Getenv(envUser)),
		Password: os.Getenv(envPassword),
	}
}

// Merge overlays the layers field by field: the first layer with a
// non-empty field wins, so callers pass flags first, then env, then file.
func Merge(layers ...Config) Config {
	var merged Config
	for _, layer := range layers {
		if merged.Host == "" {
			merged.Host = layer.Host
		}
		if merged.User == "" {
			merged.User = layer.User
		}
		if merged.Password == "" {
			merged.Password = layer.Password
		}
	}
	return merged
}

// Validate checks that the merged result can open a connection.
func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required (flag --host, env %s, or config file)", envHost)
	}
	if c.User == "" {
		return fmt.Errorf("user is required (flag --user, env %s, or config file)", envUser)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
