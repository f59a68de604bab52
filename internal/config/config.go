// Package config handles loading the tracky config.toml file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Color modes for terminal output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents the config.toml file.
type Config struct {
	// File is the snapshot path. A leading "~/" is expanded.
	File string `toml:"file"`
	// MinDuration is the floor for finished task durations, e.g. "1s".
	MinDuration string `toml:"min-duration"`
	// Color is one of auto, always or never.
	Color string `toml:"color"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `toml:"log-level"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		MinDuration: "1s",
		Color:       ColorAuto,
		LogLevel:    "warn",
	}
}

// DefaultPath returns ~/.config/tracky/config.toml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "tracky", "config.toml"), nil
}

// Load reads the config file at path, or at DefaultPath when path is empty.
// A missing file yields the defaults. Keys absent from the file keep their
// default values.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse config file %s: unknown key %q", path, undecoded[0].String())
	}

	cfg.File = strings.TrimSpace(cfg.File)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every value that has a fixed vocabulary or format.
func (c *Config) Validate() error {
	d, err := time.ParseDuration(c.MinDuration)
	if err != nil {
		return fmt.Errorf("min-duration: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("min-duration: must be positive, got %s", c.MinDuration)
	}

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color: unknown mode %q (want auto, always or never)", c.Color)
	}

	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// MinDurationValue returns the parsed duration floor. Call Validate first;
// an invalid value yields zero, which the tracker ignores.
func (c *Config) MinDurationValue() time.Duration {
	d, _ := time.ParseDuration(c.MinDuration)
	return d
}

// Level returns the slog level for LogLevel, defaulting to warn.
func (c *Config) Level() slog.Level {
	l, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log-level: %w", err)
	}
	return l, nil
}

// SnapshotPath resolves the snapshot file. The flag value wins over the
// config file; fallback is used when neither is set.
func (c *Config) SnapshotPath(flag, fallback string) string {
	switch {
	case flag != "":
		return ExpandHome(flag)
	case c.File != "":
		return ExpandHome(c.File)
	}
	return fallback
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
