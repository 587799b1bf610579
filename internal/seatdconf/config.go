// Package seatdconf loads seatd's process-wide configuration: where seat
// and display-template definitions live on disk, and the default seat.
package seatdconf

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config is seatd's process configuration, loaded from a YAML file.
type Config struct {
	// SysconfDir is the root under which "seats.d/" and "displays.d/" are
	// resolved. Defaults to "/etc/seatd" when empty.
	SysconfDir string `yaml:"sysconfdir"`

	// DefaultSeatID names, by its definition's ID (e.g. "seat0"), the one
	// seat seatd runs as a Static, VT-driven seat; every other seat is
	// built as Dynamic.
	DefaultSeatID string `yaml:"default_seat_id"`

	// LogPath is where the JSONL activity log is written. Logging is
	// disabled when empty.
	LogPath string `yaml:"log_path"`
}

const defaultSysconfDir = "/etc/seatd"

// SeatsDir returns the directory containing seat definition files.
func (c *Config) SeatsDir() string {
	return filepath.Join(c.sysconfDir(), "seats.d")
}

// DisplaysDir returns the directory containing display template files.
func (c *Config) DisplaysDir() string {
	return filepath.Join(c.sysconfDir(), "displays.d")
}

func (c *Config) sysconfDir() string {
	if c.SysconfDir == "" {
		return defaultSysconfDir
	}
	return c.SysconfDir
}

// Load reads seatd's config from /etc/seatd/seatd.yaml. A missing file is
// not an error: it returns a zero-value Config with defaults applied.
func Load() (*Config, error) {
	return LoadFrom(filepath.Join(defaultSysconfDir, "seatd.yaml"))
}

// LoadFrom reads seatd's config from the given path. A missing file is not
// an error: it returns a zero-value Config.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var seatIDRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func (c *Config) validate() error {
	if c.DefaultSeatID != "" && !seatIDRe.MatchString(c.DefaultSeatID) {
		return fmt.Errorf("default_seat_id: %q is not a valid seat id", c.DefaultSeatID)
	}
	return nil
}
