// Package config holds typecricket settings. Defaults live in code and in the
// embedded defaults/typecricket.yaml; Load layers a YAML file and
// TYPECRICKET_* environment variables on top.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/typecricket/internal/core"
)

// ErrInvalidConfig is returned (wrapped) when a loaded value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

//go:embed defaults/typecricket.yaml
var defaultYAML []byte

// DefaultYAML returns the commented default configuration file.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultYAML))
	copy(out, defaultYAML)
	return out
}

// Config contains process configuration.
type Config struct {
	// Match
	MatchDuration time.Duration `koanf:"match_duration" yaml:"match_duration"`
	NominalOvers  int           `koanf:"nominal_overs" yaml:"nominal_overs"`
	WordCount     int           `koanf:"word_count" yaml:"word_count"`
	FrameRate     int           `koanf:"frame_rate" yaml:"frame_rate"`
	Seed          int64         `koanf:"seed" yaml:"seed"`

	// Storage and logging
	DBPath   string `koanf:"db_path" yaml:"db_path"`
	LogLevel string `koanf:"log_level" yaml:"log_level"`
	LogFile  string `koanf:"log_file" yaml:"log_file"`

	// Server
	SSHAddr     string        `koanf:"ssh_addr" yaml:"ssh_addr"`
	HostKey     string        `koanf:"host_key" yaml:"host_key"`
	MetricsAddr string        `koanf:"metrics_addr" yaml:"metrics_addr"`
	IdleTimeout time.Duration `koanf:"idle_timeout" yaml:"idle_timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MatchDuration: 5 * time.Minute,
		NominalOvers:  50,
		WordCount:     1000,
		FrameRate:     10,
		DBPath:        "~/.typecricket/typecricket.db",
		LogLevel:      "info",
		LogFile:       "~/.typecricket/typecricket.log",
		SSHAddr:       ":23235",
		HostKey:       ".ssh/typecricket_ed25519",
		IdleTimeout:   30 * time.Minute,
	}
}

// Validate checks ranges and expands ~ in path settings.
func (c *Config) Validate() error {
	switch {
	case c.MatchDuration <= 0:
		return fmt.Errorf("%w: match_duration must be positive, got %s", ErrInvalidConfig, c.MatchDuration)
	case c.NominalOvers <= 0:
		return fmt.Errorf("%w: nominal_overs must be positive, got %d", ErrInvalidConfig, c.NominalOvers)
	case c.WordCount <= 0:
		return fmt.Errorf("%w: word_count must be positive, got %d", ErrInvalidConfig, c.WordCount)
	case c.FrameRate < 1 || c.FrameRate > 60:
		return fmt.Errorf("%w: frame_rate must be between 1 and 60, got %d", ErrInvalidConfig, c.FrameRate)
	case c.IdleTimeout < 0:
		return fmt.Errorf("%w: idle_timeout must not be negative", ErrInvalidConfig)
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}

	var err error
	if c.DBPath, err = ExpandHome(c.DBPath); err != nil {
		return err
	}
	if c.LogFile, err = ExpandHome(c.LogFile); err != nil {
		return err
	}
	return nil
}

// Level returns the parsed log level. Call after Validate.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Runtime converts the match settings for the TUI layer.
func (c *Config) Runtime() core.RuntimeConfig {
	rc := core.DefaultConfig()
	rc.FrameRate = c.FrameRate
	rc.Seed = c.Seed
	rc.MatchDuration = c.MatchDuration
	rc.NominalOvers = c.NominalOvers
	rc.WordCount = c.WordCount
	return rc
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// DefaultPath is where `config init` writes and Load looks when no path is given.
func DefaultPath() (string, error) {
	return ExpandHome("~/.typecricket/config.yaml")
}
