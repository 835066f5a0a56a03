package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at a temp dir so no real config file leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvPrefix+"CONFIG", "")
	return home
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.MatchDuration)
	assert.Equal(t, 50, cfg.NominalOvers)
	assert.Equal(t, 1000, cfg.WordCount)
	assert.Equal(t, 10, cfg.FrameRate)
	assert.Equal(t, filepath.Join(home, ".typecricket", "typecricket.db"), cfg.DBPath)

	rc := cfg.Runtime()
	assert.Equal(t, 100*time.Millisecond, rc.TickInterval())
	assert.Equal(t, cfg.MatchDuration, rc.MatchDuration)
	assert.Equal(t, 1000, rc.WordCount)
}

func TestEmbeddedDefaultsMatchCode(t *testing.T) {
	home := isolate(t)
	path := writeFile(t, home, "defaults.yaml", string(DefaultYAML()))

	fromFile, err := Load(path)
	require.NoError(t, err)

	want := Default()
	require.NoError(t, want.Validate())
	assert.Equal(t, want, fromFile)
}

func TestLoadFileOverrides(t *testing.T) {
	home := isolate(t)
	path := writeFile(t, home, "custom.yaml", `
match_duration: 2m
word_count: 250
ssh_addr: ":2222"
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.MatchDuration)
	assert.Equal(t, 250, cfg.WordCount)
	assert.Equal(t, ":2222", cfg.SSHAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 50, cfg.NominalOvers, "unset keys keep their defaults")
}

func TestLoadEnvBeatsFile(t *testing.T) {
	home := isolate(t)
	path := writeFile(t, home, "custom.yaml", "word_count: 250\nframe_rate: 20\n")
	t.Setenv(EnvPrefix+"WORD_COUNT", "400")
	t.Setenv(EnvPrefix+"IDLE_TIMEOUT", "90s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 400, cfg.WordCount)
	assert.Equal(t, 20, cfg.FrameRate)
	assert.Equal(t, 90*time.Second, cfg.IdleTimeout)
}

func TestLoadPathFromEnv(t *testing.T) {
	home := isolate(t)
	path := writeFile(t, home, "env.yaml", "nominal_overs: 20\n")
	t.Setenv(EnvPrefix+"CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.NominalOvers)
}

func TestLoadHomeConfig(t *testing.T) {
	home := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".typecricket"), 0o755))
	writeFile(t, filepath.Join(home, ".typecricket"), "config.yaml", "seed: 42\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Seed)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	home := isolate(t)

	_, err := Load(filepath.Join(home, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	home := isolate(t)
	path := writeFile(t, home, "bad.yaml", "frame_rate: 0\n")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	isolate(t)

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero duration", func(c *Config) { c.MatchDuration = 0 }, false},
		{"zero overs", func(c *Config) { c.NominalOvers = 0 }, false},
		{"negative words", func(c *Config) { c.WordCount = -1 }, false},
		{"frame rate too high", func(c *Config) { c.FrameRate = 61 }, false},
		{"negative idle", func(c *Config) { c.IdleTimeout = -time.Second }, false},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, false},
		{"warn level", func(c *Config) { c.LogLevel = "warn" }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home := isolate(t)

	got, err := ExpandHome("~/x/y.db")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x", "y.db"), got)

	got, err = ExpandHome("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)

	got, err = ExpandHome("~other/path")
	require.NoError(t, err)
	assert.Equal(t, "~other/path", got)
}
