package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/trellis/pkg/errors"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 60, cfg.UI.MaxFPS)
	assert.Equal(t, 60, cfg.UI.AnimationFPS)
	assert.Equal(t, 128, cfg.UI.MessageBuffer)
	assert.True(t, cfg.UI.Mouse)
	assert.Equal(t, []string{"ctrl+c"}, cfg.UI.QuitKeys)
	assert.Equal(t, 8, cfg.Scheduler.Workers)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Telemetry.Metrics)
	assert.False(t, cfg.Telemetry.Tracing)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromPath(t *testing.T) {
	t.Run("merges over defaults", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), `
ui:
  max_fps: 30
  mouse: false
  quit_keys: [q, ctrl+c]
logging:
  level: debug
telemetry:
  tracing: true
  trace_file: ~/trellis-trace.json
`)
		cfg, err := LoadFromPath(path)
		require.NoError(t, err)
		assert.Equal(t, 30, cfg.UI.MaxFPS)
		assert.Equal(t, 60, cfg.UI.AnimationFPS, "unset keys keep defaults")
		assert.False(t, cfg.UI.Mouse)
		assert.Equal(t, []string{"q", "ctrl+c"}, cfg.UI.QuitKeys)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.True(t, cfg.Telemetry.Tracing)
		assert.True(t, filepath.IsAbs(cfg.Telemetry.TraceFile), "trace file is expanded: %s", cfg.Telemetry.TraceFile)
		assert.Equal(t, "127.0.0.1:9464", cfg.Telemetry.MetricsAddr)
		assert.Equal(t, 8, cfg.Scheduler.Workers)
	})

	t.Run("empty file", func(t *testing.T) {
		cfg, err := LoadFromPath(writeConfig(t, t.TempDir(), ""))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.True(t, errors.IsCode(err, errors.ErrCodeConfigLoad), "got %v", err)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadFromPath(writeConfig(t, t.TempDir(), "ui:\n  max_fsp: 30\n"))
		assert.True(t, errors.IsCode(err, errors.ErrCodeConfigParse), "got %v", err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := LoadFromPath(writeConfig(t, t.TempDir(), "ui: [\n"))
		assert.True(t, errors.IsCode(err, errors.ErrCodeConfigParse), "got %v", err)
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := LoadFromPath(writeConfig(t, t.TempDir(), "scheduler:\n  workers: 0\n"))
		assert.True(t, errors.IsCode(err, errors.ErrCodeConfigInvalid), "got %v", err)
	})
}

func TestLoad_Hierarchy(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(project)

	require.NoError(t, os.MkdirAll(filepath.Join(home, ".trellis"), 0o755))
	writeConfig(t, filepath.Join(home, ".trellis"), "ui:\n  max_fps: 30\n  animation_fps: 24\n")
	require.NoError(t, os.MkdirAll(filepath.Join(project, ".trellis"), 0o755))
	writeConfig(t, filepath.Join(project, ".trellis"), "ui:\n  max_fps: 45\n")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.UI.MaxFPS, "project config wins over user config")
	assert.Equal(t, 24, cfg.UI.AnimationFPS)
}

func TestLoad_NoFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "ui:\n  max_fps: 30\n")
	t.Setenv("TRELLIS_MAX_FPS", "120")
	t.Setenv("TRELLIS_WORKERS", "2")
	t.Setenv("TRELLIS_LOG_LEVEL", "warn")
	t.Setenv("TRELLIS_LOG_FILE", "~/trellis.log")
	t.Setenv("TRELLIS_MOUSE", "off")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.UI.MaxFPS, "environment wins over files")
	assert.Equal(t, 2, cfg.Scheduler.Workers)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.False(t, cfg.UI.Mouse)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "trellis.log"), cfg.Logging.File)
}

func TestEnvOverrides_Invalid(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "")

	t.Run("not a number", func(t *testing.T) {
		t.Setenv("TRELLIS_WORKERS", "many")
		_, err := LoadFromPath(path)
		assert.True(t, errors.IsCode(err, errors.ErrCodeConfigInvalid), "got %v", err)
	})

	t.Run("unknown level", func(t *testing.T) {
		t.Setenv("TRELLIS_LOG_LEVEL", "loud")
		_, err := LoadFromPath(path)
		assert.True(t, errors.IsCode(err, errors.ErrCodeConfigInvalid), "got %v", err)
	})

	t.Run("unparseable bool is ignored", func(t *testing.T) {
		t.Setenv("TRELLIS_MOUSE", "maybe")
		cfg, err := LoadFromPath(path)
		require.NoError(t, err)
		assert.True(t, cfg.UI.Mouse)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero fps", func(c *Config) { c.UI.MaxFPS = 0 }, false},
		{"negative animation fps", func(c *Config) { c.UI.AnimationFPS = -1 }, false},
		{"zero buffer", func(c *Config) { c.UI.MessageBuffer = 0 }, false},
		{"zero workers", func(c *Config) { c.Scheduler.Workers = 0 }, false},
		{"level case insensitive", func(c *Config) { c.Logging.Level = "DEBUG" }, true},
		{"unknown level", func(c *Config) { c.Logging.Level = "trace" }, false},
		{"blank quit key", func(c *Config) { c.UI.QuitKeys = []string{"q", " "} }, false},
		{"no quit keys", func(c *Config) { c.UI.QuitKeys = nil }, true},
		{"metrics without addr", func(c *Config) { c.Telemetry.Metrics, c.Telemetry.MetricsAddr = true, "" }, false},
		{"metrics with addr", func(c *Config) { c.Telemetry.Metrics = true }, true},
		{"tracing without file", func(c *Config) { c.Telemetry.Tracing = true }, false},
		{"tracing with file", func(c *Config) { c.Telemetry.Tracing, c.Telemetry.TraceFile = true, "/tmp/t.json" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.IsCode(err, errors.ErrCodeConfigInvalid), "got %v", err)
		})
	}
}

func TestExpandHomeDir(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, "", expandHomeDir("  "))
	assert.Equal(t, home, expandHomeDir("~"))
	assert.Equal(t, filepath.Join(home, "logs", "a.log"), expandHomeDir("~/logs/a.log"))
	assert.Equal(t, "/var/log/a.log", expandHomeDir("/var/log/a.log"))
}
