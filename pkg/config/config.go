// Package config loads trellis settings from YAML files and the
// environment.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/trellis/pkg/errors"
	"github.com/odvcencio/trellis/pkg/logging"
)

// Config is the root configuration.
type Config struct {
	UI        UIConfig        `yaml:"ui"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// UIConfig controls the frame loop.
type UIConfig struct {
	MaxFPS        int      `yaml:"max_fps"`
	AnimationFPS  int      `yaml:"animation_fps"`
	MessageBuffer int      `yaml:"message_buffer"`
	Mouse         bool     `yaml:"mouse"`
	QuitKeys      []string `yaml:"quit_keys"`
}

// SchedulerConfig sizes the async task pool.
type SchedulerConfig struct {
	Workers int `yaml:"workers"`
}

// LoggingConfig selects where log lines go. An empty file discards them.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// TelemetryConfig toggles frame metrics and tracing. Metrics are served
// for scraping on MetricsAddr; spans are written as JSON to TraceFile.
type TelemetryConfig struct {
	Metrics     bool   `yaml:"metrics"`
	MetricsAddr string `yaml:"metrics_addr"`
	Tracing     bool   `yaml:"tracing"`
	TraceFile   string `yaml:"trace_file"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			MaxFPS:        60,
			AnimationFPS:  60,
			MessageBuffer: 128,
			Mouse:         true,
			QuitKeys:      []string{"ctrl+c"},
		},
		Scheduler: SchedulerConfig{
			Workers: 8,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			MetricsAddr: "127.0.0.1:9464",
		},
	}
}

// Load loads configuration with precedence defaults, then
// ~/.trellis/config.yaml, then ./.trellis/config.yaml, then environment.
// Missing files are skipped.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	var paths []string
	if home != "" {
		paths = append(paths, filepath.Join(home, ".trellis", "config.yaml"))
	}
	paths = append(paths, filepath.Join(".", ".trellis", "config.yaml"))

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := loadAndMerge(cfg, path); err != nil {
			return nil, err
		}
	}
	return finish(cfg)
}

// LoadFromPath loads configuration from a specific file. The file must
// exist.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := loadAndMerge(cfg, path); err != nil {
		return nil, err
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	cfg.Logging.File = expandHomeDir(cfg.Logging.File)
	cfg.Telemetry.TraceFile = expandHomeDir(cfg.Telemetry.TraceFile)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	positive := []struct {
		field string
		value int
	}{
		{"ui.max_fps", c.UI.MaxFPS},
		{"ui.animation_fps", c.UI.AnimationFPS},
		{"ui.message_buffer", c.UI.MessageBuffer},
		{"scheduler.workers", c.Scheduler.Workers},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return errors.New(errors.ErrCodeConfigInvalid, p.field+" must be > 0").
				WithContext("value", p.value)
		}
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid logging.level").
			WithContext("value", c.Logging.Level)
	}

	for i, key := range c.UI.QuitKeys {
		if strings.TrimSpace(key) == "" {
			return errors.New(errors.ErrCodeConfigInvalid, "ui.quit_keys entries must not be empty").
				WithContext("index", i)
		}
	}

	if c.Telemetry.Metrics && strings.TrimSpace(c.Telemetry.MetricsAddr) == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "telemetry.metrics_addr is required when metrics are enabled")
	}
	if c.Telemetry.Tracing && strings.TrimSpace(c.Telemetry.TraceFile) == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "telemetry.trace_file is required when tracing is enabled")
	}
	return nil
}
