package config

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/odvcencio/trellis/pkg/errors"
)

// loadAndMerge decodes the YAML file at path over cfg. Keys the file does
// not mention keep their current values. Unknown keys are rejected.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigLoad, "reading config file").
			WithContext("path", path)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return errors.Wrap(err, errors.ErrCodeConfigParse, "parsing YAML").
			WithContext("path", path)
	}
	return nil
}

// applyEnvOverrides applies TRELLIS_* environment variables.
func applyEnvOverrides(cfg *Config) error {
	if v, ok, err := envInt("TRELLIS_MAX_FPS"); err != nil {
		return err
	} else if ok {
		cfg.UI.MaxFPS = v
	}
	if v, ok, err := envInt("TRELLIS_WORKERS"); err != nil {
		return err
	} else if ok {
		cfg.Scheduler.Workers = v
	}
	if v := os.Getenv("TRELLIS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TRELLIS_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
	if v, ok := envBool("TRELLIS_MOUSE"); ok {
		cfg.UI.Mouse = v
	}
	return nil
}

func envInt(key string) (int, bool, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid integer in environment").
			WithContext("variable", key)
	}
	return n, true, nil
}

func envBool(key string) (bool, bool) {
	val := os.Getenv(key)
	if val == "" {
		return false, false
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}
