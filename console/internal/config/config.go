// Package config loads and validates the console process configuration.
// The console shares the STATE_BACKEND / STATE_PATH environment surface with
// the sensor so both processes resolve the same shared state.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vitalsim/vitalsim/pkg/state"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultHTTPPort          = 8501
	DefaultBroadcastInterval = 5 * time.Second
	DefaultStatePath         = "/var/lib/vitalsim/state"
)

// Config is the top-level console process configuration.
type Config struct {
	// HTTPPort is the port the REST API and WebSocket hub listen on.
	HTTPPort int `yaml:"http_port"`

	// BroadcastInterval is the WebSocket hub's fallback cadence. File-change
	// events usually push samples out sooner.
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`

	State StateConfig `yaml:"state"`
}

// StateConfig mirrors the sensor's shared state settings.
type StateConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// Load reads the YAML config at path, applies environment overrides, and
// validates the result. An empty path uses defaults plus environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{
		HTTPPort:          DefaultHTTPPort,
		BroadcastInterval: DefaultBroadcastInterval,
		State: StateConfig{
			Backend: state.BackendFile,
			Path:    DefaultStatePath,
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if v := os.Getenv("STATE_BACKEND"); v != "" {
		cfg.State.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("STATE_PATH"); v != "" {
		cfg.State.Path = v
	}

	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("config: http_port %d out of range", cfg.HTTPPort)
	}
	if cfg.BroadcastInterval <= 0 {
		return nil, fmt.Errorf("config: broadcast_interval must be positive")
	}
	switch cfg.State.Backend {
	case state.BackendFile, state.BackendSQLite:
	default:
		return nil, fmt.Errorf("config: unknown state backend %q", cfg.State.Backend)
	}
	if cfg.State.Path == "" {
		return nil, fmt.Errorf("config: state path is required")
	}
	return cfg, nil
}
