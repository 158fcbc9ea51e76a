package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vitalsim/vitalsim/pkg/state"
)

// Detection method names. The set is closed: the method is chosen once at
// startup and never re-dispatched per sample.
const (
	MethodDistance = "distance"
	MethodEIF      = "eif"
)

// Distance weighting modes.
const (
	WeightingStd  = "std"  // scale each dimension by its resting std dev
	WeightingNone = "none" // raw Euclidean distance
)

// Default values applied when fields are absent from the config file.
const (
	DefaultHTTPPort           = 8000
	DefaultGenerationInterval = 5 * time.Second
	DefaultDistanceThreshold  = 3.8
	DefaultEIFThreshold       = 0.4
	DefaultStatePath          = "/var/lib/vitalsim/state"
)

// Config is the top-level sensor process configuration.
type Config struct {
	// HTTPPort is the port the REST API and /metrics endpoint listen on.
	HTTPPort int `yaml:"http_port"`

	// GenerationInterval controls how often a new sample is produced.
	GenerationInterval time.Duration `yaml:"generation_interval"`

	Detection DetectionConfig `yaml:"detection"`
	Alarm     AlarmConfig     `yaml:"alarm"`
	State     StateConfig     `yaml:"state"`
}

// DetectionConfig selects and tunes the anomaly detection strategy.
type DetectionConfig struct {
	// Method is one of: distance | eif.
	Method string `yaml:"method"`

	// DistanceThreshold is the standardized distance above which a sample is
	// anomalous under the distance method.
	DistanceThreshold float64 `yaml:"distance_threshold"`

	// DistanceWeighting is one of: std | none.
	DistanceWeighting string `yaml:"distance_weighting"`

	// EIFThreshold is the anomaly probability in (0,1) above which a sample
	// is anomalous under the eif method.
	EIFThreshold float64 `yaml:"eif_threshold"`

	// EIFModelPath is the serialized isolation-forest artifact.
	EIFModelPath string `yaml:"eif_model_path"`
}

// AlarmConfig configures outbound alert delivery.
type AlarmConfig struct {
	// EndpointURL is the webhook target. Empty disables dispatch.
	EndpointURL string `yaml:"endpoint_url"`
}

// StateConfig configures the shared runtime state backend.
type StateConfig struct {
	// Backend is one of: file | sqlite.
	Backend string `yaml:"backend"`

	// Path is the state directory (file) or database file (sqlite).
	Path string `yaml:"path"`
}

// Load reads the YAML config at path, applies environment overrides, and
// validates the result. An empty path skips the file and uses defaults plus
// environment only.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		HTTPPort:           DefaultHTTPPort,
		GenerationInterval: DefaultGenerationInterval,
		Detection: DetectionConfig{
			Method:            MethodDistance,
			DistanceThreshold: DefaultDistanceThreshold,
			DistanceWeighting: WeightingStd,
			EIFThreshold:      DefaultEIFThreshold,
		},
		State: StateConfig{
			Backend: state.BackendFile,
			Path:    DefaultStatePath,
		},
	}
}

// applyEnv overlays the environment variable surface onto cfg.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("ANOMALY_DETECTION_METHOD"); v != "" {
		cfg.Detection.Method = strings.ToLower(v)
	}
	if v := os.Getenv("DISTANCE_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("DISTANCE_THRESHOLD %q is not a number", v)
		}
		cfg.Detection.DistanceThreshold = f
	}
	if v := os.Getenv("DISTANCE_WEIGHTING"); v != "" {
		cfg.Detection.DistanceWeighting = strings.ToLower(v)
	}
	if v := os.Getenv("EIF_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("EIF_THRESHOLD %q is not a number", v)
		}
		cfg.Detection.EIFThreshold = f
	}
	if v := os.Getenv("EIF_MODEL_PATH"); v != "" {
		cfg.Detection.EIFModelPath = v
	}
	if v := os.Getenv("ALARM_ENDPOINT_URL"); v != "" {
		cfg.Alarm.EndpointURL = v
	}
	if v := os.Getenv("DATA_GENERATION_INTERVAL_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DATA_GENERATION_INTERVAL_SECONDS %q is not an integer", v)
		}
		cfg.GenerationInterval = time.Duration(n) * time.Second
	}
	if v := os.Getenv("STATE_BACKEND"); v != "" {
		cfg.State.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("STATE_PATH"); v != "" {
		cfg.State.Path = v
	}
	return nil
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return fmt.Errorf("http_port %d out of range", cfg.HTTPPort)
	}
	if cfg.GenerationInterval <= 0 {
		return fmt.Errorf("generation_interval must be positive")
	}

	switch cfg.Detection.Method {
	case MethodDistance, MethodEIF:
	default:
		return fmt.Errorf("unknown detection method %q (want %s or %s)",
			cfg.Detection.Method, MethodDistance, MethodEIF)
	}
	switch cfg.Detection.DistanceWeighting {
	case WeightingStd, WeightingNone:
	default:
		return fmt.Errorf("unknown distance weighting %q (want %s or %s)",
			cfg.Detection.DistanceWeighting, WeightingStd, WeightingNone)
	}
	if cfg.Detection.DistanceThreshold <= 0 {
		return fmt.Errorf("distance_threshold must be positive")
	}
	if cfg.Detection.EIFThreshold <= 0 || cfg.Detection.EIFThreshold >= 1 {
		return fmt.Errorf("eif_threshold must be in (0,1), got %v", cfg.Detection.EIFThreshold)
	}

	if cfg.Alarm.EndpointURL != "" {
		u, err := url.Parse(cfg.Alarm.EndpointURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("alarm endpoint_url %q is not an absolute URL", cfg.Alarm.EndpointURL)
		}
	}

	switch cfg.State.Backend {
	case state.BackendFile, state.BackendSQLite:
	default:
		return fmt.Errorf("unknown state backend %q", cfg.State.Backend)
	}
	if cfg.State.Path == "" {
		return fmt.Errorf("state path is required")
	}
	return nil
}
