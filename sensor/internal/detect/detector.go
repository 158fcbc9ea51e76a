package detect

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/vitalsim/vitalsim/pkg/vitals"
	"github.com/vitalsim/vitalsim/sensor/internal/config"
)

// ErrModelUnavailable means the detector has no usable model and therefore no
// verdict for the sample. Callers must not treat this as "not anomalous".
var ErrModelUnavailable = errors.New("detect: model unavailable")

// Verdict is the outcome of scoring one sample. Threshold is the value in
// force when the verdict was produced, so a later config change never
// reinterprets an old verdict.
type Verdict struct {
	Score     float64
	IsAnomaly bool
	Method    string
	Threshold float64
}

// Detector scores samples against one fixed strategy.
type Detector interface {
	Evaluate(vitals.Sample) (Verdict, error)
}

// New builds the configured detector. The choice is made exactly once; the
// pipeline never switches strategies per sample.
//
// An eif model that cannot be loaded is not fatal: the error is logged once
// here and the returned detector yields ErrModelUnavailable per sample until
// the process is restarted with a corrected artifact.
func New(cfg config.DetectionConfig) (Detector, error) {
	switch cfg.Method {
	case config.MethodDistance:
		return NewDistance(cfg.DistanceThreshold, cfg.DistanceWeighting == config.WeightingStd), nil

	case config.MethodEIF:
		forest, err := LoadForest(cfg.EIFModelPath)
		if err != nil {
			slog.Error("detect: eif model unavailable, samples will get no verdict",
				"path", cfg.EIFModelPath, "err", err)
			return &EIF{threshold: cfg.EIFThreshold}, nil
		}
		slog.Info("detect: eif model loaded",
			"path", cfg.EIFModelPath,
			"trees", len(forest.Trees),
			"sample_size", forest.SampleSize)
		return &EIF{forest: forest, threshold: cfg.EIFThreshold}, nil

	default:
		return nil, fmt.Errorf("detect: unknown method %q", cfg.Method)
	}
}
