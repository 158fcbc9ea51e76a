package detect

import (
	"github.com/vitalsim/vitalsim/pkg/vitals"
	"github.com/vitalsim/vitalsim/sensor/internal/config"
)

// EIF scores samples with a pretrained extended isolation forest. A nil
// forest marks the detector as unavailable; it keeps accepting calls but
// returns ErrModelUnavailable so the pipeline can keep ticking.
type EIF struct {
	forest    *Forest
	threshold float64
}

// Available reports whether a model is loaded.
func (e *EIF) Available() bool { return e.forest != nil }

// Evaluate returns the normalized anomaly probability in [0, 1] and flags the
// sample when it exceeds the threshold.
func (e *EIF) Evaluate(s vitals.Sample) (Verdict, error) {
	if e.forest == nil {
		return Verdict{}, ErrModelUnavailable
	}
	score := e.forest.Score(s.Vector())
	return Verdict{
		Score:     score,
		IsAnomaly: score > e.threshold,
		Method:    config.MethodEIF,
		Threshold: e.threshold,
	}, nil
}
