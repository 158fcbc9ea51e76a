package detect

import (
	"math"

	"github.com/vitalsim/vitalsim/pkg/vitals"
	"github.com/vitalsim/vitalsim/sensor/internal/config"
)

// Distance scores a sample by its Euclidean distance from the center point
// formed by each vital's normal resting mean. With weighting enabled, each
// dimension is divided by its own resting std dev first, so a 10 mmHg blood
// pressure excursion and a 1.2 % oxygen drop carry comparable weight.
type Distance struct {
	threshold float64
	center    []float64
	scale     []float64 // per-dimension divisor; all 1s when unweighted
}

// NewDistance builds the distance detector from the catalog.
func NewDistance(threshold float64, weighted bool) *Distance {
	specs := vitals.All()
	d := &Distance{
		threshold: threshold,
		center:    make([]float64, len(specs)),
		scale:     make([]float64, len(specs)),
	}
	for i, s := range specs {
		d.center[i] = s.Mean
		d.scale[i] = 1
		if weighted && s.Std > 0 {
			d.scale[i] = s.Std
		}
	}
	return d
}

// Evaluate returns the raw (standardized) distance as the score; there is no
// fixed upper bound. A sample exactly at every resting mean scores 0.
func (d *Distance) Evaluate(s vitals.Sample) (Verdict, error) {
	x := s.Vector()
	var sum float64
	for i := range x {
		diff := (x[i] - d.center[i]) / d.scale[i]
		sum += diff * diff
	}
	dist := math.Sqrt(sum)

	return Verdict{
		Score:     dist,
		IsAnomaly: dist > d.threshold,
		Method:    config.MethodDistance,
		Threshold: d.threshold,
	}, nil
}
