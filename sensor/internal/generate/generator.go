package generate

import (
	"math/rand"
	"time"

	"github.com/vitalsim/vitalsim/pkg/vitals"
)

// Generator draws vital-sign samples. It is not safe for concurrent use; the
// pipeline calls it from a single tick goroutine.
type Generator struct {
	rng *rand.Rand
}

// New returns a Generator seeded from the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Generator with a fixed seed, for deterministic tests.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate draws one value per vital from N(mean, std·dispersion) using the
// given parameters and stamps the sample with now. A zero effective std
// yields the mean exactly.
func (g *Generator) Generate(params vitals.Params, now time.Time) vitals.Sample {
	params = params.Normalize()

	values := make(map[string]float64, vitals.Count())
	for _, spec := range vitals.All() {
		o := params.Overrides[spec.Name]
		std := o.Std * params.Dispersion
		v := o.Mean
		if std > 0 {
			v += g.rng.NormFloat64() * std
		}
		values[spec.Name] = v
	}
	return vitals.Sample{Timestamp: now, Values: values}
}
