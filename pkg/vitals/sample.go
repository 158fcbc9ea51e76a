package vitals

import "time"

// Sample is one full set of vital-sign readings produced on a single
// generation tick. It is immutable after creation; the state store holds
// exactly one current sample and overwrites it on every tick.
type Sample struct {
	Timestamp time.Time          `json:"ts"`
	Values    map[string]float64 `json:"vitals"`
}

// Vector returns the sample's values in canonical catalog order, the feature
// order expected by the anomaly detectors.
func (s Sample) Vector() []float64 {
	out := make([]float64, len(catalog))
	for i, spec := range catalog {
		out[i] = s.Values[spec.Name]
	}
	return out
}

// Clone returns a deep copy of the sample. Useful when handing a sample to a
// concurrent consumer that must not observe later mutations of the map.
func (s Sample) Clone() Sample {
	vals := make(map[string]float64, len(s.Values))
	for k, v := range s.Values {
		vals[k] = v
	}
	return Sample{Timestamp: s.Timestamp, Values: vals}
}
