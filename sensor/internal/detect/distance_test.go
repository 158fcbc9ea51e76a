package detect

import (
	"math"
	"testing"
	"time"

	"github.com/vitalsim/vitalsim/pkg/vitals"
)

// centerSample is a sample sitting exactly at every vital's resting mean.
func centerSample() vitals.Sample {
	values := make(map[string]float64)
	for _, s := range vitals.All() {
		values[s.Name] = s.Mean
	}
	return vitals.Sample{Timestamp: time.Now(), Values: values}
}

// shiftedSample moves each vital k resting std devs away from its mean.
func shiftedSample(k float64) vitals.Sample {
	values := make(map[string]float64)
	for _, s := range vitals.All() {
		values[s.Name] = s.Mean + k*s.Std
	}
	return vitals.Sample{Timestamp: time.Now(), Values: values}
}

func TestDistance_CenterScoresZero(t *testing.T) {
	for _, threshold := range []float64{0.001, 1, 3.8, 100} {
		d := NewDistance(threshold, true)
		v, err := d.Evaluate(centerSample())
		if err != nil {
			t.Fatalf("Evaluate: %v", err)
		}
		if v.Score != 0 {
			t.Errorf("threshold %v: score = %v, want 0 at the center", threshold, v.Score)
		}
		if v.IsAnomaly {
			t.Errorf("threshold %v: center flagged anomalous", threshold)
		}
	}
}

func TestDistance_StandardizedShift(t *testing.T) {
	// One resting std dev in every dimension is distance sqrt(6) in
	// standardized space, regardless of the vitals' raw magnitudes.
	d := NewDistance(3.8, true)
	v, err := d.Evaluate(shiftedSample(1))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	want := math.Sqrt(float64(vitals.Count()))
	if math.Abs(v.Score-want) > 1e-9 {
		t.Errorf("score = %v, want sqrt(6) = %v", v.Score, want)
	}
}

func TestDistance_WeightingMatters(t *testing.T) {
	// A +10 mmHg systolic excursion is 2σ standardized but 10 raw units.
	s := centerSample()
	s.Values[vitals.SystolicBP] += 10

	weighted, _ := NewDistance(3.8, true).Evaluate(s)
	raw, _ := NewDistance(3.8, false).Evaluate(s)

	if math.Abs(weighted.Score-2) > 1e-9 {
		t.Errorf("weighted score = %v, want 2 (10 mmHg / std 5)", weighted.Score)
	}
	if math.Abs(raw.Score-10) > 1e-9 {
		t.Errorf("unweighted score = %v, want 10", raw.Score)
	}
}

func TestDistance_ThresholdMonotonic(t *testing.T) {
	// Raising the threshold can only turn an anomalous verdict non-anomalous,
	// never the reverse.
	samples := []vitals.Sample{
		centerSample(),
		shiftedSample(0.5),
		shiftedSample(1.5),
		shiftedSample(3),
	}
	thresholds := []float64{0.5, 1, 2, 3.8, 5, 10}

	for _, s := range samples {
		prev := true // semantically "anomalous" before the loosest threshold
		for _, th := range thresholds {
			v, err := NewDistance(th, true).Evaluate(s)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if v.IsAnomaly && !prev {
				t.Errorf("threshold %v re-flagged a sample a lower threshold cleared", th)
			}
			prev = v.IsAnomaly
		}
	}
}

func TestDistance_ScoreAtThresholdIsNotAnomalous(t *testing.T) {
	// is_anomaly requires strictly greater than the threshold.
	want := math.Sqrt(float64(vitals.Count()))
	d := NewDistance(want, true)
	v, _ := d.Evaluate(shiftedSample(1))
	if v.IsAnomaly {
		t.Errorf("score %v at threshold %v flagged anomalous; comparison must be strict", v.Score, want)
	}
}

func TestDistance_VerdictMetadata(t *testing.T) {
	d := NewDistance(3.8, true)
	v, _ := d.Evaluate(shiftedSample(4))
	if v.Method != "distance" {
		t.Errorf("Method = %q, want distance", v.Method)
	}
	if v.Threshold != 3.8 {
		t.Errorf("Threshold = %v, want the configured 3.8", v.Threshold)
	}
	if !v.IsAnomaly {
		t.Errorf("4σ shift (score %v) not flagged at threshold 3.8", v.Score)
	}
}
