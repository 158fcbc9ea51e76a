// Package pipeline runs the sensor's generate→detect→alert cycle on a fixed
// interval. Ticks never overlap; alarm delivery is handed off to the
// dispatcher's worker and may still be in flight when the next tick fires.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vitalsim/vitalsim/pkg/state"
	"github.com/vitalsim/vitalsim/pkg/vitals"
	"github.com/vitalsim/vitalsim/sensor/internal/alarm"
	"github.com/vitalsim/vitalsim/sensor/internal/detect"
	"github.com/vitalsim/vitalsim/sensor/internal/generate"
	"github.com/vitalsim/vitalsim/sensor/internal/metrics"
)

// Pipeline owns one full tick: read params, generate, publish, score, and on
// an anomalous verdict hand the sample to the alarm dispatcher.
type Pipeline struct {
	store    state.Store
	gen      *generate.Generator
	detector detect.Detector
	alarms   *alarm.Dispatcher
	metrics  *metrics.Metrics
	interval time.Duration
}

// New wires a Pipeline from its collaborators.
func New(
	store state.Store,
	gen *generate.Generator,
	detector detect.Detector,
	alarms *alarm.Dispatcher,
	m *metrics.Metrics,
	interval time.Duration,
) *Pipeline {
	return &Pipeline{
		store:    store,
		gen:      gen,
		detector: detector,
		alarms:   alarms,
		metrics:  m,
		interval: interval,
	}
}

// Run executes a tick immediately, then on every interval until ctx is
// cancelled. A failed tick is never retried mid-interval; it simply waits
// for the next firing.
func (p *Pipeline) Run(ctx context.Context) {
	p.Tick(time.Now().UTC())

	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			p.Tick(now.UTC())
		}
	}
}

// Tick performs one generation cycle stamped with now. Exported so tests
// drive the pipeline without sleeping.
func (p *Pipeline) Tick(now time.Time) {
	if p.metrics != nil {
		p.metrics.Ticks.Inc()
	}

	params, err := p.store.Params()
	if err != nil {
		// State access trouble means "no overrides", not a dead tick.
		slog.Warn("pipeline: params unreadable, using defaults", "err", err)
		params = vitals.DefaultParams()
	}

	sample := p.gen.Generate(params, now)

	if err := p.store.PutSample(sample); err != nil {
		slog.Warn("pipeline: publish sample failed", "err", err)
	}

	verdict, err := p.detector.Evaluate(sample)
	if err != nil {
		if p.metrics != nil {
			p.metrics.NoVerdicts.Inc()
		}
		if errors.Is(err, detect.ErrModelUnavailable) {
			// Already logged once at load; keep the per-tick noise down.
			slog.Debug("pipeline: no verdict for sample", "ts", sample.Timestamp)
		} else {
			slog.Error("pipeline: detector error", "err", err)
		}
		return
	}

	if p.metrics != nil {
		p.metrics.LastScore.Set(verdict.Score)
	}

	if !verdict.IsAnomaly {
		return
	}

	slog.Warn("pipeline: anomaly detected",
		"score", verdict.Score,
		"method", verdict.Method,
		"threshold", verdict.Threshold,
		"ts", sample.Timestamp)
	if p.metrics != nil {
		p.metrics.Anomalies.Inc()
	}
	p.alarms.Notify(sample, verdict)
}
