package alarm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vitalsim/vitalsim/pkg/vitals"
	"github.com/vitalsim/vitalsim/sensor/internal/detect"
	"github.com/vitalsim/vitalsim/sensor/internal/metrics"
)

const (
	// deliverTimeout bounds one HTTP attempt.
	deliverTimeout = 10 * time.Second

	// maxAttempts is the original attempt plus exactly one retry.
	maxAttempts = 2

	// queueSize is the per-process backlog of undelivered alerts.
	queueSize = 16
)

// Payload is the webhook body. Vitals keys are the canonical vital names.
type Payload struct {
	TS           time.Time          `json:"ts"`
	AnomalyScore float64            `json:"anomaly_score"`
	Vitals       map[string]float64 `json:"vitals"`
}

// NewPayload builds the webhook body from a sample and its verdict.
func NewPayload(s vitals.Sample, v detect.Verdict) Payload {
	s = s.Clone()
	return Payload{
		TS:           s.Timestamp,
		AnomalyScore: v.Score,
		Vitals:       s.Values,
	}
}

// Dispatcher posts alert payloads to the configured endpoint from a single
// worker goroutine. Notify never blocks the caller; when the queue is full
// the oldest pending alert is evicted so the newest one survives.
type Dispatcher struct {
	endpoint string
	client   *http.Client
	queue    chan Payload
	metrics  *metrics.Metrics
}

// New creates a Dispatcher. An empty endpoint disables dispatch entirely:
// Notify becomes a no-op and Run returns immediately.
func New(endpoint string, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: deliverTimeout},
		queue:    make(chan Payload, queueSize),
		metrics:  m,
	}
}

// Enabled reports whether an endpoint is configured.
func (d *Dispatcher) Enabled() bool { return d.endpoint != "" }

// Notify enqueues an alert for the sample. Call only for anomalous verdicts.
func (d *Dispatcher) Notify(s vitals.Sample, v detect.Verdict) {
	if !d.Enabled() {
		return
	}
	p := NewPayload(s, v)
	select {
	case d.queue <- p:
	default:
		// Queue full — evict the oldest alert, keep the newest.
		select {
		case <-d.queue:
			slog.Warn("alarm: queue full, evicted oldest alert", "queue_cap", cap(d.queue))
			d.count(metrics.OutcomeDropped)
		default:
		}
		d.queue <- p
	}
}

// Run drains the queue and delivers alerts until ctx is cancelled. An
// in-flight delivery is allowed to finish or time out on its own.
func (d *Dispatcher) Run(ctx context.Context) {
	if !d.Enabled() {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case p := <-d.queue:
			if err := d.deliver(p); err != nil {
				slog.Error("alarm: delivery failed, alert dropped",
					"endpoint", d.endpoint,
					"score", p.AnomalyScore,
					"err", err)
				d.count(metrics.OutcomeFailed)
			} else {
				slog.Info("alarm: delivered",
					"endpoint", d.endpoint,
					"score", p.AnomalyScore)
				d.count(metrics.OutcomeDelivered)
			}
		}
	}
}

// deliver posts p, retrying once on connection error, timeout, or non-2xx.
func (d *Dispatcher) deliver(p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = d.post(body)
		if lastErr == nil {
			return nil
		}
		if attempt < maxAttempts {
			slog.Warn("alarm: delivery attempt failed, retrying once",
				"attempt", attempt, "err", lastErr)
		}
	}
	return lastErr
}

func (d *Dispatcher) post(body []byte) error {
	req, err := http.NewRequest(http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("endpoint returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func (d *Dispatcher) count(outcome string) {
	if d.metrics != nil {
		d.metrics.Deliveries.WithLabelValues(outcome).Inc()
	}
}
