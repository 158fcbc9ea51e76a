// Package metrics holds the sensor pipeline's Prometheus instrumentation,
// served on the sensor's /metrics endpoint.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Delivery outcome label values.
const (
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
	OutcomeDropped   = "dropped"
)

// Metrics bundles the pipeline's collectors. Register them on an explicit
// Registerer so tests can use a private registry.
type Metrics struct {
	Ticks      prometheus.Counter
	Anomalies  prometheus.Counter
	NoVerdicts prometheus.Counter
	LastScore  prometheus.Gauge
	Deliveries *prometheus.CounterVec
}

// New builds and registers the pipeline collectors.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vitalsim_ticks_total",
			Help: "Generation ticks executed.",
		}),
		Anomalies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vitalsim_anomalies_total",
			Help: "Samples judged anomalous.",
		}),
		NoVerdicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vitalsim_no_verdicts_total",
			Help: "Ticks where the detector could not produce a verdict.",
		}),
		LastScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vitalsim_last_anomaly_score",
			Help: "Anomaly score of the most recent sample.",
		}),
		Deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vitalsim_alarm_deliveries_total",
			Help: "Alarm delivery attempts by final outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.Ticks, m.Anomalies, m.NoVerdicts, m.LastScore, m.Deliveries)
	return m
}
