package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vitalsim/vitalsim/pkg/vitals"
	"github.com/vitalsim/vitalsim/sensor/internal/alarm"
	"github.com/vitalsim/vitalsim/sensor/internal/detect"
	"github.com/vitalsim/vitalsim/sensor/internal/generate"
	"github.com/vitalsim/vitalsim/sensor/internal/metrics"
)

// memStore is an in-process state.Store for tests.
type memStore struct {
	mu        sync.Mutex
	sample    vitals.Sample
	hasSample bool
	params    vitals.Params
	hasParams bool
	paramsErr error
	putErr    error
}

func (m *memStore) Sample() (vitals.Sample, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sample, m.hasSample, nil
}

func (m *memStore) PutSample(s vitals.Sample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.sample, m.hasSample = s, true
	return nil
}

func (m *memStore) Params() (vitals.Params, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.paramsErr != nil {
		return vitals.Params{}, m.paramsErr
	}
	if !m.hasParams {
		return vitals.DefaultParams(), nil
	}
	return m.params.Normalize(), nil
}

func (m *memStore) PutParams(p vitals.Params) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params, m.hasParams = p, true
	return nil
}

func (m *memStore) Close() error { return nil }

// fixedDetector returns a canned verdict or error.
type fixedDetector struct {
	verdict detect.Verdict
	err     error
}

func (f fixedDetector) Evaluate(vitals.Sample) (detect.Verdict, error) {
	return f.verdict, f.err
}

func newMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

func TestTick_PublishesSample(t *testing.T) {
	st := &memStore{}
	p := New(st, generate.NewWithSeed(1), fixedDetector{}, alarm.New("", nil), newMetrics(), time.Second)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	p.Tick(now)

	s, ok, _ := st.Sample()
	if !ok {
		t.Fatal("no sample published")
	}
	if !s.Timestamp.Equal(now) {
		t.Errorf("sample ts = %v, want %v", s.Timestamp, now)
	}
	if len(s.Values) != vitals.Count() {
		t.Errorf("sample has %d values, want %d", len(s.Values), vitals.Count())
	}
}

func TestTick_HonorsStoredOverrides(t *testing.T) {
	st := &memStore{}
	params := vitals.DefaultParams()
	params.Overrides[vitals.HeartRate] = vitals.Override{Mean: 150, Std: 0}
	params.Dispersion = 0
	if err := st.PutParams(params); err != nil {
		t.Fatalf("PutParams: %v", err)
	}

	p := New(st, generate.NewWithSeed(1), fixedDetector{}, alarm.New("", nil), newMetrics(), time.Second)
	p.Tick(time.Now().UTC())

	s, _, _ := st.Sample()
	if s.Values[vitals.HeartRate] != 150 {
		t.Errorf("heart rate = %v, want the overridden 150", s.Values[vitals.HeartRate])
	}
}

func TestTick_AnomalyTriggersAlarm(t *testing.T) {
	delivered := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delivered <- struct{}{}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := newMetrics()
	dispatcher := alarm.New(srv.URL, m)
	go dispatcher.Run(ctx)

	det := fixedDetector{verdict: detect.Verdict{Score: 5.2, IsAnomaly: true, Method: "distance", Threshold: 3.8}}
	p := New(&memStore{}, generate.NewWithSeed(1), det, dispatcher, m, time.Second)
	p.Tick(time.Now().UTC())

	select {
	case <-delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("anomalous tick produced no delivery within 2s")
	}
	if got := testutil.ToFloat64(m.Anomalies); got != 1 {
		t.Errorf("anomalies counter = %v, want 1", got)
	}
}

func TestTick_NormalVerdictNoAlarm(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dispatcher := alarm.New(srv.URL, nil)
	go dispatcher.Run(ctx)

	m := newMetrics()
	det := fixedDetector{verdict: detect.Verdict{Score: 0.5, IsAnomaly: false}}
	p := New(&memStore{}, generate.NewWithSeed(1), det, dispatcher, m, time.Second)
	p.Tick(time.Now().UTC())

	time.Sleep(100 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Errorf("normal verdict caused %d deliveries", n)
	}
	if got := testutil.ToFloat64(m.LastScore); got != 0.5 {
		t.Errorf("last score gauge = %v, want 0.5", got)
	}
}

func TestTick_NoVerdictKeepsTicking(t *testing.T) {
	st := &memStore{}
	m := newMetrics()
	det := fixedDetector{err: detect.ErrModelUnavailable}
	p := New(st, generate.NewWithSeed(1), det, alarm.New("", nil), m, time.Second)

	for i := 0; i < 3; i++ {
		p.Tick(time.Now().UTC())
	}

	if got := testutil.ToFloat64(m.Ticks); got != 3 {
		t.Errorf("ticks = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.NoVerdicts); got != 3 {
		t.Errorf("no-verdict count = %v, want 3", got)
	}
	// Samples are still generated and published without a verdict.
	if _, ok, _ := st.Sample(); !ok {
		t.Error("no sample published while model unavailable")
	}
	if got := testutil.ToFloat64(m.Anomalies); got != 0 {
		t.Errorf("no-verdict ticks counted %v anomalies", got)
	}
}

func TestTick_ParamsErrorFallsBackToDefaults(t *testing.T) {
	st := &memStore{paramsErr: fmt.Errorf("state: %w", errors.New("disk gone"))}
	p := New(st, generate.NewWithSeed(1), fixedDetector{}, alarm.New("", nil), newMetrics(), time.Second)

	p.Tick(time.Now().UTC())

	s, ok, _ := st.Sample()
	if !ok {
		t.Fatal("tick with unreadable params published nothing")
	}
	// Defaults put heart rate near 80; anything physiological proves the
	// fallback draw happened.
	if hr := s.Values[vitals.HeartRate]; hr < 30 || hr > 130 {
		t.Errorf("heart rate %v not drawn from default distribution", hr)
	}
}

func TestRun_TicksOnInterval(t *testing.T) {
	st := &memStore{}
	m := newMetrics()
	p := New(st, generate.NewWithSeed(1), fixedDetector{}, alarm.New("", nil), m, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 130*time.Millisecond)
	defer cancel()
	p.Run(ctx)

	// Immediate tick plus ~6 interval ticks; allow generous slack.
	if got := testutil.ToFloat64(m.Ticks); got < 3 {
		t.Errorf("ticks = %v, want at least 3 over 130ms at 20ms interval", got)
	}
	if _, ok, _ := st.Sample(); !ok {
		t.Error("Run published no sample")
	}
}
