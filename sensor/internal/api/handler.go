// Package api serves the sensor's read-only REST surface: the latest vitals
// sample, the build version, and the Prometheus metrics endpoint.
package api

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vitalsim/vitalsim/pkg/state"
	"github.com/vitalsim/vitalsim/pkg/vitals"
	"github.com/vitalsim/vitalsim/pkg/version"
)

// Handler is the HTTP handler for the sensor process.
type Handler struct {
	store state.Store
	mux   *http.ServeMux
}

// New creates a Handler reading from st and registers all routes. gatherer
// backs /metrics; pass prometheus.DefaultGatherer in production.
func New(st state.Store, gatherer prometheus.Gatherer) http.Handler {
	h := &Handler{store: st, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/vitals", h.vitals)
	h.mux.HandleFunc("/api/v1/version", h.version)
	h.mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// vitals returns GET /api/v1/vitals — the most recent sample.
func (h *Handler) vitals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s, ok, err := h.store.Sample()
	if err != nil {
		jsonErr(w, http.StatusServiceUnavailable, "state store unreadable")
		return
	}
	if !ok {
		jsonErr(w, http.StatusNotFound, "no sample generated yet")
		return
	}
	jsonResp(w, http.StatusOK, toVitalsResponse(s))
}

// version returns GET /api/v1/version.
func (h *Handler) version(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, VersionResponse{Version: version.Build})
}

func toVitalsResponse(s vitals.Sample) VitalsResponse {
	round := func(name string) int {
		return int(math.Round(s.Values[name]))
	}
	return VitalsResponse{
		TS:               s.Timestamp.UTC().Format(time.RFC3339),
		HeartRate:        round(vitals.HeartRate),
		OxygenSaturation: round(vitals.OxygenSaturation),
		BreathingRate:    round(vitals.BreathingRate),
		SystolicBP:       round(vitals.SystolicBP),
		DiastolicBP:      round(vitals.DiastolicBP),
		BodyTemperature:  math.Round(s.Values[vitals.BodyTemperature]*10) / 10,
	}
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
