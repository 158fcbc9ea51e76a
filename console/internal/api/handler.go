// Package api serves the console's REST surface: the current sample for the
// visualization, the static vitals catalog, and read/write access to the
// generation-parameter overrides driven by the UI sliders.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vitalsim/vitalsim/pkg/state"
	"github.com/vitalsim/vitalsim/pkg/vitals"
)

// Handler is the HTTP handler for all of the console's /api/v1/* endpoints.
type Handler struct {
	store state.Store
	mux   *http.ServeMux
}

// New creates a Handler wired to the shared state store.
func New(st state.Store) http.Handler {
	h := &Handler{store: st, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/vitals", h.vitals)
	h.mux.HandleFunc("/api/v1/params", h.params)
	h.mux.HandleFunc("/api/v1/catalog", h.catalog)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// vitals returns GET /api/v1/vitals — the current sample at full precision.
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
	jsonResp(w, http.StatusOK, SampleResponse{
		TS:     s.Timestamp.UTC().Format(time.RFC3339),
		Vitals: s.Values,
	})
}

// params handles GET and PUT /api/v1/params — the slider-driven overrides.
func (h *Handler) params(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		p, err := h.store.Params()
		if err != nil {
			jsonErr(w, http.StatusServiceUnavailable, "state store unreadable")
			return
		}
		jsonResp(w, http.StatusOK, p)

	case http.MethodPut:
		var p vitals.Params
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			jsonErr(w, http.StatusBadRequest, "malformed params body")
			return
		}
		if err := p.Validate(); err != nil {
			jsonErr(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := h.store.PutParams(p); err != nil {
			jsonErr(w, http.StatusServiceUnavailable, "state store unwritable")
			return
		}
		jsonResp(w, http.StatusOK, p.Normalize())

	default:
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// catalog returns GET /api/v1/catalog — the static vitals specifications.
func (h *Handler) catalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	specs := vitals.All()
	out := make([]CatalogEntry, len(specs))
	for i, s := range specs {
		out[i] = CatalogEntry{
			Name:         s.Name,
			Unit:         s.Unit,
			Min:          s.Min,
			Max:          s.Max,
			Mean:         s.Mean,
			Std:          s.Std,
			AbsMin:       s.AbsMin,
			AbsMax:       s.AbsMax,
			ActivityMean: s.ActivityMean,
			SleepMean:    s.SleepMean,
		}
	}
	jsonResp(w, http.StatusOK, out)
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
