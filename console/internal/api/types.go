package api

// SampleResponse is the payload for GET /api/v1/vitals: the raw,
// full-precision sample the visualization plots.
type SampleResponse struct {
	TS     string             `json:"ts"` // RFC3339
	Vitals map[string]float64 `json:"vitals"`
}

// CatalogEntry is one vital's static specification in GET /api/v1/catalog;
// the UI builds its slider ranges from these.
type CatalogEntry struct {
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	Std          float64 `json:"std"`
	AbsMin       float64 `json:"abs_min"`
	AbsMax       float64 `json:"abs_max"`
	ActivityMean float64 `json:"activity_mean"`
	SleepMean    float64 `json:"sleep_mean"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
