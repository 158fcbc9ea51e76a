package api

// VersionResponse is the payload for GET /api/v1/version.
type VersionResponse struct {
	Version string `json:"version"`
}

// VitalsResponse is the payload for GET /api/v1/vitals: the latest sample as
// a wearable would report it — integer readings except body temperature,
// which keeps one decimal.
type VitalsResponse struct {
	TS               string  `json:"ts"` // RFC3339
	HeartRate        int     `json:"heart_rate"`
	OxygenSaturation int     `json:"oxygen_saturation"`
	BreathingRate    int     `json:"breathing_rate"`
	SystolicBP       int     `json:"systolic_bp"`
	DiastolicBP      int     `json:"diastolic_bp"`
	BodyTemperature  float64 `json:"body_temperature"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
