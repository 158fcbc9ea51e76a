// Package config loads and validates the sensor process configuration.
//
// Settings come from a YAML file with sensible defaults; a small set of
// environment variables override the file so deployments can retune the
// pipeline without editing it: ANOMALY_DETECTION_METHOD, DISTANCE_THRESHOLD,
// DISTANCE_WEIGHTING, EIF_THRESHOLD, EIF_MODEL_PATH, ALARM_ENDPOINT_URL,
// DATA_GENERATION_INTERVAL_SECONDS, STATE_BACKEND, STATE_PATH.
//
// Invalid values (unknown method, non-numeric threshold, malformed endpoint
// URL) are configuration errors: Load fails and the process refuses to start
// the generation loop.
package config
