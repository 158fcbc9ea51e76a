// Package vitals defines the shared Go types used by both the sensor and
// console processes: the static catalog of monitored vital signs, the
// per-tick Sample, and the mutable generation-parameter overrides.
// These are the canonical in-memory representations, separate from the JSON
// documents the state store persists.
package vitals
