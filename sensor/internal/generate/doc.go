// Package generate produces vital-sign samples from the current generation
// parameters. Each sample is an independent draw from a per-vital normal
// distribution, not a random walk; values are deliberately not clamped to
// the catalog's normal ranges — out-of-range draws are how anomalies happen.
package generate
