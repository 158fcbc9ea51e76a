// Package detect scores vitals samples for anomalousness.
//
// detector.go defines the Verdict type, the Detector contract, and the
// startup-time strategy selection between the two implementations.
//
// distance.go scores by standardized Euclidean distance from the catalog's
// resting means; the score is the raw distance with no upper bound.
//
// forest.go holds the extended isolation forest model representation and its
// JSON artifact loader; eif.go walks the loaded ensemble and normalizes the
// average path length to an anomaly probability in [0, 1].
//
// An eif detector whose artifact could not be loaded (missing file, feature
// mismatch) stays runnable but returns ErrModelUnavailable for every sample:
// "no verdict", not "not anomalous".
package detect
