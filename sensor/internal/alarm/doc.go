// Package alarm delivers anomaly alerts to a configured webhook endpoint.
//
// Delivery is fire-and-forget from the pipeline's point of view: Notify only
// enqueues, a single worker goroutine (Run) posts the JSON payload with one
// retry, and every failure ends in a log line and a metric, never in the
// generation loop.
package alarm
