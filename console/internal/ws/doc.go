// Package ws broadcasts the current vitals sample to connected WebSocket
// clients so the visualization updates without polling. Broadcasts fire on a
// fallback ticker and immediately when the state watcher reports a fresh
// sample.
package ws
