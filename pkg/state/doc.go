// Package state implements the runtime state shared between the sensor and
// console processes: the most recent vitals sample and the current
// generation-parameter overrides.
//
// The two processes have no shared address space, so every backend persists
// its slots and publishes writes atomically — a reader in the other process
// either sees the previous document or the new one, never a torn mix.
//
// store.go defines the Store contract and the backend selector.
// file.go is the default backend: one JSON document per slot, written to a
// temp file in the same directory and renamed into place.
// sqlite.go is the alternative backend for hosts where renames are not
// atomic (network filesystems); it relies on SQLite's own locking.
// watch.go adds fsnotify-based change notification on top of the file
// backend so readers can react faster than their polling interval.
package state
