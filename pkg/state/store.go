package state

import (
	"fmt"

	"github.com/vitalsim/vitalsim/pkg/vitals"
)

// Supported backend names, as they appear in config.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Store is the cross-process shared state contract. Each method is atomic in
// isolation; no transaction spans multiple calls.
type Store interface {
	// Sample returns the most recently published sample. ok is false when no
	// sample has been published yet; err is reserved for backend failures,
	// which callers should treat the same as "no prior sample".
	Sample() (s vitals.Sample, ok bool, err error)

	// PutSample atomically replaces the current sample.
	PutSample(vitals.Sample) error

	// Params returns the current generation parameters. When none have been
	// written yet the catalog defaults are returned.
	Params() (vitals.Params, error)

	// PutParams atomically replaces the generation parameters.
	PutParams(vitals.Params) error

	Close() error
}

// Options selects and configures a backend.
type Options struct {
	// Backend is "file" or "sqlite".
	Backend string

	// Path is the state directory for the file backend, or the database file
	// for the sqlite backend.
	Path string
}

// Open constructs the configured backend.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendFile, "":
		return NewFileStore(opts.Path)
	case BackendSQLite:
		return NewSQLiteStore(opts.Path)
	default:
		return nil, fmt.Errorf("state: unknown backend %q", opts.Backend)
	}
}
