package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vitalsim/vitalsim/pkg/vitals"
)

// Slot file names inside the state directory. Exported so Watch callers can
// tell which slot a change event refers to.
const (
	SampleSlot = "sample.json"
	ParamsSlot = "params.json"
)

// FileStore keeps each slot as a JSON document in a shared directory.
// Writes go to a temp file in the same directory and are renamed into place,
// so a reader in another process never observes a partially written document.
type FileStore struct {
	dir string
}

// NewFileStore creates the state directory if needed and returns a store
// rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("state: file backend requires a directory path")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("state: create dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the state directory, for callers that want to Watch it.
func (f *FileStore) Dir() string { return f.dir }

func (f *FileStore) Sample() (vitals.Sample, bool, error) {
	var s vitals.Sample
	ok, err := f.read(SampleSlot, &s)
	return s, ok, err
}

func (f *FileStore) PutSample(s vitals.Sample) error {
	return f.write(SampleSlot, s)
}

func (f *FileStore) Params() (vitals.Params, error) {
	var p vitals.Params
	ok, err := f.read(ParamsSlot, &p)
	if err != nil {
		return vitals.Params{}, err
	}
	if !ok {
		return vitals.DefaultParams(), nil
	}
	return p.Normalize(), nil
}

func (f *FileStore) PutParams(p vitals.Params) error {
	return f.write(ParamsSlot, p.Normalize())
}

func (f *FileStore) Close() error { return nil }

// read unmarshals the named slot into v. ok is false when the slot has never
// been written.
func (f *FileStore) read(name string, v any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(f.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("state: read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("state: decode %s: %w", name, err)
	}
	return true, nil
}

// write publishes v into the named slot via temp-file-then-rename. The temp
// file lives in the state directory itself so the rename stays on one
// filesystem and therefore atomic.
func (f *FileStore) write(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("state: encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(f.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("state: temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("state: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("state: close %s: %w", name, err)
	}

	if err := os.Rename(tmpName, filepath.Join(f.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("state: publish %s: %w", name, err)
	}
	return nil
}
