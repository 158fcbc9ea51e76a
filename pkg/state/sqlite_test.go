package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/vitalsim/vitalsim/pkg/vitals"
)

func newSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSQLiteStore_SampleRoundTrip(t *testing.T) {
	st := newSQLite(t)

	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	want := testSample(ts)
	if err := st.PutSample(want); err != nil {
		t.Fatalf("PutSample: %v", err)
	}

	got, ok, err := st.Sample()
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if !ok {
		t.Fatal("Sample: expected a sample after PutSample")
	}
	if !got.Timestamp.Equal(want.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, want.Timestamp)
	}
	if got.Values[vitals.SystolicBP] != 140.3 {
		t.Errorf("systolic = %v, want 140.3", got.Values[vitals.SystolicBP])
	}
}

func TestSQLiteStore_EmptyMeansNoSample(t *testing.T) {
	st := newSQLite(t)
	_, ok, err := st.Sample()
	if err != nil {
		t.Fatalf("Sample on empty store: %v", err)
	}
	if ok {
		t.Error("Sample on empty store: expected ok=false")
	}
}

func TestSQLiteStore_ParamsRoundTrip(t *testing.T) {
	st := newSQLite(t)

	p := vitals.DefaultParams()
	p.Overrides[vitals.BreathingRate] = vitals.Override{Mean: 30, Std: 2}
	p.Dispersion = 0.25
	if err := st.PutParams(p); err != nil {
		t.Fatalf("PutParams: %v", err)
	}

	got, err := st.Params()
	if err != nil {
		t.Fatalf("Params: %v", err)
	}
	if o := got.Overrides[vitals.BreathingRate]; o.Mean != 30 || o.Std != 2 {
		t.Errorf("breathing rate override = %+v, want mean=30 std=2", o)
	}
	if got.Dispersion != 0.25 {
		t.Errorf("dispersion = %v, want 0.25", got.Dispersion)
	}
	// Normalize guarantees completeness even if the caller stored a sparse map.
	if len(got.Overrides) != vitals.Count() {
		t.Errorf("params has %d overrides, want %d", len(got.Overrides), vitals.Count())
	}
}

func TestOpen_SelectsBackend(t *testing.T) {
	dir := t.TempDir()

	fileStore, err := Open(Options{Backend: BackendFile, Path: dir})
	if err != nil {
		t.Fatalf("Open(file): %v", err)
	}
	if _, ok := fileStore.(*FileStore); !ok {
		t.Errorf("Open(file) = %T, want *FileStore", fileStore)
	}

	sqlStore, err := Open(Options{Backend: BackendSQLite, Path: filepath.Join(dir, "s.db")})
	if err != nil {
		t.Fatalf("Open(sqlite): %v", err)
	}
	defer sqlStore.Close()
	if _, ok := sqlStore.(*SQLiteStore); !ok {
		t.Errorf("Open(sqlite) = %T, want *SQLiteStore", sqlStore)
	}

	if _, err := Open(Options{Backend: "redis", Path: dir}); err == nil {
		t.Error("Open(redis): expected error for unknown backend")
	}
}
