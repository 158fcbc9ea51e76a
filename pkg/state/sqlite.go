package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/vitalsim/vitalsim/pkg/vitals"
)

// Slot keys in the kv table.
const (
	keySample = "sample"
	keyParams = "params"
)

// SQLiteStore keeps the slots in a single-table SQLite database. SQLite's
// file locking makes each write atomic across processes; the busy_timeout
// pragma makes concurrent writers queue instead of failing immediately.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed initializes) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("state: sqlite backend requires a database path")
	}
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("state: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	const schema = `CREATE TABLE IF NOT EXISTS slots(
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("state: init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Sample() (vitals.Sample, bool, error) {
	var out vitals.Sample
	ok, err := s.read(keySample, &out)
	return out, ok, err
}

func (s *SQLiteStore) PutSample(smp vitals.Sample) error {
	return s.write(keySample, smp)
}

func (s *SQLiteStore) Params() (vitals.Params, error) {
	var p vitals.Params
	ok, err := s.read(keyParams, &p)
	if err != nil {
		return vitals.Params{}, err
	}
	if !ok {
		return vitals.DefaultParams(), nil
	}
	return p.Normalize(), nil
}

func (s *SQLiteStore) PutParams(p vitals.Params) error {
	return s.write(keyParams, p.Normalize())
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) read(key string, v any) (bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM slots WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("state: read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("state: decode %s: %w", key, err)
	}
	return true, nil
}

func (s *SQLiteStore) write(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("state: encode %s: %w", key, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO slots(key, value, updated_at) VALUES(?, ?, unixepoch())
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data),
	)
	if err != nil {
		return fmt.Errorf("state: write %s: %w", key, err)
	}
	return nil
}
