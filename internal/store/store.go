// Package store archives simulation runs in a local sqlite database so
// parameter studies can be listed and exported after the fact.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound indicates an unknown run id.
var ErrNotFound = errors.New("store: run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	config     TEXT NOT NULL,
	pulse_time REAL NOT NULL,
	ix         REAL NOT NULL,
	iy         REAL NOT NULL,
	iz         REAL NOT NULL,
	purity     REAL NOT NULL
);`

// Run is one archived evolution: the configuration snapshot (yaml) and
// the measured polarization of the final state.
type Run struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Config    string    `json:"config"`
	PulseTime float64   `json:"pulse_time"`
	Ix        float64   `json:"ix"`
	Iy        float64   `json:"iy"`
	Iz        float64   `json:"iz"`
	Purity    float64   `json:"purity"`
}

// Store wraps the sqlite handle.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the archive at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save archives a run and returns its generated id.
func (s *Store) Save(run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (id, created_at, config, pulse_time, ix, iy, iz, purity)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Format(time.RFC3339Nano), run.Config,
		run.PulseTime, run.Ix, run.Iy, run.Iz, run.Purity,
	)
	if err != nil {
		return "", fmt.Errorf("store: save run: %w", err)
	}
	return run.ID, nil
}

// List returns all runs, newest first.
func (s *Store) List() ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, created_at, config, pulse_time, ix, iy, iz, purity
		 FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns one run by id.
func (s *Store) Get(id string) (Run, error) {
	row := s.db.QueryRow(
		`SELECT id, created_at, config, pulse_time, ix, iy, iz, purity
		 FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

// ExportJSON writes one run as indented JSON.
func (s *Store) ExportJSON(w io.Writer, id string) error {
	run, err := s.Get(id)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var run Run
	var created string
	if err := row.Scan(&run.ID, &created, &run.Config, &run.PulseTime,
		&run.Ix, &run.Iy, &run.Iz, &run.Purity); err != nil {
		return Run{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Run{}, fmt.Errorf("store: bad timestamp %q: %w", created, err)
	}
	run.CreatedAt = ts
	return run, nil
}
