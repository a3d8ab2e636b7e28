// Package runstore caches natal snapshots and keeps generated runs in SQLite.
package runstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/prasanthkuna/vedaos/internal/natal"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS natal_snapshots (
	input_key   TEXT PRIMARY KEY,
	birth_utc   TEXT NOT NULL,
	resolution  TEXT NOT NULL,
	core_json   TEXT NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	input_key   TEXT NOT NULL,
	kind        TEXT NOT NULL,
	mode        TEXT,
	as_of       TEXT NOT NULL,
	result_json TEXT NOT NULL,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_input ON runs(input_key, run_id DESC);

CREATE TABLE IF NOT EXISTS provenance_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT,
	input_key   TEXT NOT NULL,
	operation   TEXT NOT NULL,
	params_json TEXT,
	outcome     TEXT NOT NULL,
	reason      TEXT,
	created_at  TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct
// Store persists snapshots and runs in SQLite.
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations. ":memory:" opens a
// private in-memory database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) newID(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), s.entropy).String()
}

// #endregion constructor

// #region natal-cache
// PutNatal stores core under key, replacing any previous snapshot.
func (s *Store) PutNatal(key string, core natal.Core) error {
	body, err := json.Marshal(core)
	if err != nil {
		return fmt.Errorf("marshal natal: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO natal_snapshots (input_key, birth_utc, resolution, core_json, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(input_key) DO UPDATE SET
		   birth_utc = excluded.birth_utc, resolution = excluded.resolution,
		   core_json = excluded.core_json, created_at = excluded.created_at`,
		key, core.BirthUTC.UTC().Format(time.RFC3339Nano), string(core.Resolution), string(body),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("put natal %s: %w", key, err)
	}
	return nil
}

// GetNatal returns the snapshot stored under key, or ErrNotFound.
func (s *Store) GetNatal(key string) (natal.Core, error) {
	var body string
	err := s.db.QueryRow(`SELECT core_json FROM natal_snapshots WHERE input_key = ?`, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return natal.Core{}, fmt.Errorf("natal %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return natal.Core{}, fmt.Errorf("get natal %s: %w", key, err)
	}
	var core natal.Core
	if err := json.Unmarshal([]byte(body), &core); err != nil {
		return natal.Core{}, fmt.Errorf("unmarshal natal: %w", err)
	}
	return core, nil
}

// #endregion natal-cache

// #region runs
// SaveRun assigns an ID and creation time to run and inserts it.
func (s *Store) SaveRun(run Run) (Run, error) {
	now := time.Now().UTC()
	run.ID = s.newID(now)
	run.CreatedAt = now

	var mode interface{}
	if run.Mode != "" {
		mode = run.Mode
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, input_key, kind, mode, as_of, result_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.InputKey, string(run.Kind), mode,
		run.AsOf.UTC().Format(time.RFC3339Nano), run.ResultJSON, now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(id string) (Run, error) {
	row := s.db.QueryRow(
		`SELECT run_id, input_key, kind, mode, as_of, result_json, created_at
		 FROM runs WHERE run_id = ?`, id,
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first. An empty key lists
// runs for every profile.
func (s *Store) ListRuns(inputKey string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT run_id, input_key, kind, mode, as_of, result_json, created_at FROM runs`
	args := []interface{}{}
	if inputKey != "" {
		q += ` WHERE input_key = ?`
		args = append(args, inputKey)
	}
	q += ` ORDER BY run_id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (Run, error) {
	var run Run
	var kind, asOf, created string
	var mode sql.NullString
	if err := row.Scan(&run.ID, &run.InputKey, &kind, &mode, &asOf, &run.ResultJSON, &created); err != nil {
		return Run{}, err
	}
	run.Kind = Kind(kind)
	run.Mode = mode.String
	run.AsOf, _ = time.Parse(time.RFC3339Nano, asOf)
	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return run, nil
}

// #endregion runs
