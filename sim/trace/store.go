package trace

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store persists episode traces in a SQLite database. Writes are
// synchronous; trace volume is per tool call, not per simulated event, so
// there is nothing to buffer.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) a trace database at path.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	// WAL is much faster for append-style workloads.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS episodes (
	id                 TEXT PRIMARY KEY,
	seed               INTEGER NOT NULL,
	agent              TEXT NOT NULL,
	days               INTEGER NOT NULL,
	steps              INTEGER NOT NULL,
	units_sold         INTEGER NOT NULL,
	final_net_worth    REAL NOT NULL,
	min_net_worth      REAL NOT NULL,
	termination_reason TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS steps (
	episode_id TEXT NOT NULL REFERENCES episodes(id),
	step       INTEGER NOT NULL,
	tool       TEXT NOT NULL,
	args       TEXT NOT NULL,
	result     TEXT NOT NULL,
	day        INTEGER NOT NULL,
	net_worth  REAL NOT NULL,
	terminated INTEGER NOT NULL,
	PRIMARY KEY (episode_id, step)
);
CREATE INDEX IF NOT EXISTS idx_steps_tool ON steps(tool);
`
	_, err := db.Exec(schema)
	return err
}

// SaveEpisode writes one finished trace in a single transaction.
func (s *Store) SaveEpisode(t *EpisodeTrace) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	e := t.Episode
	if _, err := tx.Exec(
		`INSERT INTO episodes (id, seed, agent, days, steps, units_sold, final_net_worth, min_net_worth, termination_reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Seed, e.Agent, e.Days, e.Steps, e.UnitsSold, e.FinalNetWorth, e.MinNetWorth, e.TerminationReason,
	); err != nil {
		return fmt.Errorf("insert episode %s: %w", e.ID, err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO steps (episode_id, step, tool, args, result, day, net_worth, terminated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, rec := range t.Steps {
		args, err := json.Marshal(rec.Args)
		if err != nil {
			return fmt.Errorf("marshal args step %d: %w", rec.Step, err)
		}
		if _, err := stmt.Exec(e.ID, rec.Step, rec.Tool, string(args), rec.Result, rec.Day, rec.NetWorth, boolToInt(rec.Terminated)); err != nil {
			return fmt.Errorf("insert step %d: %w", rec.Step, err)
		}
	}
	return tx.Commit()
}

// Episodes returns all stored episode summaries ordered by ID.
func (s *Store) Episodes() ([]EpisodeRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, seed, agent, days, steps, units_sold, final_net_worth, min_net_worth, termination_reason
		 FROM episodes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EpisodeRecord
	for rows.Next() {
		var e EpisodeRecord
		if err := rows.Scan(&e.ID, &e.Seed, &e.Agent, &e.Days, &e.Steps, &e.UnitsSold,
			&e.FinalNetWorth, &e.MinNetWorth, &e.TerminationReason); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
