/*
Package sqlite exports year-end results to a SQLite database.

PURPOSE:
  Records one row per year-end run and one snapshot row per passenger in
  that run, so the outcome of a year can be audited after the process
  exits. The tracker never reads these rows back; each run starts from an
  empty tracker.

KEY TABLES:
  year_end_runs:        One row per EndYear (source file, counts, timestamp)
  passenger_snapshots:  Final tier, counts and mileage per passenger per run

APPEND-ONLY:
  Runs are never updated. Exporting the same year twice creates two runs
  with distinct IDs.

WAL MODE:
  Opened with WAL journaling and foreign keys on.

USAGE:
  store, err := sqlite.New("./rewards.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  run, err := store.SaveYearEnd(ctx, "flight-data.txt", result, tr.Records())

SEE ALSO:
  - tracker/tracker.go: Produces the records and YearEndResult
  - cmd/mileage/run.go: Calls SaveYearEnd when store.path is set
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/cancellation-rewards/tier"
	"github.com/warp/cancellation-rewards/tracker"
)

// Store persists year-end runs.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (and migrates) the database at dbPath.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// An in-memory database lives only as long as its one connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS year_end_runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		passengers INTEGER NOT NULL,
		promoted INTEGER NOT NULL,
		total_miles INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_year_end_runs_created
		ON year_end_runs(created_at);

	CREATE TABLE IF NOT EXISTS passenger_snapshots (
		run_id TEXT NOT NULL REFERENCES year_end_runs(id),
		passenger_id TEXT NOT NULL,
		tier TEXT NOT NULL,
		total_flights INTEGER NOT NULL,
		cancelled_flights INTEGER NOT NULL,
		miles INTEGER NOT NULL,
		complaints INTEGER NOT NULL,
		has_multiplier BOOLEAN NOT NULL,
		PRIMARY KEY (run_id, passenger_id)
	);

	CREATE INDEX IF NOT EXISTS idx_passenger_snapshots_passenger
		ON passenger_snapshots(passenger_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// YEAR-END RUNS
// =============================================================================

// Run is a stored year-end run.
type Run struct {
	ID         string
	Source     string
	Passengers int
	Promoted   int
	TotalMiles int64
	CreatedAt  time.Time
}

// SaveYearEnd writes a run and all its passenger snapshots atomically.
func (s *Store) SaveYearEnd(ctx context.Context, source string, result tracker.YearEndResult, records []tracker.Record) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run := &Run{
		ID:         uuid.NewString(),
		Source:     source,
		Passengers: len(records),
		Promoted:   len(result.Promotions),
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	for _, r := range records {
		run.TotalMiles += int64(r.Miles)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO year_end_runs (id, source, passengers, promoted, total_miles, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.Passengers, run.Promoted, run.TotalMiles,
		run.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO passenger_snapshots (run_id, passenger_id, tier, total_flights,
			cancelled_flights, miles, complaints, has_multiplier)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			run.ID, r.ID, r.Tier.String(), r.TotalFlights,
			r.CancelledFlights, r.Miles, r.Complaints, r.HasMultiplier,
		); err != nil {
			return nil, fmt.Errorf("insert snapshot %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return run, nil
}

// GetRun returns the run with id, or nil if there is none.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var r Run
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, passengers, promoted, total_miles, created_at
		 FROM year_end_runs WHERE id = ?`, id,
	).Scan(&r.ID, &r.Source, &r.Passengers, &r.Promoted, &r.TotalMiles, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &r, nil
}

// ListRuns returns every run, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, passengers, promoted, total_miles, created_at
		FROM year_end_runs
		ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Source, &r.Passengers, &r.Promoted, &r.TotalMiles, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// =============================================================================
// PASSENGER SNAPSHOTS
// =============================================================================

// LoadSnapshots returns the passenger records of a run ordered by id.
func (s *Store) LoadSnapshots(ctx context.Context, runID string) ([]tracker.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT passenger_id, tier, total_flights, cancelled_flights, miles, complaints, has_multiplier
		FROM passenger_snapshots
		WHERE run_id = ?
		ORDER BY passenger_id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tracker.Record
	for rows.Next() {
		var r tracker.Record
		var tierName string
		if err := rows.Scan(&r.ID, &tierName, &r.TotalFlights, &r.CancelledFlights,
			&r.Miles, &r.Complaints, &r.HasMultiplier); err != nil {
			return nil, err
		}
		if r.Tier, err = tier.ParseVariant(tierName); err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
