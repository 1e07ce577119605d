// Package store persists simulation runs and their day-by-day histories in a
// SQLite database, so runs can be listed and re-plotted without re-simulating.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/inference-sim/compartment-sim/sim"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// RunRecord describes one stored run. ID and CreatedAt are assigned by SaveRun.
type RunRecord struct {
	ID            string
	Label         string
	Horizon       int
	DaysSimulated int
	HaltReason    string
	Config        sim.TransitionConfig
	CreatedAt     time.Time
}

// RecordFromSimulator captures the identifying fields of a finished run.
func RecordFromSimulator(s *sim.Simulator) RunRecord {
	return RunRecord{
		Label:         s.Label(),
		Horizon:       s.Horizon(),
		DaysSimulated: s.DaysSimulated(),
		HaltReason:    s.HaltReason().String(),
		Config:        s.Config(),
	}
}

// Store is a SQLite-backed run store. It is safe for concurrent use; writes
// are serialized on a single connection.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveRun stores rec and its history in one transaction and returns the new
// run ID. history[d] is the population after day d.
func (s *Store) SaveRun(ctx context.Context, rec RunRecord, history []sim.Population) (string, error) {
	cfg, err := json.Marshal(rec.Config)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	id := uuid.NewString()
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, label, horizon, days_simulated, halt_reason, config_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, rec.Label, rec.Horizon, rec.DaysSimulated, rec.HaltReason, string(cfg),
		created.UTC().Format(time.RFC3339Nano)); err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO history (run_id, day, compartment, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare history insert: %w", err)
	}
	defer stmt.Close()
	for day, p := range history {
		for c, v := range p {
			if _, err := stmt.ExecContext(ctx, id, day, sim.Compartment(c).String(), v); err != nil {
				return "", fmt.Errorf("failed to insert history day %d: %w", day, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return id, nil
}

// SaveSimulation stores a simulator's record and full history.
func (s *Store) SaveSimulation(ctx context.Context, run *sim.Simulator) (string, error) {
	history := make([]sim.Population, 0, run.History().Len())
	for _, p := range run.History().All() {
		history = append(history, p)
	}
	return s.SaveRun(ctx, RecordFromSimulator(run), history)
}

// LoadRun returns the record with the given ID, or ErrRunNotFound.
func (s *Store) LoadRun(ctx context.Context, id string) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, label, horizon, days_simulated, halt_reason, config_json, created_at
		 FROM runs WHERE id = ?`, id)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// LoadHistory returns a run's snapshots in day order.
func (s *Store) LoadHistory(ctx context.Context, id string) ([]sim.Population, error) {
	if _, err := s.LoadRun(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT day, compartment, value FROM history WHERE run_id = ? ORDER BY day`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var history []sim.Population
	for rows.Next() {
		var (
			day   int
			name  string
			value float64
		)
		if err := rows.Scan(&day, &name, &value); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		c, err := sim.ParseCompartment(name)
		if err != nil {
			return nil, fmt.Errorf("run %s day %d: %w", id, day, err)
		}
		for len(history) <= day {
			history = append(history, sim.Population{})
		}
		history[day][c] = value
	}
	return history, rows.Err()
}

// ListRuns returns every stored run, oldest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, horizon, days_simulated, halt_reason, config_json, created_at
		 FROM runs ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *rec)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run and its history.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*RunRecord, error) {
	var (
		rec     RunRecord
		cfg     string
		created string
	)
	if err := row.Scan(&rec.ID, &rec.Label, &rec.Horizon, &rec.DaysSimulated, &rec.HaltReason, &cfg, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	if err := json.Unmarshal([]byte(cfg), &rec.Config); err != nil {
		return nil, fmt.Errorf("run %s: unmarshal config: %w", rec.ID, err)
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("run %s: parse created_at: %w", rec.ID, err)
	}
	rec.CreatedAt = t
	return &rec, nil
}
