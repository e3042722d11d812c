package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/daap14/clustersmoke/internal/report"
)

// ErrNotFound is returned when a run is not in the history.
var ErrNotFound = errors.New("run not found")

// Default and maximum page sizes for List.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Repository stores finished smoke runs.
type Repository interface {
	Save(ctx context.Context, run *report.Run) error
	GetByID(ctx context.Context, id uuid.UUID) (*report.Run, error)
	List(ctx context.Context, limit int) ([]report.Run, error)
}

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Save inserts a finished run. Results are stored as a JSONB array.
func (r *PostgresRepository) Save(ctx context.Context, run *report.Run) error {
	results, err := json.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}

	query := `
		INSERT INTO smoke_runs (id, trigger, started_at, finished_at, passed, results)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.pool.Exec(ctx, query,
		run.ID,
		run.Trigger,
		run.StartedAt,
		run.FinishedAt,
		run.Passed(),
		results,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// GetByID retrieves a single run.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*report.Run, error) {
	query := `
		SELECT id, trigger, started_at, finished_at, results
		FROM smoke_runs
		WHERE id = $1`

	run, err := scanRun(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs, newest first.
func (r *PostgresRepository) List(ctx context.Context, limit int) ([]report.Run, error) {
	limit = clampLimit(limit)

	query := `
		SELECT id, trigger, started_at, finished_at, results
		FROM smoke_runs
		ORDER BY started_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	runs := []report.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run rows: %w", err)
	}

	return runs, nil
}

func scanRun(row pgx.Row) (*report.Run, error) {
	var (
		run     report.Run
		results []byte
	)
	if err := row.Scan(&run.ID, &run.Trigger, &run.StartedAt, &run.FinishedAt, &results); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(results, &run.Results); err != nil {
		return nil, fmt.Errorf("decoding results: %w", err)
	}
	run.StartedAt = run.StartedAt.UTC()
	run.FinishedAt = run.FinishedAt.UTC()
	return &run, nil
}

func clampLimit(limit int) int {
	if limit < 1 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
