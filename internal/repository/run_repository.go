package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"Mansoor88-6/macro-plus/internal/models"

	"github.com/google/uuid"
)

var ErrRunNotFound = errors.New("playback run not found")

type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a run, assigning it a new id when it has none
func (r *RunRepository) Create(run *models.PlaybackRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	query := `
		INSERT INTO playback_runs (id, macro, speed, repeat_count, started_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, run.ID, run.Macro, run.Speed, run.Repeat, run.StartedAt.UTC()); err != nil {
		return fmt.Errorf("failed to create playback run: %w", err)
	}
	return nil
}

// Finish records the outcome of a run
func (r *RunRepository) Finish(id string, outcome models.RunOutcome) error {
	query := `
		UPDATE playback_runs
		SET finished_at = ?, iterations = ?, events_simulated = ?, key_failures = ?, cancelled = ?
		WHERE id = ?
	`
	result, err := r.db.Exec(query,
		outcome.FinishedAt.UTC(),
		outcome.Iterations,
		outcome.EventsSimulated,
		outcome.KeyFailures,
		outcome.Cancelled,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to finish playback run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

func (r *RunRepository) GetByID(id string) (*models.PlaybackRun, error) {
	query := `
		SELECT id, macro, speed, repeat_count, started_at, finished_at, iterations, events_simulated, key_failures, cancelled
		FROM playback_runs
		WHERE id = ?
	`
	run, err := scanRun(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get playback run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs first. An empty macro lists runs of all macros.
func (r *RunRepository) List(macro string, limit int) ([]*models.PlaybackRun, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, macro, speed, repeat_count, started_at, finished_at, iterations, events_simulated, key_failures, cancelled
		FROM playback_runs
		WHERE (? = '' OR macro = ?)
		ORDER BY started_at DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, macro, macro, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query playback runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.PlaybackRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playback run: %w", err)
		}
		runs = append(runs, run)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.PlaybackRun, error) {
	var run models.PlaybackRun
	var finishedAt sql.NullTime
	err := row.Scan(
		&run.ID,
		&run.Macro,
		&run.Speed,
		&run.Repeat,
		&run.StartedAt,
		&finishedAt,
		&run.Iterations,
		&run.EventsSimulated,
		&run.KeyFailures,
		&run.Cancelled,
	)
	if err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		t := finishedAt.Time
		run.FinishedAt = &t
	}
	return &run, nil
}
