// Package db provides PostgreSQL persistence for recommendation runs and their artifacts.
package db

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// maxConns bounds the pool; runs write a handful of artifacts each
const maxConns = 10

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}
	if config.MaxConns > maxConns {
		config.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the run and artifact tables if they do not exist
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// CreateRun creates a running recommendation run and returns its ID
func (db *DB) CreateRun(ctx context.Context, careerField, major string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO recommendation_runs (career_field, major, status)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		careerField, major, StatusRunning,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a run finished with status. errMessage is stored for failed runs.
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status, errMessage string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE recommendation_runs SET status = $1, error_message = NULLIF($2, ''), completed_at = NOW() WHERE id = $3`,
		status, errMessage, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to complete run: run %s not found", runID)
	}
	return nil
}

// SaveArtifact stores content as the JSON artifact of a run step, replacing any previous one
func (db *DB) SaveArtifact(ctx context.Context, runID uuid.UUID, step string, content any) error {
	payload, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact %s: %w", step, err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO run_artifacts (run_id, step, category, content)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (run_id, step) DO UPDATE SET category = $3, content = $4, created_at = NOW()`,
		runID, step, CategoryForStep(step), payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", step, err)
	}
	return nil
}

// GetArtifact returns the raw JSON of a run step, or nil when there is none
func (db *DB) GetArtifact(ctx context.Context, runID uuid.UUID, step string) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM run_artifacts WHERE run_id = $1 AND step = $2`, runID, step,
	).Scan(&content)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact %s: %w", step, err)
	}
	return content, nil
}

const runColumns = `id, career_field, major, status, error_message, created_at, completed_at`

func scanRun(row pgx.CollectableRow) (Run, error) {
	var run Run
	err := row.Scan(&run.ID, &run.CareerField, &run.Major, &run.Status, &run.ErrorMessage, &run.CreatedAt, &run.CompletedAt)
	return run, err
}

// GetRun returns a run by ID, or nil when it does not exist
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	rows, _ := db.pool.Query(ctx, `SELECT `+runColumns+` FROM recommendation_runs WHERE id = $1`, runID)
	run, err := pgx.CollectExactlyOneRow(rows, scanRun)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, _ := db.pool.Query(ctx,
		`SELECT `+runColumns+` FROM recommendation_runs ORDER BY created_at DESC LIMIT $1`, limit)
	runs, err := pgx.CollectRows(rows, scanRun)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// ListArtifacts returns the artifacts stored for a run in creation order
func (db *DB) ListArtifacts(ctx context.Context, runID uuid.UUID) ([]ArtifactSummary, error) {
	rows, _ := db.pool.Query(ctx,
		`SELECT id, step, category, created_at FROM run_artifacts WHERE run_id = $1 ORDER BY created_at ASC`, runID)
	artifacts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ArtifactSummary, error) {
		var a ArtifactSummary
		err := row.Scan(&a.ID, &a.Step, &a.Category, &a.CreatedAt)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	return artifacts, nil
}
