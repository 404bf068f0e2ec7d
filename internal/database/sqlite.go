// Package database provides SQLite implementation of the Store interface.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/factchecker/newsvet/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			claims_hash TEXT NOT NULL,
			total_claims INTEGER NOT NULL,
			true_count INTEGER NOT NULL,
			false_count INTEGER NOT NULL,
			unverifiable_count INTEGER NOT NULL,
			error_count INTEGER NOT NULL,
			api_calls_used INTEGER NOT NULL,
			fact_check_path TEXT NOT NULL,
			classification_path TEXT NOT NULL,
			processing_time_ms INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_hash ON runs(claims_hash)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun stores a completed pipeline run.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *models.RunSummary) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, claims_hash, total_claims, true_count, false_count,
			unverifiable_count, error_count, api_calls_used, fact_check_path,
			classification_path, processing_time_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.ClaimsHash, run.TotalClaims, run.TrueCount, run.FalseCount,
		run.UnverifiableCount, run.ErrorCount, run.APICallsUsed, run.FactCheckPath,
		run.ClassificationPath, run.ProcessingTimeMs, run.CreatedAt,
	)
	return err
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*models.RunSummary, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, claims_hash, total_claims, true_count, false_count, unverifiable_count,
			error_count, api_calls_used, fact_check_path, classification_path,
			processing_time_ms, created_at
		FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// GetRunByHash retrieves the most recent run for a claims-file hash.
func (s *SQLiteStore) GetRunByHash(ctx context.Context, hash string) (*models.RunSummary, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, claims_hash, total_claims, true_count, false_count, unverifiable_count,
			error_count, api_calls_used, fact_check_path, classification_path,
			processing_time_ms, created_at
		FROM runs WHERE claims_hash = ? ORDER BY created_at DESC LIMIT 1`, hash)
	return scanRun(row)
}

// ListRuns retrieves recent runs with pagination.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit, offset int) ([]*models.RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, claims_hash, total_claims, true_count, false_count, unverifiable_count,
			error_count, api_calls_used, fact_check_path, classification_path,
			processing_time_ms, created_at
		FROM runs ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.RunSummary
	for rows.Next() {
		var run models.RunSummary
		if err := rows.Scan(&run.ID, &run.ClaimsHash, &run.TotalClaims, &run.TrueCount,
			&run.FalseCount, &run.UnverifiableCount, &run.ErrorCount, &run.APICallsUsed,
			&run.FactCheckPath, &run.ClassificationPath, &run.ProcessingTimeMs,
			&run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

func scanRun(row *sql.Row) (*models.RunSummary, error) {
	var run models.RunSummary
	err := row.Scan(&run.ID, &run.ClaimsHash, &run.TotalClaims, &run.TrueCount,
		&run.FalseCount, &run.UnverifiableCount, &run.ErrorCount, &run.APICallsUsed,
		&run.FactCheckPath, &run.ClassificationPath, &run.ProcessingTimeMs, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}
