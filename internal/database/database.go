// Package database provides the data access layer for pipeline run history.
package database

import (
	"context"

	"github.com/factchecker/newsvet/internal/models"
)

// Store defines the interface for run persistence.
type Store interface {
	SaveRun(ctx context.Context, run *models.RunSummary) error
	GetRun(ctx context.Context, id string) (*models.RunSummary, error)
	GetRunByHash(ctx context.Context, hash string) (*models.RunSummary, error)
	ListRuns(ctx context.Context, limit, offset int) ([]*models.RunSummary, error)

	// Lifecycle
	Close() error
	Migrate() error
}
