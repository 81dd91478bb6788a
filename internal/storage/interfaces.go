package storage

import (
	"context"

	"chromalab/internal/domain"
)

// SummaryStore persists chromatogram summaries, write-once per run.
type SummaryStore interface {
	// Insert adds a summary under its run id. Returns ErrDuplicateKey if
	// the run id already exists.
	Insert(ctx context.Context, runID string, s *domain.Summary) error

	// GetByRunID retrieves a summary. Returns ErrNotFound if not exists.
	GetByRunID(ctx context.Context, runID string) (*domain.Summary, error)

	// GetBySampleID retrieves all summaries recorded for a sample,
	// ordered by run id.
	GetBySampleID(ctx context.Context, sampleID string) ([]*domain.Summary, error)

	// ListRunIDs returns all stored run ids, sorted ascending.
	ListRunIDs(ctx context.Context) ([]string, error)
}

// TraceStore archives the raw trace points of processed runs.
type TraceStore interface {
	// InsertBulk adds all points of one run. Fails the entire batch on a
	// duplicate (run_id, index).
	InsertBulk(ctx context.Context, points []*domain.TracePoint) error

	// GetByRunID retrieves all points for a run, ordered by index ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.TracePoint, error)
}
