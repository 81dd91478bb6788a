package postgres

import (
	"context"
	"fmt"

	"chromalab/internal/domain"
	"chromalab/internal/storage"
)

// SummaryStore implements storage.SummaryStore using PostgreSQL. The
// canonical JSON record is stored as JSONB next to the queryable key
// columns.
type SummaryStore struct {
	pool *Pool
}

// NewSummaryStore creates a new SummaryStore.
func NewSummaryStore(pool *Pool) *SummaryStore {
	return &SummaryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SummaryStore = (*SummaryStore)(nil)

// Insert adds a summary. Returns ErrDuplicateKey if the run id exists.
func (st *SummaryStore) Insert(ctx context.Context, runID string, s *domain.Summary) error {
	if runID == "" || s == nil {
		return storage.ErrInvalidInput
	}

	data, err := domain.MarshalSummary(s)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	query := `
		INSERT INTO chromatogram_summaries (run_id, sample_id, total_area, peak_count, summary)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = st.pool.Exec(ctx, query, runID, s.SampleID, s.TotalArea, len(s.Peaks), data)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert summary: %w", err)
	}
	return nil
}

// GetByRunID retrieves a summary. Returns ErrNotFound if not exists.
func (st *SummaryStore) GetByRunID(ctx context.Context, runID string) (*domain.Summary, error) {
	var data []byte
	err := st.pool.QueryRow(ctx,
		`SELECT summary FROM chromatogram_summaries WHERE run_id = $1`, runID,
	).Scan(&data)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("query summary by run id: %w", err)
	}
	return domain.UnmarshalSummary(data)
}

// GetBySampleID retrieves all summaries for a sample, ordered by run id.
func (st *SummaryStore) GetBySampleID(ctx context.Context, sampleID string) ([]*domain.Summary, error) {
	rows, err := st.pool.Query(ctx,
		`SELECT summary FROM chromatogram_summaries WHERE sample_id = $1 ORDER BY run_id ASC`, sampleID)
	if err != nil {
		return nil, fmt.Errorf("query summaries by sample id: %w", err)
	}
	defer rows.Close()

	var out []*domain.Summary
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		s, err := domain.UnmarshalSummary(data)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListRunIDs returns all stored run ids, sorted ascending.
func (st *SummaryStore) ListRunIDs(ctx context.Context) ([]string, error) {
	rows, err := st.pool.Query(ctx,
		`SELECT run_id FROM chromatogram_summaries ORDER BY run_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query run ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
