package clickhouse

import (
	"context"
	"fmt"

	"chromalab/internal/domain"
	"chromalab/internal/storage"
)

// TraceStore implements storage.TraceStore using ClickHouse. Trace archives
// are bulk-inserted once per run and read back in point order.
type TraceStore struct {
	conn *Conn
}

// NewTraceStore creates a new TraceStore.
func NewTraceStore(conn *Conn) *TraceStore {
	return &TraceStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TraceStore = (*TraceStore)(nil)

// InsertBulk adds all points of one run. Fails the entire batch on a
// duplicate (run_id, point_index).
func (st *TraceStore) InsertBulk(ctx context.Context, points []*domain.TracePoint) error {
	if len(points) == 0 {
		return nil
	}

	// Intra-batch duplicate check.
	type key struct {
		runID string
		index int
	}
	seen := make(map[key]struct{}, len(points))
	runs := make(map[string]struct{})
	for _, p := range points {
		if p == nil || p.RunID == "" || p.Index < 0 {
			return storage.ErrInvalidInput
		}
		k := key{p.RunID, p.Index}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
		runs[p.RunID] = struct{}{}
	}

	// MergeTree does not enforce uniqueness; refuse runs already archived.
	for runID := range runs {
		exists, err := st.exists(ctx, runID)
		if err != nil {
			return fmt.Errorf("check existing trace: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := st.conn.PrepareBatch(ctx, `
		INSERT INTO trace_points (
			run_id, point_index, retention_time, intensity, baseline
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		err = batch.Append(p.RunID, uint32(p.Index), p.RetentionTime, p.Intensity, p.Baseline)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByRunID retrieves all points for a run, ordered by index ASC.
func (st *TraceStore) GetByRunID(ctx context.Context, runID string) ([]*domain.TracePoint, error) {
	query := `
		SELECT run_id, point_index, retention_time, intensity, baseline
		FROM trace_points
		WHERE run_id = ?
		ORDER BY point_index ASC
	`

	rows, err := st.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query trace by run id: %w", err)
	}
	defer rows.Close()

	var out []*domain.TracePoint
	for rows.Next() {
		var (
			p     domain.TracePoint
			index uint32
		)
		if err := rows.Scan(&p.RunID, &index, &p.RetentionTime, &p.Intensity, &p.Baseline); err != nil {
			return nil, fmt.Errorf("scan trace point: %w", err)
		}
		p.Index = int(index)
		out = append(out, &p)
	}
	return out, rows.Err()
}

// exists checks whether any points for the run are already stored.
func (st *TraceStore) exists(ctx context.Context, runID string) (bool, error) {
	var count uint64
	err := st.conn.QueryRow(ctx,
		`SELECT count(*) FROM trace_points WHERE run_id = ?`, runID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
