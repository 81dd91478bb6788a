package memory

import (
	"context"
	"sort"
	"sync"

	"chromalab/internal/domain"
	"chromalab/internal/storage"
)

// TraceStore is an in-memory implementation of storage.TraceStore.
type TraceStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.TracePoint // keyed by run id
	seen map[traceKey]struct{}
}

type traceKey struct {
	runID string
	index int
}

// NewTraceStore creates a new in-memory trace store.
func NewTraceStore() *TraceStore {
	return &TraceStore{
		data: make(map[string][]*domain.TracePoint),
		seen: make(map[traceKey]struct{}),
	}
}

// Compile-time interface check.
var _ storage.TraceStore = (*TraceStore)(nil)

// InsertBulk adds all points of one run. Fails the entire batch on any
// duplicate (run_id, index), including intra-batch duplicates.
func (st *TraceStore) InsertBulk(_ context.Context, points []*domain.TracePoint) error {
	if len(points) == 0 {
		return nil
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	batch := make(map[traceKey]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.RunID == "" || p.Index < 0 {
			return storage.ErrInvalidInput
		}
		k := traceKey{p.RunID, p.Index}
		if _, exists := st.seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batch[k]; exists {
			return storage.ErrDuplicateKey
		}
		batch[k] = struct{}{}
	}

	for _, p := range points {
		cp := *p
		st.data[p.RunID] = append(st.data[p.RunID], &cp)
		st.seen[traceKey{p.RunID, p.Index}] = struct{}{}
	}
	return nil
}

// GetByRunID retrieves all points for a run, ordered by index ASC.
func (st *TraceStore) GetByRunID(_ context.Context, runID string) ([]*domain.TracePoint, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	points := st.data[runID]
	out := make([]*domain.TracePoint, len(points))
	for i, p := range points {
		cp := *p
		out[i] = &cp
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}
