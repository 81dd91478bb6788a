package memory

import (
	"context"
	"sort"
	"sync"

	"chromalab/internal/domain"
	"chromalab/internal/storage"
)

// SummaryStore is an in-memory implementation of storage.SummaryStore.
type SummaryStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Summary // keyed by run id
}

// NewSummaryStore creates a new in-memory summary store.
func NewSummaryStore() *SummaryStore {
	return &SummaryStore{data: make(map[string]*domain.Summary)}
}

// Compile-time interface check.
var _ storage.SummaryStore = (*SummaryStore)(nil)

// Insert adds a summary. Returns ErrDuplicateKey if the run id exists.
func (st *SummaryStore) Insert(_ context.Context, runID string, s *domain.Summary) error {
	if runID == "" || s == nil {
		return storage.ErrInvalidInput
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if _, exists := st.data[runID]; exists {
		return storage.ErrDuplicateKey
	}
	st.data[runID] = copySummary(s)
	return nil
}

// GetByRunID retrieves a summary. Returns ErrNotFound if not exists.
func (st *SummaryStore) GetByRunID(_ context.Context, runID string) (*domain.Summary, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.data[runID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copySummary(s), nil
}

// GetBySampleID retrieves all summaries for a sample, ordered by run id.
func (st *SummaryStore) GetBySampleID(_ context.Context, sampleID string) ([]*domain.Summary, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	var ids []string
	for id, s := range st.data {
		if s.SampleID == sampleID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	out := make([]*domain.Summary, len(ids))
	for i, id := range ids {
		out[i] = copySummary(st.data[id])
	}
	return out, nil
}

// ListRunIDs returns all stored run ids, sorted ascending.
func (st *SummaryStore) ListRunIDs(_ context.Context) ([]string, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	ids := make([]string, 0, len(st.data))
	for id := range st.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// copySummary deep-copies so callers can never mutate stored state.
func copySummary(s *domain.Summary) *domain.Summary {
	cp := *s
	cp.Metadata = make(map[string]string, len(s.Metadata))
	for k, v := range s.Metadata {
		cp.Metadata[k] = v
	}
	cp.Peaks = make([]domain.Peak, len(s.Peaks))
	copy(cp.Peaks, s.Peaks)
	cp.Warnings = make([]domain.Warning, len(s.Warnings))
	copy(cp.Warnings, s.Warnings)
	return &cp
}
