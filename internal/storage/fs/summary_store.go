// Package fs persists summaries as JSON files in an output directory, one
// file per run. This is the export surface the review UI and the diagnosis
// collaborator read from.
package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"chromalab/internal/domain"
	"chromalab/internal/storage"
)

// SummaryStore writes each summary to <dir>/<run_id>.json, write-once per
// run. Distinct run ids map to distinct paths, so concurrent runs never
// contend on a file.
type SummaryStore struct {
	dir string
}

// NewSummaryStore creates the output directory if needed.
func NewSummaryStore(dir string) (*SummaryStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &SummaryStore{dir: dir}, nil
}

// Compile-time interface check.
var _ storage.SummaryStore = (*SummaryStore)(nil)

// Insert writes the summary JSON. Returns ErrDuplicateKey if a file for the
// run already exists.
func (st *SummaryStore) Insert(_ context.Context, runID string, s *domain.Summary) error {
	if runID == "" || s == nil || strings.ContainsAny(runID, `/\`) {
		return storage.ErrInvalidInput
	}

	data, err := domain.MarshalSummary(s)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	// O_EXCL enforces write-once at the filesystem level.
	f, err := os.OpenFile(st.path(runID), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("create summary file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write summary file: %w", err)
	}
	return f.Close()
}

// GetByRunID reads one summary file back.
func (st *SummaryStore) GetByRunID(_ context.Context, runID string) (*domain.Summary, error) {
	data, err := os.ReadFile(st.path(runID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("read summary file: %w", err)
	}
	return domain.UnmarshalSummary(data)
}

// GetBySampleID scans the directory for summaries of the given sample.
func (st *SummaryStore) GetBySampleID(ctx context.Context, sampleID string) ([]*domain.Summary, error) {
	ids, err := st.ListRunIDs(ctx)
	if err != nil {
		return nil, err
	}

	var out []*domain.Summary
	for _, id := range ids {
		s, err := st.GetByRunID(ctx, id)
		if err != nil {
			return nil, err
		}
		if s.SampleID == sampleID {
			out = append(out, s)
		}
	}
	return out, nil
}

// ListRunIDs lists the .json files in the directory, sorted ascending.
func (st *SummaryStore) ListRunIDs(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(st.dir)
	if err != nil {
		return nil, fmt.Errorf("read output dir: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

func (st *SummaryStore) path(runID string) string {
	return filepath.Join(st.dir, runID+".json")
}
