package fs

import (
	"context"
	"errors"
	"testing"

	"chromalab/internal/domain"
	"chromalab/internal/storage"
)

func testSummary(sampleID string) *domain.Summary {
	return &domain.Summary{
		SampleID:  sampleID,
		Metadata:  map[string]string{"run_date": "20240301", "channel": "FID1A"},
		Peaks:     []domain.Peak{{RetentionTime: 5, Height: 10, Area: 20, Width: 2, StartTime: 4, EndTime: 6}},
		TotalArea: 20,
	}
}

func TestSummaryStore_WriteOnceRoundTrip(t *testing.T) {
	store, err := NewSummaryStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := store.Insert(ctx, "run-1", testSummary("s1")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByRunID(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if got.SampleID != "s1" || got.TotalArea != 20 || len(got.Peaks) != 1 {
		t.Errorf("round-trip mismatch: %+v", got)
	}

	// Second write for the same run must refuse.
	err = store.Insert(ctx, "run-1", testSummary("s1"))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestSummaryStore_NotFound(t *testing.T) {
	store, err := NewSummaryStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_, err = store.GetByRunID(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSummaryStore_RejectsPathTraversal(t *testing.T) {
	store, err := NewSummaryStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	err = store.Insert(context.Background(), "../evil", testSummary("s1"))
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSummaryStore_ListAndGetBySample(t *testing.T) {
	store, err := NewSummaryStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := store.Insert(ctx, "run-b", testSummary("s1")); err != nil {
		t.Fatal(err)
	}
	if err := store.Insert(ctx, "run-a", testSummary("s2")); err != nil {
		t.Fatal(err)
	}

	ids, err := store.ListRunIDs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "run-a" || ids[1] != "run-b" {
		t.Errorf("unexpected ids: %v", ids)
	}

	got, err := store.GetBySampleID(ctx, "s2")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].SampleID != "s2" {
		t.Errorf("unexpected summaries: %+v", got)
	}
}
