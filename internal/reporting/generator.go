package reporting

import (
	"context"
	"time"

	"chromalab/internal/storage"
)

// Generator produces reports from stored summaries.
type Generator struct {
	summaryStore storage.SummaryStore
	now          func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(summaryStore storage.SummaryStore) *Generator {
	return &Generator{
		summaryStore: summaryStore,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate loads every stored summary and assembles the batch report.
// failures are appended as reported by the batch, typically for files that
// never produced a summary.
func (g *Generator) Generate(ctx context.Context, failures []FailureRow) (*Report, error) {
	runIDs, err := g.summaryStore.ListRunIDs(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{
		GeneratedAt: g.now(),
		Failures:    failures,
	}

	// ListRunIDs is sorted ascending, which fixes the row order; peaks
	// within one run are already ascending by retention time.
	for _, runID := range runIDs {
		s, err := g.summaryStore.GetByRunID(ctx, runID)
		if err != nil {
			return nil, err
		}

		report.Runs = append(report.Runs, RunRow{
			RunID:     runID,
			SampleID:  s.SampleID,
			RunDate:   s.Metadata["run_date"],
			Channel:   s.Metadata["channel"],
			PeakCount: len(s.Peaks),
			TotalArea: s.TotalArea,
			Warnings:  len(s.Warnings),
		})
		for _, p := range s.Peaks {
			report.Peaks = append(report.Peaks, PeakRow{
				RunID:         runID,
				SampleID:      s.SampleID,
				RetentionTime: p.RetentionTime,
				Height:        p.Height,
				Area:          p.Area,
				Width:         p.Width,
				StartTime:     p.StartTime,
				EndTime:       p.EndTime,
			})
		}
	}

	return report, nil
}
