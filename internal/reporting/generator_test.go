package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"chromalab/internal/domain"
	"chromalab/internal/storage/memory"
)

func seedStore(t *testing.T) *memory.SummaryStore {
	t.Helper()
	store := memory.NewSummaryStore()
	ctx := context.Background()

	summaries := map[string]*domain.Summary{
		"run-a": {
			SampleID: "SMP-01",
			Metadata: map[string]string{"run_date": "20240301", "channel": "FID1A"},
			Peaks: []domain.Peak{
				{RetentionTime: 12.5, Height: 80, Area: 400, Width: 5, StartTime: 10, EndTime: 15},
				{RetentionTime: 30.0, Height: 20, Area: 90, Width: 4.5, StartTime: 28, EndTime: 32.5},
			},
			TotalArea: 490,
		},
		"run-b": {
			SampleID:  "SMP-02",
			Metadata:  map[string]string{"run_date": "20240302", "channel": "FID1B"},
			Peaks:     nil,
			TotalArea: 0,
			Warnings: []domain.Warning{
				{Code: domain.WarnDegenerateBaseline, Message: "only 0 valleys found"},
			},
		},
	}
	for id, s := range summaries {
		if err := store.Insert(ctx, id, s); err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}
	return store
}

func TestGenerate(t *testing.T) {
	store := seedStore(t)
	fixed := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

	g := NewGenerator(store).WithClock(func() time.Time { return fixed })
	report, err := g.Generate(context.Background(), []FailureRow{
		{Path: "bad.cdf", Err: "parse bad.cdf: not a classic netCDF file"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if !report.GeneratedAt.Equal(fixed) {
		t.Errorf("generated at = %v, want %v", report.GeneratedAt, fixed)
	}
	if len(report.Runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(report.Runs))
	}
	// ListRunIDs sorts ascending, so run-a comes first.
	if report.Runs[0].RunID != "run-a" || report.Runs[1].RunID != "run-b" {
		t.Errorf("run order = %s, %s", report.Runs[0].RunID, report.Runs[1].RunID)
	}
	if report.Runs[0].PeakCount != 2 || report.Runs[0].TotalArea != 490 {
		t.Errorf("run-a row = %+v", report.Runs[0])
	}
	if report.Runs[1].Warnings != 1 {
		t.Errorf("run-b warnings = %d, want 1", report.Runs[1].Warnings)
	}
	if len(report.Peaks) != 2 {
		t.Errorf("peaks = %d, want 2", len(report.Peaks))
	}
	if len(report.Failures) != 1 {
		t.Errorf("failures = %d, want 1", len(report.Failures))
	}
}

func TestRenderPeaksCSV(t *testing.T) {
	csv := RenderPeaksCSV([]PeakRow{
		{RunID: "run-a", SampleID: "SMP-01", RetentionTime: 12.5, Height: 80, Area: 400, Width: 5, StartTime: 10, EndTime: 15},
	})

	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want header + 1 row", len(lines))
	}
	if lines[0] != "run_id,sample_id,retention_time,height,area,width,start_time,end_time" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "run-a,SMP-01,12.500000,80.000000,400.000000,") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestRenderMarkdown(t *testing.T) {
	report := &Report{
		GeneratedAt: time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC),
		Runs: []RunRow{
			{RunID: "run-a", SampleID: "SMP-01", RunDate: "20240301", Channel: "FID1A", PeakCount: 1, TotalArea: 400},
		},
		Peaks: []PeakRow{
			{RunID: "run-a", SampleID: "SMP-01", RetentionTime: 12.5, Height: 80, Area: 400, Width: 5},
		},
		Failures: []FailureRow{
			{Path: "bad.cdf", Err: "truncated header"},
		},
	}

	md := RenderMarkdown(report)
	for _, want := range []string{
		"# Chromatogram Batch Report",
		"Runs: 1 | Peaks: 1 | Failures: 1",
		"| run-a | SMP-01 | 20240301 | FID1A | 1 | 400.00 | 0 |",
		"## Failures",
		"| bad.cdf | truncated header |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderMarkdown_EmptyBatch(t *testing.T) {
	md := RenderMarkdown(&Report{GeneratedAt: time.Now()})
	if !strings.Contains(md, "No summaries stored.") {
		t.Error("empty batch not reported")
	}
	if strings.Contains(md, "## Failures") {
		t.Error("failures section rendered with no failures")
	}
}
