package summarize

import (
	"math"
	"strings"
	"testing"

	"chromalab/internal/domain"
)

func testMeta() domain.Metadata {
	return domain.Metadata{
		SampleID:    "SMP-01",
		RunDate:     "20240301101500+0000",
		Channel:     "FID1A",
		SourceFile:  "run.cdf",
		Fingerprint: "abcd",
		RunID:       "r1",
	}
}

func testPeaks() []domain.Peak {
	return []domain.Peak{
		{RetentionTime: 30, Height: 20, Area: 90, Width: 4, StartTime: 28, EndTime: 32},
		{RetentionTime: 12, Height: 80, Area: 400, Width: 5, StartTime: 10, EndTime: 15},
		{RetentionTime: 55, Height: 45, Area: 200, Width: 6, StartTime: 52, EndTime: 58},
	}
}

func TestBuild_SortsAndTotals(t *testing.T) {
	s := Build(testMeta(), testPeaks(), nil)

	if s.SampleID != "SMP-01" {
		t.Errorf("sample id = %q", s.SampleID)
	}
	if len(s.Peaks) != 3 {
		t.Fatalf("peaks = %d, want 3", len(s.Peaks))
	}
	for i := 1; i < len(s.Peaks); i++ {
		if s.Peaks[i-1].RetentionTime >= s.Peaks[i].RetentionTime {
			t.Errorf("peaks not ascending by retention time at %d", i)
		}
	}
	if math.Abs(s.TotalArea-690) > 1e-9 {
		t.Errorf("total area = %v, want 690", s.TotalArea)
	}
	if s.Metadata["run_date"] != "20240301101500+0000" || s.Metadata["channel"] != "FID1A" {
		t.Errorf("metadata = %+v", s.Metadata)
	}
	if s.Metadata["run_id"] != "r1" {
		t.Errorf("run_id missing from metadata: %+v", s.Metadata)
	}
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	peaks := testPeaks()
	first := peaks[0]

	Build(testMeta(), peaks, nil)

	if peaks[0] != first {
		t.Error("Build reordered the caller's slice")
	}
}

func TestBuild_EmptyPeaksIsValid(t *testing.T) {
	s := Build(testMeta(), nil, nil)

	if len(s.Peaks) != 0 {
		t.Errorf("peaks = %d, want 0", len(s.Peaks))
	}
	if s.TotalArea != 0 {
		t.Errorf("total area = %v, want 0", s.TotalArea)
	}
}

func TestBuild_CarriesWarnings(t *testing.T) {
	warnings := []domain.Warning{
		{Code: domain.WarnDegenerateBaseline, Message: "only 1 valley found"},
	}
	s := Build(testMeta(), nil, warnings)

	if len(s.Warnings) != 1 || s.Warnings[0].Code != domain.WarnDegenerateBaseline {
		t.Errorf("warnings = %+v", s.Warnings)
	}
}

func TestComputeStats(t *testing.T) {
	s := Build(testMeta(), testPeaks(), nil)
	st := ComputeStats(s)

	if st.TotalPeaks != 3 {
		t.Errorf("total peaks = %d, want 3", st.TotalPeaks)
	}
	if st.MinHeight != 20 || st.MaxHeight != 80 {
		t.Errorf("height range = [%v, %v], want [20, 80]", st.MinHeight, st.MaxHeight)
	}
	if math.Abs(st.MeanHeight-(20+80+45)/3.0) > 1e-9 {
		t.Errorf("mean height = %v", st.MeanHeight)
	}
	if st.MedianHeight != 45 {
		t.Errorf("median height = %v, want 45", st.MedianHeight)
	}
	if st.MinArea != 90 || st.MaxArea != 400 {
		t.Errorf("area range = [%v, %v]", st.MinArea, st.MaxArea)
	}
	if st.MinRetentionTime != 12 || st.MaxRetentionTime != 55 {
		t.Errorf("retention range = [%v, %v]", st.MinRetentionTime, st.MaxRetentionTime)
	}
}

func TestComputeStats_Empty(t *testing.T) {
	st := ComputeStats(Build(testMeta(), nil, nil))
	if st != (Stats{}) {
		t.Errorf("stats for empty summary = %+v, want zero value", st)
	}
}

func TestRenderText(t *testing.T) {
	s := Build(testMeta(), testPeaks(), []domain.Warning{
		{Code: domain.WarnNegativeHeightClamped, Message: "clamped"},
	})

	text := RenderText(s, 2)

	if !strings.Contains(text, "Chromatogram Summary: SMP-01") {
		t.Error("missing header")
	}
	if !strings.Contains(text, "Total peaks detected: 3") {
		t.Error("missing peak count")
	}
	if !strings.Contains(text, "Warning [NEGATIVE_HEIGHT_CLAMPED]") {
		t.Error("missing warning line")
	}
	if !strings.Contains(text, "Top 2 peaks:") {
		t.Error("maxPeaks cap not applied")
	}

	// Peaks listed by height descending: 80 first, then 45.
	i80 := strings.Index(text, "Height: 80.00")
	i45 := strings.Index(text, "Height: 45.00")
	if i80 < 0 || i45 < 0 || i80 > i45 {
		t.Errorf("peaks not ordered by height:\n%s", text)
	}
	if strings.Contains(text, "Height: 20.00") {
		t.Errorf("third peak rendered past the cap:\n%s", text)
	}
}

func TestRenderText_NoPeaks(t *testing.T) {
	text := RenderText(Build(testMeta(), nil, nil), 5)
	if !strings.Contains(text, "No peaks detected.") {
		t.Errorf("empty summary text:\n%s", text)
	}
}
