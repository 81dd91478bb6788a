// Package summarize aggregates integrated peaks into the run's boundary
// artifact, the Summary, and derives presentation views of it.
package summarize

import (
	"sort"

	"chromalab/internal/domain"
)

// Build assembles the frozen Summary for one run. Peaks are sorted
// ascending by retention time and total area is computed here; nothing
// mutates the peaks afterwards. Zero peaks is a valid outcome: the summary
// then carries an empty list and total_area 0.
func Build(meta domain.Metadata, peaks []domain.Peak, warnings []domain.Warning) *domain.Summary {
	sorted := make([]domain.Peak, len(peaks))
	copy(sorted, peaks)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RetentionTime < sorted[j].RetentionTime
	})

	var totalArea float64
	for _, p := range sorted {
		totalArea += p.Area
	}

	md := map[string]string{
		"run_date": meta.RunDate,
		"channel":  meta.Channel,
	}
	if meta.SourceFile != "" {
		md["source_file"] = meta.SourceFile
	}
	if meta.Fingerprint != "" {
		md["fingerprint"] = meta.Fingerprint
	}
	if meta.RunID != "" {
		md["run_id"] = meta.RunID
	}

	return &domain.Summary{
		SampleID:  meta.SampleID,
		Metadata:  md,
		Peaks:     sorted,
		TotalArea: totalArea,
		Warnings:  warnings,
	}
}
