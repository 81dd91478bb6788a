// Package reporting renders batch processing results as CSV and Markdown
// for review outside the pipeline.
package reporting

import "time"

// Report is the assembled view of one processing batch.
type Report struct {
	GeneratedAt time.Time

	// Runs, one row per stored summary, sorted by run id.
	Runs []RunRow

	// Peaks across all runs, sorted by (run_id, retention_time).
	Peaks []PeakRow

	// Failures reported by the batch, in input order.
	Failures []FailureRow
}

// RunRow summarizes one processed run.
type RunRow struct {
	RunID     string
	SampleID  string
	RunDate   string
	Channel   string
	PeakCount int
	TotalArea float64
	Warnings  int
}

// PeakRow is one integrated peak with its run context.
type PeakRow struct {
	RunID         string
	SampleID      string
	RetentionTime float64
	Height        float64
	Area          float64
	Width         float64
	StartTime     float64
	EndTime       float64
}

// FailureRow is one input file that produced a fatal error instead of a
// summary.
type FailureRow struct {
	Path string
	Err  string
}
