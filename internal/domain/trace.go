package domain

// TracePoint is one archived sample of a processed run: the raw signal plus
// the baseline estimated for it. Archived traces let the review UI redraw a
// chromatogram without re-parsing the instrument file.
type TracePoint struct {
	RunID         string  // run identifier the point belongs to
	Index         int     // sample position within the run
	RetentionTime float64 // seconds
	Intensity     float64 // raw detector intensity
	Baseline      float64 // estimated baseline at this sample
}
