package domain

// PeakRegion is a detected peak's index span into its source series,
// with Start < Apex < End. Regions emitted by the detector never overlap
// and are ordered ascending by Start. A region is consumed by the
// integrator immediately and not retained afterwards.
type PeakRegion struct {
	Start int // first sample of the region
	Apex  int // sample of maximum baseline-corrected intensity
	End   int // last sample of the region
}

// Peak holds the quantitative metrics of one integrated peak.
// Invariants: Height >= 0, Area >= 0, Width > 0,
// StartTime < RetentionTime < EndTime.
type Peak struct {
	RetentionTime float64 `json:"retention_time"` // time at the apex
	Height        float64 `json:"height"`         // baseline-corrected intensity at the apex
	Area          float64 `json:"area"`           // baseline-corrected integral over the region
	Width         float64 `json:"width"`          // EndTime - StartTime
	StartTime     float64 `json:"start_time"`
	EndTime       float64 `json:"end_time"`
}
