package domain

import (
	"fmt"
	"math"
)

// Metadata describes the run a series was acquired from.
type Metadata struct {
	SampleID    string // sample identifier from the instrument export
	RunDate     string // acquisition timestamp as recorded by the instrument
	Channel     string // detector channel name
	SourceFile  string // basename of the input file
	Fingerprint string // hex SHA-256 of the raw input bytes
	RunID       string // short base58 run identifier derived from Fingerprint
}

// Series is a chromatogram: detector intensity sampled over retention time.
// Times and Intensities are parallel arrays of equal length. A Series is
// treated as read-only once constructed; all downstream stages share it
// without copying.
type Series struct {
	Times       []float64
	Intensities []float64
	Meta        Metadata
}

// NewSeries validates and assembles a Series. The slices are retained, not
// copied; the caller hands over ownership. Returns an error if the axes
// differ in length, contain fewer than 2 samples, the time axis is not
// strictly increasing, or any intensity is NaN/Inf.
func NewSeries(times, intensities []float64, meta Metadata) (*Series, error) {
	if len(times) != len(intensities) {
		return nil, fmt.Errorf("time and intensity arrays differ in length: %d vs %d", len(times), len(intensities))
	}
	if len(times) < 2 {
		return nil, fmt.Errorf("series too short: %d samples, need at least 2", len(times))
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, fmt.Errorf("time axis not strictly increasing at index %d: %v <= %v", i, times[i], times[i-1])
		}
	}
	for i, v := range intensities {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("non-finite intensity at index %d", i)
		}
	}

	return &Series{Times: times, Intensities: intensities, Meta: meta}, nil
}

// Len returns the number of samples.
func (s *Series) Len() int {
	return len(s.Times)
}

// Baseline is the estimated non-analyte signal level, aligned 1:1 with the
// time axis of the series it was computed from.
type Baseline []float64
