package summarize

import (
	"sort"

	"chromalab/internal/domain"
)

// Stats are descriptive statistics over a summary's peaks, consumed by the
// review UI and the batch report.
type Stats struct {
	TotalPeaks int

	MaxHeight    float64
	MinHeight    float64
	MeanHeight   float64
	MedianHeight float64

	MaxArea    float64
	MinArea    float64
	MeanArea   float64
	MedianArea float64

	MinRetentionTime float64
	MaxRetentionTime float64
}

// ComputeStats derives peak statistics from a summary. An empty peak list
// yields the zero Stats value.
func ComputeStats(s *domain.Summary) Stats {
	n := len(s.Peaks)
	if n == 0 {
		return Stats{}
	}

	heights := make([]float64, n)
	areas := make([]float64, n)
	for i, p := range s.Peaks {
		heights[i] = p.Height
		areas[i] = p.Area
	}

	st := Stats{TotalPeaks: n}
	st.MinHeight, st.MaxHeight, st.MeanHeight = minMaxMean(heights)
	st.MinArea, st.MaxArea, st.MeanArea = minMaxMean(areas)

	sort.Float64s(heights)
	sort.Float64s(areas)
	st.MedianHeight = percentile(heights, 0.50)
	st.MedianArea = percentile(areas, 0.50)

	// Peaks are sorted ascending by retention time.
	st.MinRetentionTime = s.Peaks[0].RetentionTime
	st.MaxRetentionTime = s.Peaks[n-1].RetentionTime
	return st
}

// percentile uses linear interpolation over a pre-sorted slice.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// minMaxMean computes all three in one pass.
func minMaxMean(values []float64) (min, max, mean float64) {
	min = values[0]
	max = values[0]
	var sum float64
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	return min, max, sum / float64(len(values))
}
