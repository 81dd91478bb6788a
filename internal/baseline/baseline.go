// Package baseline estimates the non-analyte signal level of a chromatogram:
// slow drift and the noise floor the detector threshold is scaled from.
package baseline

import (
	"fmt"
	"math"
	"sort"

	"chromalab/internal/domain"
)

// madScale converts a median absolute deviation into a standard-deviation
// equivalent for normally distributed noise.
const madScale = 1.4826

// Result is the outcome of one baseline estimation: the curve itself, the
// estimated noise floor, and any non-fatal warnings raised along the way.
type Result struct {
	Baseline   domain.Baseline
	NoiseFloor float64
	Warnings   []domain.Warning
}

// Estimate fits a piecewise-linear baseline through the valley points of the
// series. Valleys are local minima over a sliding window of half-width
// cfg.ValleyWindow; the noise floor is the MAD of the first and last
// cfg.NoiseEdgeSamples samples, which are assumed peak-free. Valleys that
// sit well above the endpoint line (saddles between overlapping peaks) are
// excluded from the fit. The fitted curve is clipped so it never exceeds
// the raw intensity at any sample.
//
// With fewer than two interior valleys the estimate degenerates to a single
// line between the first and last sample; this is reported as a
// DEGENERATE_BASELINE warning, not an error.
func Estimate(s *domain.Series, cfg domain.Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid config: %w", err)
	}

	n := s.Len()
	res := Result{NoiseFloor: noiseFloor(s.Intensities, cfg.NoiseEdgeSamples)}

	valleys := findValleys(s.Intensities, cfg.ValleyWindow)
	valleys = filterElevated(s, valleys, cfg.ThresholdMultiplier*res.NoiseFloor)
	if len(valleys) < 2 {
		res.Baseline = linearBaseline(s)
		res.Warnings = append(res.Warnings, domain.Warning{
			Code:    domain.WarnDegenerateBaseline,
			Message: fmt.Sprintf("only %d valleys found, baseline fell back to endpoint interpolation", len(valleys)),
		})
		clip(res.Baseline, s.Intensities)
		return res, nil
	}

	// Anchor the curve at the series endpoints so every sample lies
	// between two knots.
	knots := make([]int, 0, len(valleys)+2)
	if valleys[0] != 0 {
		knots = append(knots, 0)
	}
	knots = append(knots, valleys...)
	if knots[len(knots)-1] != n-1 {
		knots = append(knots, n-1)
	}

	res.Baseline = interpolate(s, knots)
	clip(res.Baseline, s.Intensities)
	return res, nil
}

// noiseFloor estimates detector noise as the scaled median absolute
// deviation of the edge samples. Edges longer than half the series are
// truncated so the two windows never overlap.
func noiseFloor(intensities []float64, edge int) float64 {
	n := len(intensities)
	if edge > n/2 {
		edge = n / 2
	}
	if edge < 1 {
		edge = 1
	}

	window := make([]float64, 0, 2*edge)
	window = append(window, intensities[:edge]...)
	window = append(window, intensities[n-edge:]...)

	med := median(window)
	dev := make([]float64, len(window))
	for i, v := range window {
		dev[i] = math.Abs(v - med)
	}
	return madScale * median(dev)
}

// median computes the median of values, modifying the slice order.
func median(values []float64) float64 {
	sort.Float64s(values)
	n := len(values)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return values[n/2]
	}
	return (values[n/2-1] + values[n/2]) / 2
}

// findValleys returns indices whose intensity is minimal over the window
// [i-w, i+w]. Plateau samples all qualify; interpolation through them is
// the identity, so duplicates are harmless.
func findValleys(intensities []float64, w int) []int {
	n := len(intensities)
	var valleys []int
	for i := w; i < n-w; i++ {
		isMin := true
		for j := i - w; j <= i+w; j++ {
			if intensities[j] < intensities[i] {
				isMin = false
				break
			}
		}
		if isMin {
			valleys = append(valleys, i)
		}
	}
	return valleys
}

// filterElevated drops valleys that sit more than tolerance above the
// straight line between the series endpoints. Such a valley is the shared
// saddle between overlapping peaks, not a return to the noise floor;
// anchoring the baseline there would swallow the peaks' area.
func filterElevated(s *domain.Series, valleys []int, tolerance float64) []int {
	n := s.Len()
	t0, t1 := s.Times[0], s.Times[n-1]
	y0, y1 := s.Intensities[0], s.Intensities[n-1]

	kept := valleys[:0]
	for _, i := range valleys {
		line := y0 + (s.Times[i]-t0)/(t1-t0)*(y1-y0)
		if s.Intensities[i]-line <= tolerance {
			kept = append(kept, i)
		}
	}
	return kept
}

// interpolate builds the piecewise-linear curve through the given knot
// indices, taking the raw intensity at each knot as its value. Knots must
// be sorted ascending and include 0 and n-1.
func interpolate(s *domain.Series, knots []int) domain.Baseline {
	base := make(domain.Baseline, s.Len())
	for k := 0; k < len(knots)-1; k++ {
		i0, i1 := knots[k], knots[k+1]
		t0, t1 := s.Times[i0], s.Times[i1]
		y0, y1 := s.Intensities[i0], s.Intensities[i1]
		for i := i0; i <= i1; i++ {
			if i1 == i0 {
				base[i] = y0
				continue
			}
			frac := (s.Times[i] - t0) / (t1 - t0)
			base[i] = y0 + frac*(y1-y0)
		}
	}
	return base
}

// linearBaseline is the degenerate fallback: one line between the series'
// first and last sample.
func linearBaseline(s *domain.Series) domain.Baseline {
	return interpolate(s, []int{0, s.Len() - 1})
}

// clip lowers the baseline wherever it exceeds the raw intensity, so
// corrected intensity is never negative.
func clip(base domain.Baseline, intensities []float64) {
	for i := range base {
		if base[i] > intensities[i] {
			base[i] = intensities[i]
		}
	}
}
