// Package detect classifies a baseline-corrected chromatogram into peak
// regions with an explicit state machine. Keeping the states and guarded
// transitions named makes the overlap-splitting and chatter-suppression
// rules auditable and testable in isolation.
package detect

import (
	"chromalab/internal/domain"
)

// state of the region classifier.
type state int

const (
	stateBaseline state = iota // below threshold, no open region
	stateRising                // open region, corrected intensity climbing
	stateFalling               // open region, past the apex
)

// detector carries the walk state over one series.
type detector struct {
	s         *domain.Series
	corrected []float64
	threshold float64
	cfg       domain.Config

	st      state
	start   int     // first index of the open region
	apex    int     // index of the maximum corrected intensity so far
	apexVal float64 // corrected intensity at apex
	quiet   int     // consecutive sub-threshold samples while falling
	closeAt int     // first sub-threshold index, candidate region end

	regions []domain.PeakRegion
}

// Detect walks the series and returns all accepted peak regions, ascending
// by start index and never overlapping. threshold scaling and the candidate
// filters (minimum width, minimum apex height) come from cfg; noiseFloor is
// the estimate produced alongside the baseline.
func Detect(s *domain.Series, base domain.Baseline, noiseFloor float64, cfg domain.Config) []domain.PeakRegion {
	n := s.Len()
	d := &detector{
		s:         s,
		corrected: make([]float64, n),
		threshold: cfg.ThresholdMultiplier * noiseFloor,
		cfg:       cfg,
		st:        stateBaseline,
	}
	for i := 0; i < n; i++ {
		d.corrected[i] = s.Intensities[i] - base[i]
	}

	for i := 0; i < n; i++ {
		d.step(i)
	}

	// End of series: an open region closes at the last sample, never left
	// unterminated.
	if d.st != stateBaseline {
		end := n - 1
		if d.st == stateFalling && d.quiet > 0 && d.closeAt > d.start {
			end = d.closeAt
		}
		d.emit(d.start, d.apex, end)
	}

	return d.regions
}

// step feeds one sample through the state machine.
func (d *detector) step(i int) {
	c := d.corrected[i]

	switch d.st {
	case stateBaseline:
		if c > d.threshold {
			// Open the region at the preceding sub-threshold sample so
			// the leading edge is part of the integral.
			d.st = stateRising
			d.start = i - 1
			if d.start < 0 {
				d.start = 0
			}
			d.apex = i
			d.apexVal = c
		}

	case stateRising:
		if c > d.apexVal {
			d.apex = i
			d.apexVal = c
			return
		}
		// Derivative changed sign from positive to non-positive: the
		// apex is behind us.
		d.st = stateFalling
		d.quiet = 0
		if c < d.threshold {
			d.quiet = 1
			d.closeAt = i
		}

	case stateFalling:
		prev := d.corrected[i-1]

		// Shoulder valley: still above threshold but climbing again.
		// Close the current region at the local minimum and reopen
		// immediately, so overlapping peaks split at the shared valley
		// instead of merging.
		if c > prev && prev > d.threshold {
			d.emit(d.start, d.apex, i-1)
			d.st = stateRising
			d.start = i - 1
			d.apex = i
			d.apexVal = c
			return
		}

		if c < d.threshold {
			if d.quiet == 0 {
				d.closeAt = i
			}
			d.quiet++
			if d.quiet >= d.cfg.MinQuietSamples {
				d.emit(d.start, d.apex, d.closeAt)
				d.st = stateBaseline
			}
			return
		}
		d.quiet = 0
	}
}

// emit applies the candidate filters and appends the region if it passes.
// Regions narrower than MinPeakWidth or with apex height below
// MinPeakHeight are discarded, not reported.
func (d *detector) emit(start, apex, end int) {
	if end <= start {
		return
	}
	if apex < start {
		apex = start
	}
	if apex > end {
		apex = end
	}
	width := d.s.Times[end] - d.s.Times[start]
	if width < d.cfg.MinPeakWidth {
		return
	}
	if d.corrected[apex] < d.cfg.MinPeakHeight {
		return
	}
	d.regions = append(d.regions, domain.PeakRegion{Start: start, Apex: apex, End: end})
}
