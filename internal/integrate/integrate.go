// Package integrate computes the quantitative metrics of one detected peak
// region: apex height, trapezoidal area over the retention-time axis, width
// and bounding times.
package integrate

import (
	"fmt"

	"chromalab/internal/domain"
)

// Integrate measures a single region of the series. Height is the corrected
// intensity at the apex, clamped to zero if the baseline overshot the raw
// signal there (reported as a NEGATIVE_HEIGHT_CLAMPED warning). Area is the
// trapezoid sum of corrected intensity over the time axis, which may be
// non-uniformly spaced; negative corrected samples contribute zero.
func Integrate(s *domain.Series, base domain.Baseline, r domain.PeakRegion) (domain.Peak, []domain.Warning) {
	var warnings []domain.Warning

	height := s.Intensities[r.Apex] - base[r.Apex]
	if height < 0 {
		warnings = append(warnings, domain.Warning{
			Code: domain.WarnNegativeHeightClamped,
			Message: fmt.Sprintf("negative height %g at apex index %d clamped to 0; baseline overshoots signal",
				height, r.Apex),
		})
		height = 0
	}

	var area float64
	for i := r.Start; i < r.End; i++ {
		c0 := corrected(s, base, i)
		c1 := corrected(s, base, i+1)
		dt := s.Times[i+1] - s.Times[i]
		area += (c0 + c1) / 2 * dt
	}

	return domain.Peak{
		RetentionTime: s.Times[r.Apex],
		Height:        height,
		Area:          area,
		Width:         s.Times[r.End] - s.Times[r.Start],
		StartTime:     s.Times[r.Start],
		EndTime:       s.Times[r.End],
	}, warnings
}

// corrected is the baseline-corrected intensity at i, floored at zero for
// the area sum.
func corrected(s *domain.Series, base domain.Baseline, i int) float64 {
	c := s.Intensities[i] - base[i]
	if c < 0 {
		return 0
	}
	return c
}
