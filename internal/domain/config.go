package domain

import "fmt"

// Config holds the tunable parameters of baseline estimation and peak
// detection. A Config is an immutable value passed explicitly into each
// pipeline invocation; concurrent runs never observe a change mid-run.
type Config struct {
	// ThresholdMultiplier scales the noise floor into the detection
	// threshold: a region opens when corrected intensity crosses
	// ThresholdMultiplier * noise floor.
	ThresholdMultiplier float64

	// MinPeakWidth is the minimum duration of a candidate region, in
	// retention-time units. Narrower candidates are discarded.
	MinPeakWidth float64

	// MinPeakHeight is the minimum baseline-corrected apex intensity.
	// Lower candidates are discarded.
	MinPeakHeight float64

	// ValleyWindow is the half-width, in samples, of the sliding window
	// used to classify a sample as a local minimum during baseline
	// estimation.
	ValleyWindow int

	// MinQuietSamples is the number of consecutive sub-threshold samples
	// required to close a region. Suppresses detector chatter on noisy
	// peak tails.
	MinQuietSamples int

	// NoiseEdgeSamples is the number of samples taken from each end of
	// the series to estimate the noise floor. The edges are assumed
	// peak-free.
	NoiseEdgeSamples int
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		ThresholdMultiplier: 3.0,
		MinPeakWidth:        1.0,
		MinPeakHeight:       0.0,
		ValleyWindow:        5,
		MinQuietSamples:     3,
		NoiseEdgeSamples:    20,
	}
}

// Validate checks that all parameters are in range.
func (c Config) Validate() error {
	if c.ThresholdMultiplier <= 0 {
		return fmt.Errorf("threshold multiplier must be > 0, got %v", c.ThresholdMultiplier)
	}
	if c.MinPeakWidth < 0 {
		return fmt.Errorf("min peak width must be >= 0, got %v", c.MinPeakWidth)
	}
	if c.MinPeakHeight < 0 {
		return fmt.Errorf("min peak height must be >= 0, got %v", c.MinPeakHeight)
	}
	if c.ValleyWindow < 1 {
		return fmt.Errorf("valley window must be >= 1, got %d", c.ValleyWindow)
	}
	if c.MinQuietSamples < 1 {
		return fmt.Errorf("min quiet samples must be >= 1, got %d", c.MinQuietSamples)
	}
	if c.NoiseEdgeSamples < 1 {
		return fmt.Errorf("noise edge samples must be >= 1, got %d", c.NoiseEdgeSamples)
	}
	return nil
}
