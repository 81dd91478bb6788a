// Package pipeline coordinates one run's processing sequence:
// load → baseline → detect → integrate → summarize, and fans whole runs out
// across workers for batch processing.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"chromalab/internal/baseline"
	"chromalab/internal/cdf"
	"chromalab/internal/detect"
	"chromalab/internal/domain"
	"chromalab/internal/idhash"
	"chromalab/internal/integrate"
	"chromalab/internal/observability"
	"chromalab/internal/storage"
	"chromalab/internal/summarize"
)

// Options for creating a Runner.
type Options struct {
	// Config holds the detection and estimation parameters. The zero value
	// is replaced with domain.DefaultConfig().
	Config domain.Config

	// SummaryStores receive every completed summary. A run that is already
	// stored (duplicate run id) is skipped silently, not failed. Optional.
	SummaryStores []storage.SummaryStore

	// TraceStore archives the raw trace points of every completed run.
	// Optional.
	TraceStore storage.TraceStore

	// Cache deduplicates byte-identical input files across the batch.
	// Optional.
	Cache *Cache

	// Metrics receives run counters and timings. Optional.
	Metrics *observability.Metrics

	Verbose bool
}

// Runner executes the processing pipeline on instrument files. The
// configuration is fixed at construction; concurrent runs never observe a
// change mid-run.
type Runner struct {
	cfg       domain.Config
	summaries []storage.SummaryStore
	traces    storage.TraceStore
	cache     *Cache
	metrics   *observability.Metrics
	verbose   bool
}

// NewRunner validates the configuration and creates a Runner.
func NewRunner(opts Options) (*Runner, error) {
	cfg := opts.Config
	if cfg == (domain.Config{}) {
		cfg = domain.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Runner{
		cfg:       cfg,
		summaries: opts.SummaryStores,
		traces:    opts.TraceStore,
		cache:     opts.Cache,
		metrics:   opts.Metrics,
		verbose:   opts.Verbose,
	}, nil
}

// ProcessFile runs the full pipeline on one instrument file and returns its
// summary. The result is either a complete summary (possibly carrying
// warnings) or a single fatal error; no partial summary is ever returned.
func (r *Runner) ProcessFile(ctx context.Context, path string) (*domain.Summary, error) {
	fp, err := idhash.FileFingerprint(path)
	if err != nil {
		return nil, err
	}

	if r.cache == nil {
		return r.process(ctx, path, fp)
	}
	return r.cache.Do(fp, func() (*domain.Summary, error) {
		return r.process(ctx, path, fp)
	})
}

// process is the sequential per-run pipeline body.
func (r *Runner) process(ctx context.Context, path, fingerprint string) (*domain.Summary, error) {
	start := time.Now()

	runID, err := idhash.RunID(fingerprint)
	if err != nil {
		return nil, fmt.Errorf("derive run id: %w", err)
	}

	series, err := cdf.LoadSeries(path)
	if err != nil {
		var pe *cdf.ParseError
		if errors.As(err, &pe) {
			r.metrics.RecordParseError()
		}
		r.metrics.RecordRun(false, time.Since(start).Seconds(), 0)
		return nil, err
	}
	series.Meta.Fingerprint = fingerprint
	series.Meta.RunID = runID
	r.log("run %s: loaded %s (%d samples)", runID, path, series.Len())

	est, err := baseline.Estimate(series, r.cfg)
	if err != nil {
		r.metrics.RecordRun(false, time.Since(start).Seconds(), 0)
		return nil, fmt.Errorf("estimate baseline: %w", err)
	}

	regions := detect.Detect(series, est.Baseline, est.NoiseFloor, r.cfg)
	r.log("run %s: noise floor %.4g, %d regions", runID, est.NoiseFloor, len(regions))

	warnings := est.Warnings
	peaks := make([]domain.Peak, 0, len(regions))
	for _, region := range regions {
		peak, w := integrate.Integrate(series, est.Baseline, region)
		peaks = append(peaks, peak)
		warnings = append(warnings, w...)
	}

	summary := summarize.Build(series.Meta, peaks, warnings)

	if err := r.store(ctx, runID, series, est.Baseline, summary); err != nil {
		r.metrics.RecordRun(false, time.Since(start).Seconds(), 0)
		return nil, err
	}

	for _, w := range warnings {
		r.metrics.RecordWarning(w.Code)
	}
	r.metrics.RecordRun(true, time.Since(start).Seconds(), len(peaks))
	r.log("run %s: %d peaks, total area %.2f", runID, len(peaks), summary.TotalArea)
	return summary, nil
}

// store persists the summary and the raw trace. A duplicate run id means the
// same input bytes were processed before; the existing record stands.
func (r *Runner) store(ctx context.Context, runID string, series *domain.Series, base domain.Baseline, s *domain.Summary) error {
	for _, st := range r.summaries {
		if err := st.Insert(ctx, runID, s); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				r.log("run %s: summary already stored", runID)
				continue
			}
			r.metrics.RecordStoreError("summary", "insert")
			return fmt.Errorf("store summary %s: %w", runID, err)
		}
	}

	if r.traces == nil {
		return nil
	}
	points := make([]*domain.TracePoint, series.Len())
	for i := range points {
		points[i] = &domain.TracePoint{
			RunID:         runID,
			Index:         i,
			RetentionTime: series.Times[i],
			Intensity:     series.Intensities[i],
			Baseline:      base[i],
		}
	}
	if err := r.traces.InsertBulk(ctx, points); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			r.log("run %s: trace already stored", runID)
			return nil
		}
		r.metrics.RecordStoreError("trace", "insert_bulk")
		return fmt.Errorf("store trace %s: %w", runID, err)
	}
	return nil
}

func (r *Runner) log(format string, args ...interface{}) {
	if r.verbose {
		log.Printf("[pipeline] "+format, args...)
	}
}
