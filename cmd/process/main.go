// Package main processes GC instrument files into peak summaries: each
// input is parsed, baseline-corrected, peak-detected and integrated, then
// written as a JSON summary plus batch-level CSV and Markdown reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"chromalab/internal/domain"
	"chromalab/internal/observability"
	"chromalab/internal/pipeline"
	"chromalab/internal/reporting"
	"chromalab/internal/storage"
	"chromalab/internal/storage/clickhouse"
	"chromalab/internal/storage/fs"
	"chromalab/internal/storage/migrations"
	"chromalab/internal/storage/postgres"
)

func main() {
	var (
		inputDir  = flag.String("input-dir", "", "Directory scanned for .cdf files (in addition to positional arguments)")
		outputDir = flag.String("output-dir", "out", "Output directory for JSON summaries and reports")
		workers   = flag.Int("workers", 4, "Number of concurrent runs")

		threshold    = flag.Float64("threshold", 3.0, "Detection threshold as a multiple of the noise floor")
		minWidth     = flag.Float64("min-width", 1.0, "Minimum peak width in retention-time units")
		minHeight    = flag.Float64("min-height", 0.0, "Minimum baseline-corrected apex height")
		valleyWindow = flag.Int("valley-window", 5, "Valley detection window half-width in samples")
		quietSamples = flag.Int("quiet-samples", 3, "Consecutive sub-threshold samples required to close a peak")
		noiseEdge    = flag.Int("noise-edge", 20, "Samples per series edge used for the noise floor estimate")

		postgresDSN   = flag.String("postgres-dsn", "", "Optional Postgres DSN for the summary archive")
		clickhouseDSN = flag.String("clickhouse-dsn", "", "Optional ClickHouse DSN for the raw trace archive")
		metricsAddr   = flag.String("metrics-addr", "", "Optional address to serve /metrics on")
		verbose       = flag.Bool("verbose", false, "Verbose output")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[process] ", log.LstdFlags)

	inputs, err := collectInputs(flag.Args(), *inputDir)
	if err != nil {
		logger.Fatalf("collect inputs: %v", err)
	}
	if len(inputs) == 0 {
		logger.Fatal("no input files; pass .cdf paths or -input-dir")
	}

	cfg := domain.Config{
		ThresholdMultiplier: *threshold,
		MinPeakWidth:        *minWidth,
		MinPeakHeight:       *minHeight,
		ValleyWindow:        *valleyWindow,
		MinQuietSamples:     *quietSamples,
		NoiseEdgeSamples:    *noiseEdge,
	}

	// Create context with cancellation for graceful shutdown. Cancellation
	// takes effect between runs; in-flight runs finish.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("received signal %v, cancelling batch", sig)
		cancel()
	}()

	var metrics *observability.Metrics
	if *metricsAddr != "" {
		metrics = observability.NewMetrics("")
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Printf("metrics server: %v", err)
			}
		}()
		logger.Printf("serving metrics on %s/metrics", *metricsAddr)
	}

	fsStore, err := fs.NewSummaryStore(filepath.Join(*outputDir, "json_output"))
	if err != nil {
		logger.Fatalf("open output store: %v", err)
	}
	summaryStores := []storage.SummaryStore{fsStore}

	if *postgresDSN != "" {
		pool, err := postgres.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("connect postgres: %v", err)
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("postgres migrations: %v", err)
		}
		summaryStores = append(summaryStores, postgres.NewSummaryStore(pool))
	}

	var traceStore storage.TraceStore
	if *clickhouseDSN != "" {
		conn, err := clickhouse.NewConn(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("connect clickhouse: %v", err)
		}
		defer conn.Close()
		if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
			logger.Fatalf("clickhouse migrations: %v", err)
		}
		traceStore = clickhouse.NewTraceStore(conn)
	}

	runner, err := pipeline.NewRunner(pipeline.Options{
		Config:        cfg,
		SummaryStores: summaryStores,
		TraceStore:    traceStore,
		Cache:         pipeline.NewCache(),
		Metrics:       metrics,
		Verbose:       *verbose,
	})
	if err != nil {
		logger.Fatalf("create runner: %v", err)
	}

	logger.Printf("processing %d files with %d workers", len(inputs), *workers)
	started := time.Now()
	results := runner.ProcessBatch(ctx, inputs, *workers)

	var failures []reporting.FailureRow
	processed := 0
	for _, res := range results {
		if res.Err != nil {
			logger.Printf("FAIL %s: %v", res.Path, res.Err)
			failures = append(failures, reporting.FailureRow{Path: res.Path, Err: res.Err.Error()})
			continue
		}
		processed++
		logger.Printf("ok   %s: %d peaks, total area %.2f",
			res.Path, len(res.Summary.Peaks), res.Summary.TotalArea)
	}

	report, err := reporting.NewGenerator(fsStore).Generate(ctx, failures)
	if err != nil {
		logger.Fatalf("generate report: %v", err)
	}
	if err := writeReports(*outputDir, report); err != nil {
		logger.Fatalf("write reports: %v", err)
	}

	logger.Printf("batch done in %s: %d processed, %d failed", time.Since(started).Round(time.Millisecond), processed, len(failures))
	logger.Printf("  - %s", filepath.Join(*outputDir, "json_output"))
	logger.Printf("  - %s", filepath.Join(*outputDir, "REPORT.md"))
	logger.Printf("  - %s", filepath.Join(*outputDir, "peaks.csv"))
	logger.Printf("  - %s", filepath.Join(*outputDir, "runs.csv"))

	if processed == 0 {
		os.Exit(1)
	}
}

// collectInputs merges positional paths with a directory scan, deduplicated
// and sorted for a deterministic batch order.
func collectInputs(args []string, dir string) ([]string, error) {
	seen := make(map[string]struct{})
	var inputs []string
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			inputs = append(inputs, p)
		}
	}

	for _, p := range args {
		add(p)
	}
	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read input dir: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".cdf") {
				continue
			}
			add(filepath.Join(dir, e.Name()))
		}
	}

	sort.Strings(inputs)
	return inputs, nil
}

// writeReports renders the batch report as Markdown and CSV files.
func writeReports(dir string, report *reporting.Report) error {
	files := map[string]string{
		"REPORT.md": reporting.RenderMarkdown(report),
		"peaks.csv": reporting.RenderPeaksCSV(report.Peaks),
		"runs.csv":  reporting.RenderRunsCSV(report.Runs),
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
