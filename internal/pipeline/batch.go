package pipeline

import (
	"context"
	"sync"

	"chromalab/internal/domain"
)

// RunResult is the per-file outcome of a batch: a complete summary or a
// single fatal error, never both.
type RunResult struct {
	Path    string
	Summary *domain.Summary
	Err     error
}

// ProcessBatch processes the given files on up to workers concurrent
// goroutines. Each run owns its series and working buffers; the only shared
// state is the read-only input files and the write-once stores. Results come
// back in input order regardless of completion order.
//
// Cancellation is checked between whole runs only: a single run is fast and
// not meaningfully preemptible, so a cancelled context fails the files not
// yet started with ctx.Err() and lets in-flight runs finish.
func (r *Runner) ProcessBatch(ctx context.Context, paths []string, workers int) []RunResult {
	results := make([]RunResult, len(paths))
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				res := RunResult{Path: paths[i]}
				if err := ctx.Err(); err != nil {
					res.Err = err
				} else {
					res.Summary, res.Err = r.ProcessFile(ctx, paths[i])
				}
				results[i] = res
			}
		}()
	}

	for i := range paths {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return results
}
