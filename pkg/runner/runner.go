package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/yaklabco/mdfmt/internal/logging"
)

// Processor handles one file. Implementations must be safe for concurrent
// use and report failures through FileResult.Err.
type Processor interface {
	Process(ctx context.Context, path string) FileResult
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, path string) FileResult

// Process calls f.
func (f ProcessorFunc) Process(ctx context.Context, path string) FileResult {
	return f(ctx, path)
}

// Runner applies a Processor to discovered files.
type Runner struct {
	Processor Processor
}

// New creates a Runner around p.
func New(p Processor) *Runner {
	return &Runner{Processor: p}
}

// Run discovers the files named by opts and processes them.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug("discovered files",
		logging.FieldFilesDiscovered, len(files),
		logging.FieldJobs, opts.Jobs,
	)
	return r.RunFiles(ctx, files, opts.Jobs)
}

// RunFiles processes files with at most jobs workers. Results keep the
// order of files whatever order the workers finish in. On cancellation
// the files processed so far are returned with the context error.
func (r *Runner) RunFiles(ctx context.Context, files []string, jobs int) (*Result, error) {
	start := time.Now()
	result := newResult(len(files))
	if len(files) == 0 {
		return result, nil
	}

	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	outcomes := make([]FileResult, len(files))
	done := make([]bool, len(files))
	work := make(chan int)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				outcomes[i] = r.Processor.Process(ctx, files[i])
				outcomes[i].Path = files[i]
				done[i] = true
			}
		}()
	}

feed:
	for i := range files {
		select {
		case <-ctx.Done():
			break feed
		case work <- i:
		}
	}
	close(work)
	wg.Wait()

	for i := range files {
		if done[i] {
			result.accumulate(outcomes[i])
		}
	}

	logging.FromContext(ctx).Debug("run finished",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldDuration, time.Since(start),
	)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}
