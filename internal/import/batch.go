package import_pkg

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/nicl-arrears/internal/addrsplit"
	"github.com/nicl-arrears/internal/debug"
	"github.com/nicl-arrears/internal/letters"
)

// Result is the outcome of one row. Exactly one of Letter and Err is set.
type Result struct {
	Row    int
	Record letters.Record
	Letter *letters.Letter
	Err    error
}

// Comment is the COMMENTS text for the row
func (r Result) Comment() string {
	if r.Err == nil && r.Letter != nil {
		return letters.GeneratedComment
	}
	return letters.Comment(r.Err)
}

// BatchStats summarises a processed batch
type BatchStats struct {
	Rows     int
	Prepared int
	Rejected int
	Duration time.Duration
}

// BatchProcessor prepares letters for many rows in parallel
type BatchProcessor struct {
	opts        letters.Options
	workerCount int
	debug       bool
}

// NewBatchProcessor creates a processor. workers <= 0 uses one per CPU.
func NewBatchProcessor(opts letters.Options, workers int, localDebug bool) *BatchProcessor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if opts.Segmenter == nil {
		opts.Segmenter = addrsplit.New()
	}
	return &BatchProcessor{opts: opts, workerCount: workers, debug: localDebug}
}

// Category is the letter type the processor prepares
func (bp *BatchProcessor) Category() string {
	if bp.opts.Category == "" {
		return letters.DefaultCategory
	}
	return bp.opts.Category
}

type job struct {
	index  int
	record letters.Record
}

// Process prepares every record and returns results in input order. Rows are
// numbered from 1 in the order given.
func (bp *BatchProcessor) Process(ctx context.Context, records []letters.Record) ([]Result, BatchStats, error) {
	defer debug.Timing(bp.debug, fmt.Sprintf("batch of %d rows", len(records)))()
	start := time.Now()

	results := make([]Result, len(records))
	jobs := make(chan job)
	var wg sync.WaitGroup

	for i := 0; i < bp.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				row := j.index + 1
				letter, err := letters.Prepare(ctx, j.record, row, len(records), bp.opts)
				results[j.index] = Result{Row: row, Record: j.record, Letter: letter, Err: err}
				if err != nil {
					debug.Tracef(bp.debug, "batch", "row %d skipped: %s", row, letters.Comment(err))
				}
			}
		}()
	}

	var ctxErr error
feed:
	for i, rec := range records {
		if ctxErr = ctx.Err(); ctxErr != nil {
			break
		}
		select {
		case jobs <- job{index: i, record: rec}:
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if ctxErr != nil {
		return nil, BatchStats{}, fmt.Errorf("batch cancelled: %w", ctxErr)
	}

	stats := BatchStats{Rows: len(records), Duration: time.Since(start)}
	for _, r := range results {
		if r.Err != nil {
			stats.Rejected++
		} else {
			stats.Prepared++
		}
	}
	return results, stats, nil
}
