package dispatch

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/legistyr/termbench/internal/dataset"
	"github.com/legistyr/termbench/internal/openrouter"
)

// Completer is the single-call client contract the dispatcher fans rows out
// to. *openrouter.Client satisfies it; tests substitute their own.
type Completer interface {
	Complete(ctx context.Context, messages []openrouter.Message) (*openrouter.Completion, error)
}

// BuildFunc renders the prompt messages for one row.
type BuildFunc func(row dataset.Row) []openrouter.Message

// ProgressFunc is called after each row settles to report progress. It runs
// on worker goroutines and must be safe for concurrent use.
type ProgressFunc func(done int, total int)

// Result is the settled outcome for one input row. Exactly one of Completion
// and Err is meaningful.
type Result struct {
	Index      int
	Completion *openrouter.Completion
	Err        error
}

// Failed reports whether the row ended without a completion.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Dispatcher runs one completion per row with a fixed concurrency ceiling.
type Dispatcher struct {
	client     Completer
	limit      int
	onProgress ProgressFunc
}

// New creates a Dispatcher with the given concurrency limit.
func New(client Completer, limit int, onProgress ProgressFunc) *Dispatcher {
	if limit < 1 {
		limit = 1
	}
	return &Dispatcher{
		client:     client,
		limit:      limit,
		onProgress: onProgress,
	}
}

// Run submits every row up front and lets the semaphore park the excess, so
// at most limit completions are in flight at any instant. The returned slice
// is index-aligned with rows: results[i] belongs to rows[i] regardless of
// completion order. A failed row yields a Result with Err set and never
// affects its neighbours.
func (d *Dispatcher) Run(ctx context.Context, rows []dataset.Row, build BuildFunc) []Result {
	total := len(rows)
	results := make([]Result, total)
	if total == 0 {
		return results
	}

	sem := make(chan struct{}, d.limit)
	var processed int64

	var wg sync.WaitGroup
	for i := range rows {
		wg.Add(1)
		go func(idx int, row dataset.Row) {
			defer wg.Done()

			// Each task owns results[idx] exclusively; no locking needed.
			select {
			case <-ctx.Done():
				results[idx] = Result{Index: idx, Err: ctx.Err()}
			case sem <- struct{}{}:
				comp, err := d.client.Complete(ctx, build(row))
				results[idx] = Result{Index: idx, Completion: comp, Err: err}
				<-sem
			}

			count := atomic.AddInt64(&processed, 1)
			if d.onProgress != nil {
				d.onProgress(int(count), total)
			}
		}(i, rows[i])
	}

	wg.Wait()
	return results
}

// Summary aggregates a result slice for end-of-run reporting.
type Summary struct {
	Succeeded    int
	Failed       int
	TotalCost    float64
	CostKnown    bool
	PromptTokens int
	OutputTokens int
}

// Summarize tallies successes, failures and usage. CostKnown is set when at
// least one completion carried billing data; a zero TotalCost with CostKnown
// false means the API never reported cost, not that the run was free.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		if r.Failed() {
			s.Failed++
			continue
		}
		s.Succeeded++
		if r.Completion == nil {
			continue
		}
		s.PromptTokens += r.Completion.PromptTokens
		s.OutputTokens += r.Completion.OutputTokens
		if r.Completion.Cost != nil {
			s.TotalCost += *r.Completion.Cost
			s.CostKnown = true
		}
	}
	return s
}
