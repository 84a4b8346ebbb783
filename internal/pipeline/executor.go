package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/tngss/attendee-sync/internal/domain"
	"github.com/tngss/attendee-sync/internal/pkg/logger"
)

// ExecutorConfig sets batch shape and pacing.
type ExecutorConfig struct {
	BatchSize   int
	Concurrency int           // workers per batch; 1 forces strict ordering
	InterItem   time.Duration // delay between items, only when Concurrency == 1
	InterBatch  time.Duration // delay between consecutive batches

	// KeepAlive runs at each batch boundary; long runs wire it to the run
	// lock's Extend so the lock outlives the paced batches.
	KeepAlive func(ctx context.Context) error
}

// ItemResult records how one record settled.
type ItemResult struct {
	PassID  string
	Created bool
	Err     error
}

// RunStats aggregates a whole run. Failures holds only the items that
// errored; created-vs-existed is carried in the counters.
type RunStats struct {
	Total          int
	Created        int
	AlreadyExisted int
	Failed         int
	Failures       []ItemResult
}

// Executor pushes records through a sink in sequential batches. Items inside
// a batch settle independently: an item error is recorded and the rest of
// the batch, and every later batch, still runs.
type Executor struct {
	sink  Sink
	cfg   ExecutorConfig
	sleep func(ctx context.Context, d time.Duration) error
}

// NewExecutor builds an executor. Zero config values get safe minimums.
func NewExecutor(sink Sink, cfg ExecutorConfig) *Executor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Executor{sink: sink, cfg: cfg, sleep: sleepCtx}
}

// Run writes all records. Only context cancellation aborts the run; the
// returned error is then ctx.Err() and the stats cover what settled before.
func (e *Executor) Run(ctx context.Context, records []domain.Attendee) (RunStats, error) {
	stats := RunStats{Total: len(records)}

	for start := 0; start < len(records); start += e.cfg.BatchSize {
		if start > 0 {
			if e.cfg.KeepAlive != nil {
				if err := e.cfg.KeepAlive(ctx); err != nil {
					logger.Warn("run lock extension failed", "error", err)
				}
			}
			if e.cfg.InterBatch > 0 {
				if err := e.sleep(ctx, e.cfg.InterBatch); err != nil {
					return stats, err
				}
			}
		}

		end := start + e.cfg.BatchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		var results []ItemResult
		var err error
		if e.cfg.Concurrency > 1 {
			results, err = e.runBatchConcurrent(ctx, batch)
		} else {
			results, err = e.runBatchSequential(ctx, batch)
		}

		for _, r := range results {
			switch {
			case r.Err != nil:
				stats.Failed++
				stats.Failures = append(stats.Failures, r)
				logger.Error("item failed", "pass_id", r.PassID, "sink", e.sink.Name(), "error", r.Err)
			case r.Created:
				stats.Created++
			default:
				stats.AlreadyExisted++
			}
		}
		if err != nil {
			return stats, err
		}

		logger.Info("batch settled",
			"sink", e.sink.Name(),
			"batch_start", start, "batch_size", len(batch),
			"created", stats.Created, "existed", stats.AlreadyExisted, "failed", stats.Failed)
	}

	return stats, nil
}

func (e *Executor) runBatchSequential(ctx context.Context, batch []domain.Attendee) ([]ItemResult, error) {
	results := make([]ItemResult, 0, len(batch))
	for i := range batch {
		if i > 0 && e.cfg.InterItem > 0 {
			if err := e.sleep(ctx, e.cfg.InterItem); err != nil {
				return results, err
			}
		}
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		a := batch[i]
		created, err := e.sink.Create(ctx, &a)
		results = append(results, ItemResult{PassID: a.PassID, Created: created, Err: err})
	}
	return results, nil
}

func (e *Executor) runBatchConcurrent(ctx context.Context, batch []domain.Attendee) ([]ItemResult, error) {
	results := make([]ItemResult, len(batch))
	sem := make(chan struct{}, e.cfg.Concurrency)
	var wg sync.WaitGroup

	for i := range batch {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			a := batch[i]
			created, err := e.sink.Create(ctx, &a)
			results[i] = ItemResult{PassID: a.PassID, Created: created, Err: err}
		}(i)
	}
	wg.Wait()

	return results, ctx.Err()
}

// sleepCtx waits for d or for cancellation, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
