package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/tngss/attendee-sync/internal/domain"
	"github.com/tngss/attendee-sync/internal/pkg/logger"
)

// PageStore is the store surface the deleter needs.
type PageStore interface {
	Page(ctx context.Context, limit int) ([]domain.Attendee, error)
	Delete(ctx context.Context, passID string) error
	Count(ctx context.Context) (int, error)
}

// Deleter drains the target store batch by batch. It always re-requests the
// first page: deletions shift the remaining records forward, so walking
// pages by cursor would skip survivors.
type Deleter struct {
	store     PageStore
	batchSize int
	pause     time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewDeleter builds a deleter with the given page size and inter-batch pause.
func NewDeleter(store PageStore, batchSize int, pause time.Duration) *Deleter {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Deleter{store: store, batchSize: batchSize, pause: pause, sleep: sleepCtx}
}

// DeleteStats aggregates a deletion run. Failures holds the items whose
// delete errored; those records remain in the store.
type DeleteStats struct {
	Deleted  int
	Failed   int
	Failures []ItemResult
}

// DrainAll deletes every record. Items settle independently: a failed delete
// is recorded and the drain continues. A store with K records drains in
// ceil(K/batchSize) page fetches plus the final empty one; the returned error
// covers only page fetches and cancellation.
func (d *Deleter) DrainAll(ctx context.Context) (DeleteStats, error) {
	var stats DeleteStats
	failed := make(map[string]bool)
	for {
		page, err := d.store.Page(ctx, d.batchSize)
		if err != nil {
			return stats, fmt.Errorf("fetching deletion page: %w", err)
		}
		if len(page) == 0 {
			return stats, nil
		}

		progress := 0
		for _, a := range page {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			if failed[a.PassID] {
				continue
			}
			if err := d.store.Delete(ctx, a.PassID); err != nil {
				failed[a.PassID] = true
				stats.Failed++
				stats.Failures = append(stats.Failures, ItemResult{PassID: a.PassID, Err: err})
				logger.Error("delete failed", "pass_id", a.PassID, "error", err)
				continue
			}
			stats.Deleted++
			progress++
		}
		logger.Info("deletion batch settled",
			"batch_size", len(page), "deleted_total", stats.Deleted, "failed_total", stats.Failed)

		// A page with no progress holds only records that already failed;
		// re-fetching it would loop forever.
		if progress == 0 {
			return stats, nil
		}

		if d.pause > 0 {
			if err := d.sleep(ctx, d.pause); err != nil {
				return stats, err
			}
		}
	}
}

// DeletePlanned removes a specific set of records, for dedupe runs where the
// reconciler has already chosen the victims. A failed delete is recorded and
// the rest still run.
func (d *Deleter) DeletePlanned(ctx context.Context, victims []domain.Attendee) (DeleteStats, error) {
	var stats DeleteStats
	for _, a := range victims {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		if err := d.store.Delete(ctx, a.PassID); err != nil {
			stats.Failed++
			stats.Failures = append(stats.Failures, ItemResult{PassID: a.PassID, Err: err})
			logger.Error("delete failed", "pass_id", a.PassID, "error", err)
			continue
		}
		stats.Deleted++
	}
	return stats, nil
}
