package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/tngss/attendee-sync/internal/domain"
)

// pagedStore simulates a store where deletions shift remaining records into
// the first page, the way a scan-backed page behaves.
type pagedStore struct {
	records    []domain.Attendee
	pageCalls  int
	deleteErrs map[string]error
}

func newPagedStore(n int) *pagedStore {
	s := &pagedStore{}
	for i := 0; i < n; i++ {
		s.records = append(s.records, domain.Attendee{PassID: fmt.Sprintf("P-%d", i)})
	}
	return s
}

func (s *pagedStore) Page(_ context.Context, limit int) ([]domain.Attendee, error) {
	s.pageCalls++
	if limit > len(s.records) {
		limit = len(s.records)
	}
	page := make([]domain.Attendee, limit)
	copy(page, s.records[:limit])
	return page, nil
}

func (s *pagedStore) Delete(_ context.Context, passID string) error {
	if err := s.deleteErrs[passID]; err != nil {
		return err
	}
	for i, a := range s.records {
		if a.PassID == passID {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *pagedStore) Count(_ context.Context) (int, error) {
	return len(s.records), nil
}

func TestDrainAll_ConvergesInCeilKOverB(t *testing.T) {
	store := newPagedStore(250)
	d := NewDeleter(store, 100, 0)
	d.sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }

	stats, err := d.DrainAll(context.Background())
	if err != nil {
		t.Fatalf("DrainAll: %v", err)
	}
	if stats.Deleted != 250 {
		t.Errorf("deleted: %d", stats.Deleted)
	}
	if len(store.records) != 0 {
		t.Errorf("store not empty: %d left", len(store.records))
	}
	// ceil(250/100) = 3 full pages plus the final empty fetch.
	if store.pageCalls != 4 {
		t.Errorf("page fetches: %d", store.pageCalls)
	}
}

func TestDrainAll_EmptyStoreIsANoOp(t *testing.T) {
	store := newPagedStore(0)
	d := NewDeleter(store, 100, 0)

	stats, err := d.DrainAll(context.Background())
	if err != nil {
		t.Fatalf("DrainAll: %v", err)
	}
	if stats.Deleted != 0 || store.pageCalls != 1 {
		t.Errorf("deleted %d over %d fetches", stats.Deleted, store.pageCalls)
	}
}

func TestDrainAll_FailedDeleteDoesNotAbortTheDrain(t *testing.T) {
	store := newPagedStore(10)
	store.deleteErrs = map[string]error{"P-4": fmt.Errorf("throttled")}
	d := NewDeleter(store, 100, 0)

	stats, err := d.DrainAll(context.Background())
	if err != nil {
		t.Fatalf("DrainAll: %v", err)
	}
	if stats.Deleted != 9 || stats.Failed != 1 {
		t.Errorf("stats: %+v", stats)
	}
	if len(stats.Failures) != 1 || stats.Failures[0].PassID != "P-4" {
		t.Errorf("failures: %+v", stats.Failures)
	}
	if len(store.records) != 1 || store.records[0].PassID != "P-4" {
		t.Errorf("only the failed record may survive: %+v", store.records)
	}
	// Second fetch returns only the already-failed record, so the drain
	// stops instead of retrying it forever.
	if store.pageCalls != 2 {
		t.Errorf("page fetches: %d", store.pageCalls)
	}
}

func TestDeletePlanned_RemovesOnlyVictims(t *testing.T) {
	store := newPagedStore(5)
	d := NewDeleter(store, 100, 0)

	victims := []domain.Attendee{{PassID: "P-1"}, {PassID: "P-3"}}
	stats, err := d.DeletePlanned(context.Background(), victims)
	if err != nil {
		t.Fatalf("DeletePlanned: %v", err)
	}
	if stats.Deleted != 2 || len(store.records) != 3 {
		t.Errorf("deleted %d, %d remain", stats.Deleted, len(store.records))
	}
	for _, a := range store.records {
		if a.PassID == "P-1" || a.PassID == "P-3" {
			t.Errorf("victim %s survived", a.PassID)
		}
	}
}

func TestDeletePlanned_FailedVictimDoesNotAbortTheRest(t *testing.T) {
	store := newPagedStore(5)
	store.deleteErrs = map[string]error{"P-1": fmt.Errorf("throttled")}
	d := NewDeleter(store, 100, 0)

	victims := []domain.Attendee{{PassID: "P-1"}, {PassID: "P-3"}}
	stats, err := d.DeletePlanned(context.Background(), victims)
	if err != nil {
		t.Fatalf("DeletePlanned: %v", err)
	}
	if stats.Deleted != 1 || stats.Failed != 1 {
		t.Errorf("stats: %+v", stats)
	}
	if stats.Failures[0].PassID != "P-1" {
		t.Errorf("failures: %+v", stats.Failures)
	}
	if len(store.records) != 4 {
		t.Errorf("P-3 must still be deleted: %d remain", len(store.records))
	}
}
