package attendee

import (
	"context"

	"github.com/tngss/attendee-sync/internal/domain"
)

// Repository defines the data access contract for attendee records.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Create inserts a record only if no record with the same pass_id
	// exists. Returns ErrDuplicatePass otherwise.
	Create(ctx context.Context, a *domain.Attendee) error

	// Put writes a record unconditionally, replacing any record with the
	// same pass_id.
	Put(ctx context.Context, a *domain.Attendee) error

	// Delete removes the record with the given pass_id. Deleting a missing
	// record is not an error.
	Delete(ctx context.Context, passID string) error

	// GetByPassID returns a single record. Returns ErrNotFound if it
	// doesn't exist.
	GetByPassID(ctx context.Context, passID string) (*domain.Attendee, error)

	// FindByEmail returns every record whose stored email equals the given
	// normalized email.
	FindByEmail(ctx context.Context, email string) ([]domain.Attendee, error)

	// Page returns up to limit records in storage order. Callers that
	// delete as they go re-request the first page until it comes back
	// empty.
	Page(ctx context.Context, limit int) ([]domain.Attendee, error)

	// All returns every record. Intended for reconciliation and stats
	// passes, not request paths.
	All(ctx context.Context) ([]domain.Attendee, error)

	// Count returns the total number of records.
	Count(ctx context.Context) (int, error)
}
