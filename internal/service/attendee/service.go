package attendee

import (
	"context"
	"fmt"
	"time"

	"github.com/tngss/attendee-sync/internal/domain"
)

// Outcome describes how an upsert landed.
type Outcome string

const (
	OutcomeCreated         Outcome = "created"
	OutcomeUpdatedByPassID Outcome = "updated_by_pass_id"
	OutcomeUpdatedByEmail  Outcome = "updated_by_email"
)

// Service implements attendee business logic on top of a Repository.
// All public methods are safe for concurrent use if the underlying
// repository is concurrency-safe.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates an attendee service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create inserts a new record. The email is normalized before storage and
// timestamps are stamped here so every write path agrees on them. A pass_id
// collision surfaces as ErrDuplicatePass; callers on the migration path
// treat that as already-migrated rather than a failure.
func (s *Service) Create(ctx context.Context, a *domain.Attendee) error {
	if a.PassID == "" {
		return ErrMissingPassID
	}
	a.Email = domain.NormalizeEmail(a.Email)
	ts := s.now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = ts
	}
	a.UpdatedAt = ts

	if err := s.repo.Create(ctx, a); err != nil {
		return err
	}
	return nil
}

// Upsert converges the store on one record for the attendee, whichever key
// matches first. Lookup order is pass_id then email:
//
//   - a pass_id match is overwritten in place, email included, so an email
//     correction at the source propagates;
//   - an email match is overwritten under the incoming pass_id, and when
//     that differs from the stored one the stale item is deleted so the
//     record moves keys instead of forking;
//   - no match inserts a fresh record.
func (s *Service) Upsert(ctx context.Context, a *domain.Attendee) (Outcome, error) {
	if a.PassID == "" {
		return "", ErrMissingPassID
	}
	a.Email = domain.NormalizeEmail(a.Email)
	ts := s.now().UTC()

	existing, err := s.repo.GetByPassID(ctx, a.PassID)
	if err != nil && err != ErrNotFound {
		return "", fmt.Errorf("lookup by pass_id: %w", err)
	}
	if existing != nil {
		a.CreatedAt = existing.CreatedAt
		a.UpdatedAt = ts
		if err := s.repo.Put(ctx, a); err != nil {
			return "", fmt.Errorf("overwrite by pass_id: %w", err)
		}
		return OutcomeUpdatedByPassID, nil
	}

	if a.Email != "" {
		matches, err := s.repo.FindByEmail(ctx, a.Email)
		if err != nil {
			return "", fmt.Errorf("lookup by email: %w", err)
		}
		if len(matches) > 0 {
			prev := matches[0]
			a.CreatedAt = prev.CreatedAt
			a.UpdatedAt = ts
			if err := s.repo.Put(ctx, a); err != nil {
				return "", fmt.Errorf("overwrite by email: %w", err)
			}
			if prev.PassID != a.PassID {
				if err := s.repo.Delete(ctx, prev.PassID); err != nil {
					return "", fmt.Errorf("delete stale pass %s: %w", prev.PassID, err)
				}
			}
			return OutcomeUpdatedByEmail, nil
		}
	}

	a.CreatedAt = ts
	a.UpdatedAt = ts
	if err := s.repo.Create(ctx, a); err != nil {
		return "", err
	}
	return OutcomeCreated, nil
}

// Get returns a single record by pass_id.
func (s *Service) Get(ctx context.Context, passID string) (*domain.Attendee, error) {
	return s.repo.GetByPassID(ctx, passID)
}

// All returns every stored record.
func (s *Service) All(ctx context.Context) ([]domain.Attendee, error) {
	return s.repo.All(ctx)
}

// Count returns the number of stored records.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Delete removes a record by pass_id.
func (s *Service) Delete(ctx context.Context, passID string) error {
	return s.repo.Delete(ctx, passID)
}

// Page returns the first page of records, up to limit.
func (s *Service) Page(ctx context.Context, limit int) ([]domain.Attendee, error) {
	return s.repo.Page(ctx, limit)
}
