package pipeline

import (
	"context"
	"errors"

	"github.com/tngss/attendee-sync/internal/apiclient"
	"github.com/tngss/attendee-sync/internal/domain"
	"github.com/tngss/attendee-sync/internal/service/attendee"
)

// Sink writes one record to the migration target. created is false when the
// pass already existed, which a resumed run treats as progress, not failure.
type Sink interface {
	Create(ctx context.Context, a *domain.Attendee) (created bool, err error)
	Name() string
}

// StoreSink writes straight to the attendee store.
type StoreSink struct {
	svc *attendee.Service
}

// NewStoreSink wraps the attendee service as a sink.
func NewStoreSink(svc *attendee.Service) *StoreSink {
	return &StoreSink{svc: svc}
}

func (s *StoreSink) Create(ctx context.Context, a *domain.Attendee) (bool, error) {
	err := s.svc.Create(ctx, a)
	if errors.Is(err, attendee.ErrDuplicatePass) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *StoreSink) Name() string { return "store" }

// APISink writes through the registration API's creation endpoint.
type APISink struct {
	client *apiclient.Client
}

// NewAPISink wraps the registration API client as a sink.
func NewAPISink(client *apiclient.Client) *APISink {
	return &APISink{client: client}
}

func (s *APISink) Create(ctx context.Context, a *domain.Attendee) (bool, error) {
	res, err := s.client.CreatePass(ctx, a)
	if err != nil {
		return false, err
	}
	return res == apiclient.ResultCreated, nil
}

func (s *APISink) Name() string { return "registration-api" }
