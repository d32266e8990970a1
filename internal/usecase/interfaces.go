package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/lead-ledger/internal/entity"
)

// Clock returns the current time in the ledger's timezone.
type Clock func() time.Time

func SystemClock(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}

type LeadEventPublisher interface {
	PublishLeadEvent(ctx context.Context, event entity.LeadEvent) error
}

// LeadSnapshotter gives read-only, consistent access to the whole ledger.
type LeadSnapshotter interface {
	ReadSnapshot(ctx context.Context, fn func(entity.LeadReader) error) error
}
