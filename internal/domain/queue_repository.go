package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=queue_repository.go -destination=mock_queue_repository.go -package=domain

type QueueRepository interface {
	Create(ctx context.Context, item *QueueItem) error
	GetByID(ctx context.Context, id string) (*QueueItem, error)
	// SelectDue returns items with status pending or error, scheduled at or
	// before now and attempts below their ceiling, ordered by scheduled time
	// ascending, limited to limit. Errored items reappear here until their
	// attempts run out.
	SelectDue(ctx context.Context, now time.Time, limit int) ([]QueueItem, error)
	// Claim conditionally moves a retriable item to processing and
	// increments its attempt counter. Returns ErrItemNotClaimable when
	// another invocation claimed the item first or its attempts are
	// exhausted.
	Claim(ctx context.Context, id string) (*QueueItem, error)
	// Finalize persists the item's terminal state for this attempt: status,
	// per-platform results, error summary and published timestamp.
	Finalize(ctx context.Context, item *QueueItem) error
}
