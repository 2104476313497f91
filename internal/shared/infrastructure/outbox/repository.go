package outbox

import (
	"context"
	"time"
)

// Repository persists outbox messages.
type Repository interface {
	// SaveBatch stores messages in the caller's transaction when one is in ctx.
	SaveBatch(ctx context.Context, msgs []*Message) error

	// GetUnpublished returns pending messages that are due, oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]*Message, error)

	MarkPublished(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error
	MarkDead(ctx context.Context, id int64, reason string) error

	// DeleteOld removes published messages older than the cutoff.
	DeleteOld(ctx context.Context, before time.Time) (int64, error)

	// Counts reports how many messages are pending and dead-lettered.
	Counts(ctx context.Context) (Counts, error)
}

// Counts is a snapshot of outbox backlog.
type Counts struct {
	Pending int64
	Dead    int64
}
