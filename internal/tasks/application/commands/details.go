package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/nexus/internal/shared/application"
	"github.com/felixgeelhaar/nexus/internal/shared/domain"
	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/outbox"
)

// TaskDetails are the caller-supplied fields of a task.
type TaskDetails struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	TargetType string `json:"targetType"`
}

// saveEvents writes the aggregate's pending events to the outbox in the
// transaction carried by ctx and clears them.
func saveEvents(ctx context.Context, outboxRepo outbox.Repository, aggregate domain.AggregateRoot) error {
	events := aggregate.DomainEvents()
	if len(events) == 0 {
		return nil
	}
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx))

	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	if err := outboxRepo.SaveBatch(ctx, msgs); err != nil {
		return err
	}
	aggregate.ClearDomainEvents()
	return nil
}
