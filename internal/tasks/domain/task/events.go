package task

import "github.com/felixgeelhaar/nexus/internal/shared/domain"

const (
	AggregateType = "Task"

	RoutingKeyCreated = "nexus.task.created"
	RoutingKeyUpdated = "nexus.task.updated"
	RoutingKeyDeleted = "nexus.task.deleted"
)

// TaskCreated is emitted once a new task has been stored.
type TaskCreated struct {
	domain.BaseEvent
	Name       string `json:"name"`
	Status     string `json:"status"`
	TargetType string `json:"target_type"`
}

// NewTaskCreated creates a TaskCreated event.
func NewTaskCreated(t *Task) *TaskCreated {
	return &TaskCreated{
		BaseEvent:  domain.NewBaseEvent(aggregateID(t.id), AggregateType, RoutingKeyCreated),
		Name:       t.name,
		Status:     t.status,
		TargetType: t.targetType,
	}
}

// TaskUpdated carries the task fields after an update.
type TaskUpdated struct {
	domain.BaseEvent
	Name       string `json:"name"`
	Status     string `json:"status"`
	TargetType string `json:"target_type"`
}

// NewTaskUpdated creates a TaskUpdated event.
func NewTaskUpdated(t *Task) *TaskUpdated {
	return &TaskUpdated{
		BaseEvent:  domain.NewBaseEvent(aggregateID(t.id), AggregateType, RoutingKeyUpdated),
		Name:       t.name,
		Status:     t.status,
		TargetType: t.targetType,
	}
}

// TaskDeleted is emitted when a task is removed.
type TaskDeleted struct {
	domain.BaseEvent
}

// NewTaskDeleted creates a TaskDeleted event.
func NewTaskDeleted(id int64) *TaskDeleted {
	return &TaskDeleted{
		BaseEvent: domain.NewBaseEvent(aggregateID(id), AggregateType, RoutingKeyDeleted),
	}
}
