// Package task holds the Task aggregate and its persistence port.
package task

import (
	"strconv"
	"time"

	"github.com/felixgeelhaar/nexus/internal/shared/domain"
)

// Well-known status values. They are conventions used by tooling, not
// enforced states.
const (
	StatusPending = "PENDING"
	StatusRunning = "RUNNING"
	StatusDone    = "DONE"
	StatusFailed  = "FAILED"
)

// Task is a named unit of work tagged with a status and a target type.
// The id is zero until the store assigns one.
type Task struct {
	domain.BaseAggregateRoot
	id         int64
	name       string
	status     string
	targetType string
	createdAt  time.Time
	updatedAt  time.Time
}

// NewTask creates an unsaved task.
func NewTask(name, status, targetType string) *Task {
	now := time.Now().UTC()
	return &Task{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		name:              name,
		status:            status,
		targetType:        targetType,
		createdAt:         now,
		updatedAt:         now,
	}
}

// Rehydrate rebuilds a task from stored state without recording events.
func Rehydrate(id int64, name, status, targetType string, createdAt, updatedAt time.Time) *Task {
	return &Task{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		id:                id,
		name:              name,
		status:            status,
		targetType:        targetType,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

func (t *Task) ID() int64            { return t.id }
func (t *Task) Name() string         { return t.name }
func (t *Task) Status() string       { return t.status }
func (t *Task) TargetType() string   { return t.targetType }
func (t *Task) CreatedAt() time.Time { return t.createdAt }
func (t *Task) UpdatedAt() time.Time { return t.updatedAt }

// IsNew reports whether the task has not been persisted yet.
func (t *Task) IsNew() bool { return t.id == 0 }

// AssignID is called by the store once the row exists. The created event is
// recorded here because the aggregate id is unknown before insertion.
func (t *Task) AssignID(id int64) error {
	if !t.IsNew() {
		return ErrIDAlreadyAssigned
	}
	if id <= 0 {
		return ErrInvalidID
	}
	t.id = id
	t.AddDomainEvent(NewTaskCreated(t))
	return nil
}

// Update overwrites all three mutable fields. Empty values overwrite too.
func (t *Task) Update(name, status, targetType string) {
	t.name = name
	t.status = status
	t.targetType = targetType
	t.updatedAt = time.Now().UTC()
	t.AddDomainEvent(NewTaskUpdated(t))
}

// MarkDeleted records that the task is being removed.
func (t *Task) MarkDeleted() {
	t.AddDomainEvent(NewTaskDeleted(t.id))
}

func aggregateID(id int64) string {
	return strconv.FormatInt(id, 10)
}
