package task

import (
	"errors"
	"fmt"
)

var (
	// ErrTaskNotFound matches every NotFoundError via errors.Is.
	ErrTaskNotFound      = errors.New("task not found")
	ErrIDAlreadyAssigned = errors.New("task id already assigned")
	ErrInvalidID         = errors.New("task id must be positive")
)

// NotFoundError reports that no task exists with the given id.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task not found with id %d", e.ID)
}

// Is lets errors.Is(err, ErrTaskNotFound) succeed.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrTaskNotFound
}
