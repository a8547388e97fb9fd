// Package repository defines the backend-agnostic persistence port for tasks.
package repository

import (
	"context"

	"todo/internal/task"
)

// Repository defines the interface for task storage backends.
// The task service only talks to storage through this interface;
// it never imports a backend directly.
type Repository interface {
	// GetAll returns every stored task in no guaranteed order.
	// Returns an empty slice, not an error, when the store is absent or empty.
	GetAll(ctx context.Context) ([]task.Task, error)

	// GetByID returns the task with the given id.
	// A missing id reports found == false with a nil error.
	GetByID(ctx context.Context, id string) (t task.Task, found bool, err error)

	// Save inserts the task, or replaces the stored task with the same id.
	Save(ctx context.Context, t task.Task) error

	// Delete removes the task with the given id. Absent ids are a no-op.
	Delete(ctx context.Context, id string) error
}
