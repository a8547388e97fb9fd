// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"todo/internal/repository"
	"todo/internal/task"
)

var _ repository.Repository = (*FakeRepository)(nil)

// FakeRepository is an in-memory implementation of repository.Repository for testing.
// Tasks keep insertion order, like the file repository.
type FakeRepository struct {
	mu    sync.RWMutex
	tasks []task.Task

	// Error injection for testing
	GetAllErr  error
	GetByIDErr error
	SaveErr    error
	DeleteErr  error

	// Saves counts successful Save calls.
	Saves int
}

// NewFakeRepository creates an empty FakeRepository.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{}
}

// AddTask stores tasks directly, bypassing error injection.
func (f *FakeRepository) AddTask(tasks ...task.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, tasks...)
}

// Tasks returns a snapshot of the stored tasks.
func (f *FakeRepository) Tasks() []task.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]task.Task, len(f.tasks))
	copy(result, f.tasks)
	return result
}

// GetAll implements repository.Repository.
func (f *FakeRepository) GetAll(ctx context.Context) ([]task.Task, error) {
	if f.GetAllErr != nil {
		return nil, f.GetAllErr
	}
	return f.Tasks(), nil
}

// GetByID implements repository.Repository.
func (f *FakeRepository) GetByID(ctx context.Context, id string) (task.Task, bool, error) {
	if f.GetByIDErr != nil {
		return task.Task{}, false, f.GetByIDErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID() == id {
			return t, true, nil
		}
	}
	return task.Task{}, false, nil
}

// Save implements repository.Repository.
func (f *FakeRepository) Save(ctx context.Context, t task.Task) error {
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Saves++
	for i := range f.tasks {
		if f.tasks[i].ID() == t.ID() {
			f.tasks[i] = t
			return nil
		}
	}
	f.tasks = append(f.tasks, t)
	return nil
}

// Delete implements repository.Repository.
func (f *FakeRepository) Delete(ctx context.Context, id string) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.tasks[:0]
	for _, t := range f.tasks {
		if t.ID() != id {
			kept = append(kept, t)
		}
	}
	f.tasks = kept
	return nil
}
