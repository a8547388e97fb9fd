// Package service implements the task use cases on top of a repository.Repository.
// Commands never talk to a repository directly.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"todo/internal/repository"
	"todo/internal/task"
)

// TaskService coordinates task operations against a single repository.
type TaskService struct {
	repo   repository.Repository
	logger *slog.Logger
}

// New creates a TaskService. A nil logger discards output.
func New(repo repository.Repository, logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &TaskService{repo: repo, logger: logger}
}

// ListAll returns every stored task in repository order.
func (s *TaskService) ListAll(ctx context.Context) ([]task.Task, error) {
	tasks, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Get returns the task with the given id.
func (s *TaskService) Get(ctx context.Context, id string) (task.Task, bool, error) {
	t, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return task.Task{}, false, fmt.Errorf("get task %s: %w", id, err)
	}
	return t, found, nil
}

// Create validates and stores a new open task.
// A blank title fails with task.ErrInvalidArgument and nothing is stored.
func (s *TaskService) Create(ctx context.Context, title, description string) (task.Task, error) {
	t, err := task.New(title, description)
	if err != nil {
		return task.Task{}, err
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return task.Task{}, fmt.Errorf("save task: %w", err)
	}
	s.logger.Debug("task created", "id", t.ID())
	return t, nil
}

// ToggleComplete flips the completion state of a task.
// An unknown id is a no-op.
func (s *TaskService) ToggleComplete(ctx context.Context, id string) error {
	return s.update(ctx, id, "toggle", func(t *task.Task) error {
		if t.Completed() {
			t.Uncomplete()
		} else {
			t.Complete()
		}
		return nil
	})
}

// UpdateTitle renames a task. An unknown id is a no-op; a blank title
// fails with task.ErrInvalidArgument and nothing is saved.
func (s *TaskService) UpdateTitle(ctx context.Context, id, title string) error {
	return s.update(ctx, id, "rename", func(t *task.Task) error {
		return t.UpdateTitle(title)
	})
}

// UpdateDescription replaces a task's description. An unknown id is a no-op.
func (s *TaskService) UpdateDescription(ctx context.Context, id, description string) error {
	return s.update(ctx, id, "describe", func(t *task.Task) error {
		t.UpdateDescription(description)
		return nil
	})
}

// Delete removes a task. An unknown id is a no-op.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	s.logger.Debug("task deleted", "id", id)
	return nil
}

// update loads a task, applies mutate and saves the result.
func (s *TaskService) update(ctx context.Context, id, op string, mutate func(*task.Task) error) error {
	t, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get task %s: %w", id, err)
	}
	if !found {
		s.logger.Debug("task not found, nothing to do", "op", op, "id", id)
		return nil
	}

	if err := mutate(&t); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return fmt.Errorf("save task %s: %w", id, err)
	}
	s.logger.Debug("task updated", "op", op, "id", id)
	return nil
}
