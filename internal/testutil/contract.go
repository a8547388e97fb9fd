package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/repository"
	"todo/internal/task"
)

// RepositoryFactory returns an empty repository for one contract subtest.
type RepositoryFactory func(t *testing.T) repository.Repository

// MustTask reconstructs a task or fails the test.
func MustTask(t *testing.T, id, title, description string, completed bool, createdAt time.Time, completedAt *time.Time) task.Task {
	t.Helper()
	tk, err := task.Reconstruct(id, title, description, completed, createdAt, completedAt)
	require.NoError(t, err)
	return tk
}

// AssertSameTask compares every field, with timestamps compared to the millisecond.
func AssertSameTask(t *testing.T, want, got task.Task) {
	t.Helper()
	assert.Equal(t, want.ID(), got.ID(), "id")
	assert.Equal(t, want.Title(), got.Title(), "title")
	assert.Equal(t, want.Description(), got.Description(), "description")
	assert.Equal(t, want.Completed(), got.Completed(), "completed")
	assert.WithinDuration(t, want.CreatedAt(), got.CreatedAt(), time.Millisecond, "createdAt")
	if want.CompletedAt() == nil {
		assert.Nil(t, got.CompletedAt(), "completedAt")
		return
	}
	if assert.NotNil(t, got.CompletedAt(), "completedAt") {
		assert.WithinDuration(t, *want.CompletedAt(), *got.CompletedAt(), time.Millisecond, "completedAt")
	}
}

// RunRepositoryContract checks the behavior every repository.Repository must share.
func RunRepositoryContract(t *testing.T, newRepo RepositoryFactory) {
	ctx := context.Background()
	created := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	done := created.Add(90 * time.Minute)

	t.Run("empty store", func(t *testing.T) {
		repo := newRepo(t)

		tasks, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, tasks)

		_, found, err := repo.GetByID(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("save inserts", func(t *testing.T) {
		repo := newRepo(t)
		a := MustTask(t, "id-a", "Buy milk", "", false, created, nil)
		b := MustTask(t, "id-b", "Pay rent", "before the 5th", true, created.Add(time.Minute), &done)

		require.NoError(t, repo.Save(ctx, a))
		require.NoError(t, repo.Save(ctx, b))

		tasks, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 2)

		got, found, err := repo.GetByID(ctx, "id-b")
		require.NoError(t, err)
		require.True(t, found)
		AssertSameTask(t, b, got)
	})

	t.Run("save replaces by id", func(t *testing.T) {
		repo := newRepo(t)
		orig := MustTask(t, "id-a", "Draft", "v1", false, created, nil)
		require.NoError(t, repo.Save(ctx, orig))

		updated := MustTask(t, "id-a", "Final", "v2", true, created, &done)
		require.NoError(t, repo.Save(ctx, updated))

		tasks, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		AssertSameTask(t, updated, tasks[0])
	})

	t.Run("save reopens a completed task", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Save(ctx, MustTask(t, "id-a", "t", "", true, created, &done)))
		require.NoError(t, repo.Save(ctx, MustTask(t, "id-a", "t", "", false, created, nil)))

		got, found, err := repo.GetByID(ctx, "id-a")
		require.NoError(t, err)
		require.True(t, found)
		assert.False(t, got.Completed())
		assert.Nil(t, got.CompletedAt())
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Save(ctx, MustTask(t, "id-a", "a", "", false, created, nil)))
		require.NoError(t, repo.Save(ctx, MustTask(t, "id-b", "b", "", false, created, nil)))

		require.NoError(t, repo.Delete(ctx, "id-a"))

		tasks, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "id-b", tasks[0].ID())

		_, found, err := repo.GetByID(ctx, "id-a")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("delete absent id", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Save(ctx, MustTask(t, "id-a", "a", "", false, created, nil)))

		require.NoError(t, repo.Delete(ctx, "nope"))

		tasks, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, tasks, 1)
	})

	t.Run("returned tasks are copies", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Save(ctx, MustTask(t, "id-a", "a", "", false, created, nil)))

		got, _, err := repo.GetByID(ctx, "id-a")
		require.NoError(t, err)
		got.Complete()

		again, _, err := repo.GetByID(ctx, "id-a")
		require.NoError(t, err)
		assert.False(t, again.Completed())
	})
}
