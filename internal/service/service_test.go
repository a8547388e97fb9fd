package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/backend/csvfile"
	"todo/internal/task"
	"todo/internal/testutil"
)

var errDisk = errors.New("disk on fire")

func newTestService(t *testing.T) (*TaskService, *testutil.FakeRepository) {
	t.Helper()
	repo := testutil.NewFakeRepository()
	return New(repo, nil), repo
}

func TestCreate(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "Buy milk", "")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", created.Title())
	assert.False(t, created.Completed())

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	testutil.AssertSameTask(t, created, all[0])
	assert.Equal(t, 1, repo.Saves)
}

func TestCreate_BlankTitle(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.Create(context.Background(), "   ", "desc")
	require.ErrorIs(t, err, task.ErrInvalidArgument)
	assert.Empty(t, repo.Tasks())
	assert.Equal(t, 0, repo.Saves)
}

func TestCreate_SaveError(t *testing.T) {
	svc, repo := newTestService(t)
	repo.SaveErr = errDisk

	_, err := svc.Create(context.Background(), "Buy milk", "")
	require.ErrorIs(t, err, errDisk)
}

func TestToggleComplete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, "first", "")
	require.NoError(t, err)
	second, err := svc.Create(ctx, "second", "")
	require.NoError(t, err)

	require.NoError(t, svc.ToggleComplete(ctx, first.ID()))

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID(), all[0].ID())
	assert.True(t, all[0].Completed())
	assert.NotNil(t, all[0].CompletedAt())
	assert.Equal(t, second.ID(), all[1].ID())
	assert.False(t, all[1].Completed())

	// Toggling again reopens the task.
	require.NoError(t, svc.ToggleComplete(ctx, first.ID()))
	got, found, err := svc.Get(ctx, first.ID())
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, got.Completed())
	assert.Nil(t, got.CompletedAt())
}

func TestToggleComplete_Missing(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	existing, err := svc.Create(ctx, "keep", "")
	require.NoError(t, err)
	saves := repo.Saves

	require.NoError(t, svc.ToggleComplete(ctx, "nonexistent"))

	assert.Equal(t, saves, repo.Saves)
	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	testutil.AssertSameTask(t, existing, all[0])
}

func TestUpdateTitle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	tk, err := svc.Create(ctx, "draft", "notes")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateTitle(ctx, tk.ID(), "final"))

	got, found, err := svc.Get(ctx, tk.ID())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "final", got.Title())
	assert.Equal(t, "notes", got.Description())
}

func TestUpdateTitle_Blank(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	tk, err := svc.Create(ctx, "draft", "")
	require.NoError(t, err)
	saves := repo.Saves

	err = svc.UpdateTitle(ctx, tk.ID(), " ")
	require.ErrorIs(t, err, task.ErrInvalidArgument)
	assert.Equal(t, saves, repo.Saves)

	got, _, err := svc.Get(ctx, tk.ID())
	require.NoError(t, err)
	assert.Equal(t, "draft", got.Title())
}

func TestUpdateTitle_Missing(t *testing.T) {
	svc, repo := newTestService(t)

	require.NoError(t, svc.UpdateTitle(context.Background(), "nonexistent", "x"))
	assert.Equal(t, 0, repo.Saves)
}

func TestUpdateDescription(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	tk, err := svc.Create(ctx, "task", "old")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateDescription(ctx, tk.ID(), ""))

	got, _, err := svc.Get(ctx, tk.ID())
	require.NoError(t, err)
	assert.Equal(t, "", got.Description())

	require.NoError(t, svc.UpdateDescription(context.Background(), "nonexistent", "x"))
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	a, err := svc.Create(ctx, "a", "")
	require.NoError(t, err)
	b, err := svc.Create(ctx, "b", "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, a.ID()))
	require.NoError(t, svc.Delete(ctx, "nonexistent"))

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, b.ID(), all[0].ID())
}

func TestRepositoryErrors(t *testing.T) {
	ctx := context.Background()
	tk := testutil.MustTask(t, "id-1", "t", "", false, time.Now(), nil)

	tests := []struct {
		name   string
		inject func(*testutil.FakeRepository)
		call   func(*TaskService) error
	}{
		{
			name:   "list",
			inject: func(r *testutil.FakeRepository) { r.GetAllErr = errDisk },
			call:   func(s *TaskService) error { _, err := s.ListAll(ctx); return err },
		},
		{
			name:   "get",
			inject: func(r *testutil.FakeRepository) { r.GetByIDErr = errDisk },
			call:   func(s *TaskService) error { _, _, err := s.Get(ctx, "id-1"); return err },
		},
		{
			name:   "toggle lookup",
			inject: func(r *testutil.FakeRepository) { r.GetByIDErr = errDisk },
			call:   func(s *TaskService) error { return s.ToggleComplete(ctx, "id-1") },
		},
		{
			name:   "toggle save",
			inject: func(r *testutil.FakeRepository) { r.SaveErr = errDisk },
			call:   func(s *TaskService) error { return s.ToggleComplete(ctx, "id-1") },
		},
		{
			name:   "rename save",
			inject: func(r *testutil.FakeRepository) { r.SaveErr = errDisk },
			call:   func(s *TaskService) error { return s.UpdateTitle(ctx, "id-1", "new") },
		},
		{
			name:   "delete",
			inject: func(r *testutil.FakeRepository) { r.DeleteErr = errDisk },
			call:   func(s *TaskService) error { return s.Delete(ctx, "id-1") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewFakeRepository()
			repo.AddTask(tk)
			tt.inject(repo)

			err := tt.call(New(repo, nil))
			require.ErrorIs(t, err, errDisk)
		})
	}
}

func TestWithCSVRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.csv")
	ctx := context.Background()

	svc := New(csvfile.New(path), nil)
	first, err := svc.Create(ctx, "Buy milk", "2 litres")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Call mom", "")
	require.NoError(t, err)
	require.NoError(t, svc.ToggleComplete(ctx, first.ID()))

	// A fresh service over the same file sees the same state.
	reopened := New(csvfile.New(path), nil)
	all, err := reopened.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Buy milk", all[0].Title())
	assert.True(t, all[0].Completed())
	assert.Equal(t, "Call mom", all[1].Title())
	assert.False(t, all[1].Completed())
}
