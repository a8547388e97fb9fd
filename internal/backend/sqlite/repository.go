// Package sqlite implements repository.Repository on an embedded SQLite database via GORM.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"todo/internal/repository"
	"todo/internal/task"
)

var _ repository.Repository = (*Repository)(nil)

// taskRow is the persisted shape of a task.
type taskRow struct {
	ID          string     `gorm:"primaryKey;size:36"`
	Title       string     `gorm:"not null"`
	Description string     `gorm:"not null"`
	Completed   bool       `gorm:"not null"`
	CreatedAt   time.Time  `gorm:"not null;index;autoCreateTime:false"`
	CompletedAt *time.Time
}

// TableName returns the table name for taskRow.
func (taskRow) TableName() string {
	return "tasks"
}

// Repository stores tasks in a SQLite table keyed by id.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for a throwaway database.
func Open(path string, log *slog.Logger) (*Repository, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create directory for %s: %w", path, err)
		}
	}

	db, err := gorm.Open(gormsqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// Each connection to ":memory:" is a separate database.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	sqlDB.SetMaxOpenConns(1)

	return New(db, log)
}

// New wraps an existing GORM handle and migrates the schema.
func New(db *gorm.DB, log *slog.Logger) (*Repository, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := db.AutoMigrate(&taskRow{}); err != nil {
		return nil, fmt.Errorf("migrate tasks table: %w", err)
	}
	return &Repository{db: db, logger: log}, nil
}

// Close releases the underlying connection pool.
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetAll returns every task ordered by creation time.
// Rows that no longer form a valid task are skipped.
func (r *Repository) GetAll(ctx context.Context) ([]task.Task, error) {
	var rows []taskRow
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]task.Task, 0, len(rows))
	for _, row := range rows {
		t, err := row.toTask()
		if err != nil {
			r.logger.Debug("skipping invalid row", "id", row.ID, "error", err)
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// GetByID looks up a single task by primary key.
func (r *Repository) GetByID(ctx context.Context, id string) (task.Task, bool, error) {
	var row taskRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return task.Task{}, false, nil
		}
		return task.Task{}, false, fmt.Errorf("failed to find task: %w", err)
	}

	t, err := row.toTask()
	if err != nil {
		r.logger.Debug("skipping invalid row", "id", row.ID, "error", err)
		return task.Task{}, false, nil
	}
	return t, true, nil
}

// Save upserts the task, replacing every column on conflict.
func (r *Repository) Save(ctx context.Context, t task.Task) error {
	row := fromTask(t)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description", "completed", "created_at", "completed_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// Delete removes the task. Deleting an absent id is not an error.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&taskRow{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func fromTask(t task.Task) taskRow {
	return taskRow{
		ID:          t.ID(),
		Title:       t.Title(),
		Description: t.Description(),
		Completed:   t.Completed(),
		CreatedAt:   t.CreatedAt(),
		CompletedAt: t.CompletedAt(),
	}
}

func (row taskRow) toTask() (task.Task, error) {
	return task.Reconstruct(row.ID, row.Title, row.Description, row.Completed, row.CreatedAt, row.CompletedAt)
}
