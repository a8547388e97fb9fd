// Package task defines the todo item entity and its state transitions.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidArgument is returned when an id or title fails validation.
var ErrInvalidArgument = errors.New("invalid argument")

// now is the clock used for createdAt and completedAt stamps.
var now = time.Now

// Task is a single todo item.
// The zero value is not a valid task; use New or Reconstruct.
// Line breaks in the title and description are stored as "\n".
type Task struct {
	id          string
	title       string
	description string
	completed   bool
	createdAt   time.Time
	completedAt time.Time // meaningful only when completed
}

// New creates a fresh, incomplete task with a newly generated id.
func New(title, description string) (Task, error) {
	if isBlank(title) {
		return Task{}, fmt.Errorf("%w: title must not be blank", ErrInvalidArgument)
	}
	return Task{
		id:          GenerateNewID(),
		title:       normalizeNewlines(title),
		description: normalizeNewlines(description),
		createdAt:   now(),
	}, nil
}

// Reconstruct rebuilds a task from stored fields.
// A completed task without a completion time is stamped with createdAt;
// an incomplete task never keeps a completion time.
func Reconstruct(id, title, description string, completed bool, createdAt time.Time, completedAt *time.Time) (Task, error) {
	if isBlank(id) {
		return Task{}, fmt.Errorf("%w: id must not be blank", ErrInvalidArgument)
	}
	if isBlank(title) {
		return Task{}, fmt.Errorf("%w: title must not be blank", ErrInvalidArgument)
	}

	t := Task{
		id:          id,
		title:       normalizeNewlines(title),
		description: normalizeNewlines(description),
		completed:   completed,
		createdAt:   createdAt,
	}
	if completed {
		t.completedAt = createdAt
		if completedAt != nil {
			t.completedAt = *completedAt
		}
	}
	return t, nil
}

// GenerateNewID returns a new random task id.
func GenerateNewID() string {
	return uuid.NewString()
}

func (t Task) ID() string           { return t.id }
func (t Task) Title() string        { return t.title }
func (t Task) Description() string  { return t.description }
func (t Task) Completed() bool      { return t.completed }
func (t Task) CreatedAt() time.Time { return t.createdAt }

// CompletedAt returns a copy of the completion time, or nil if the task is open.
func (t Task) CompletedAt() *time.Time {
	if !t.completed {
		return nil
	}
	at := t.completedAt
	return &at
}

// Complete marks the task completed. No-op if already completed.
func (t *Task) Complete() {
	if t.completed {
		return
	}
	t.completed = true
	t.completedAt = now()
}

// Uncomplete reopens the task. No-op if already open.
func (t *Task) Uncomplete() {
	if !t.completed {
		return
	}
	t.completed = false
	t.completedAt = time.Time{}
}

// UpdateTitle replaces the title.
// A blank title is rejected and the task is left unchanged.
func (t *Task) UpdateTitle(title string) error {
	if isBlank(title) {
		return fmt.Errorf("%w: title must not be blank", ErrInvalidArgument)
	}
	t.title = normalizeNewlines(title)
	return nil
}

// UpdateDescription replaces the description. An empty string clears it.
func (t *Task) UpdateDescription(description string) {
	t.description = normalizeNewlines(description)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
