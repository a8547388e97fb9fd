package googletasks

import (
	"strings"
	"time"

	tasks "google.golang.org/api/tasks/v1"

	"todo/internal/task"
)

// metaPrefix starts the last line of the notes of every task written by todo.
// Google assigns its own task ids, so the todo id and creation time live here.
//
//	todo-meta: id=<id> created=<RFC 3339>
const metaPrefix = "todo-meta: "

type meta struct {
	id      string
	created time.Time
}

// encodeNotes appends the metadata trailer to the description.
func encodeNotes(description string, m meta) string {
	trailer := metaPrefix + "id=" + m.id + " created=" + m.created.Format(time.RFC3339Nano)
	if description == "" {
		return trailer
	}
	return description + "\n" + trailer
}

// decodeNotes splits notes into description and trailer.
// ok is false when the notes carry no valid trailer.
func decodeNotes(notes string) (description string, m meta, ok bool) {
	body, last := "", notes
	if i := strings.LastIndex(notes, "\n"); i >= 0 {
		body, last = notes[:i], notes[i+1:]
	}

	rest, found := strings.CutPrefix(last, metaPrefix)
	if !found {
		return notes, meta{}, false
	}

	for _, field := range strings.Fields(rest) {
		key, value, _ := strings.Cut(field, "=")
		switch key {
		case "id":
			m.id = value
		case "created":
			at, err := time.Parse(time.RFC3339, value)
			if err != nil {
				return notes, meta{}, false
			}
			m.created = at
		}
	}
	if m.id == "" || m.created.IsZero() {
		return notes, meta{}, false
	}
	return body, m, true
}

// todoID returns the todo id of a remote task.
func todoID(t *tasks.Task) string {
	if _, m, ok := decodeNotes(t.Notes); ok {
		return m.id
	}
	return t.Id
}

func toRemote(t task.Task) *tasks.Task {
	remote := &tasks.Task{
		Title:  t.Title(),
		Notes:  encodeNotes(t.Description(), meta{id: t.ID(), created: t.CreatedAt()}),
		Status: statusNeedsAction,
	}
	if at := t.CompletedAt(); at != nil {
		completed := at.UTC().Format(time.RFC3339Nano)
		remote.Status = statusCompleted
		remote.Completed = &completed
	} else {
		// Clearing the field is needed to reopen a completed task.
		remote.NullFields = []string{"Completed"}
	}
	return remote
}

// fromRemote converts a Google task. Tasks created outside todo have no
// trailer and use the Google id and last update time instead.
func fromRemote(remote *tasks.Task) (task.Task, error) {
	description, m, ok := decodeNotes(remote.Notes)
	if !ok {
		m.id = remote.Id
		m.created, _ = time.Parse(time.RFC3339, remote.Updated)
	}

	var completedAt *time.Time
	if remote.Completed != nil {
		if at, err := time.Parse(time.RFC3339, *remote.Completed); err == nil {
			completedAt = &at
		}
	}

	return task.Reconstruct(m.id, remote.Title, description, remote.Status == statusCompleted, m.created, completedAt)
}
