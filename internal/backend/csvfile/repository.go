// Package csvfile implements repository.Repository on a flat comma-delimited file.
//
// Every operation reads the whole file, and every mutation rewrites it.
// There is no locking: two overlapping Save calls can lose an update.
package csvfile

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"todo/internal/repository"
	"todo/internal/task"
)

const (
	// Header is the first line of every file written by this package.
	Header = "Id,Title,Description,IsCompleted,CreatedAt,CompletedAt"

	// TimeFormat renders timestamps. Parsing accepts any RFC 3339 precision.
	TimeFormat = time.RFC3339Nano

	numColumns = 6
)

var _ repository.Repository = (*Repository)(nil)

// Repository stores tasks in a single file.
type Repository struct {
	path   string
	logger *slog.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger used for skipped-record diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a repository backed by the file at path.
// The file does not need to exist yet.
func New(path string, opts ...Option) *Repository {
	r := &Repository{
		path:   path,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Path returns the backing file path.
func (r *Repository) Path() string {
	return r.path
}

// GetAll reads and parses the whole file.
// Malformed records are skipped, never reported.
func (r *Repository) GetAll(ctx context.Context) ([]task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}

	return r.parse(string(data)), nil
}

// GetByID scans GetAll for the first task with a matching id.
func (r *Repository) GetByID(ctx context.Context, id string) (task.Task, bool, error) {
	tasks, err := r.GetAll(ctx)
	if err != nil {
		return task.Task{}, false, err
	}
	for _, t := range tasks {
		if t.ID() == id {
			return t, true, nil
		}
	}
	return task.Task{}, false, nil
}

// Save replaces the task with the same id in place, or appends it,
// then rewrites the file.
func (r *Repository) Save(ctx context.Context, t task.Task) error {
	tasks, err := r.GetAll(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range tasks {
		if tasks[i].ID() == t.ID() {
			tasks[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		tasks = append(tasks, t)
	}

	return r.write(tasks)
}

// Delete drops every task with the given id and rewrites the file.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tasks, err := r.GetAll(ctx)
	if err != nil {
		return err
	}

	kept := tasks[:0]
	for _, t := range tasks {
		if t.ID() != id {
			kept = append(kept, t)
		}
	}

	return r.write(kept)
}

// parse decodes file content. The first physical line is the header.
//
// Each record is read as RFC 4180 first. When that fails, or the quoted
// record would swallow a line that is itself a valid legacy record, the
// physical line is split on the delimiter instead.
func (r *Repository) parse(content string) []task.Task {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	_, body, _ := strings.Cut(content, "\n")

	var tasks []task.Task
	for lineNo := 2; body != ""; {
		line, rest, _ := strings.Cut(body, "\n")
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			body = rest
			lineNo++
			continue
		}

		if t, size, ok := decodeQuoted(body); ok {
			tasks = append(tasks, t)
			lineNo += strings.Count(body[:size], "\n")
			body = body[size:]
			continue
		}

		t, err := decodeLine(line)
		if err != nil {
			r.logger.Debug("skipping malformed record", "file", r.path, "line", lineNo, "error", err)
		} else {
			tasks = append(tasks, t)
		}
		body = rest
		lineNo++
	}

	return tasks
}

// decodeQuoted reads one RFC 4180 record from the start of s and returns it
// with the number of bytes it used.
func decodeQuoted(s string) (task.Task, int, bool) {
	cr := csv.NewReader(strings.NewReader(s))
	cr.FieldsPerRecord = -1

	record, err := cr.Read()
	if err != nil {
		return task.Task{}, 0, false
	}
	t, err := decodeRecord(record)
	if err != nil {
		return task.Task{}, 0, false
	}

	size := int(cr.InputOffset())
	lines := strings.Split(strings.TrimSuffix(s[:size], "\n"), "\n")
	for _, l := range lines[1:] {
		if _, err := decodeLine(strings.TrimSuffix(l, "\r")); err == nil {
			return task.Task{}, 0, false
		}
	}
	return t, size, true
}

// decodeLine decodes an unquoted legacy record.
func decodeLine(line string) (task.Task, error) {
	return decodeRecord(strings.Split(line, ","))
}

// write renders the full task set and swaps it into place.
func (r *Repository) write(tasks []task.Task) error {
	var buf bytes.Buffer
	buf.WriteString(Header)
	buf.WriteByte('\n')

	cw := csv.NewWriter(&buf)
	for _, t := range tasks {
		if err := cw.Write(encodeRecord(t)); err != nil {
			return fmt.Errorf("encode task %s: %w", t.ID(), err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}

	return writeFileAtomic(r.path, buf.Bytes())
}

func encodeRecord(t task.Task) []string {
	completedAt := ""
	if at := t.CompletedAt(); at != nil {
		completedAt = at.Format(TimeFormat)
	}
	return []string{
		t.ID(),
		t.Title(),
		t.Description(),
		formatBool(t.Completed()),
		t.CreatedAt().Format(TimeFormat),
		completedAt,
	}
}

func decodeRecord(record []string) (task.Task, error) {
	if len(record) != numColumns {
		return task.Task{}, fmt.Errorf("expected %d columns, got %d", numColumns, len(record))
	}

	completed, err := parseBool(record[3])
	if err != nil {
		return task.Task{}, err
	}

	createdAt, err := time.Parse(time.RFC3339, strings.TrimSpace(record[4]))
	if err != nil {
		return task.Task{}, fmt.Errorf("invalid CreatedAt: %w", err)
	}

	var completedAt *time.Time
	if s := strings.TrimSpace(record[5]); s != "" {
		at, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return task.Task{}, fmt.Errorf("invalid CompletedAt: %w", err)
		}
		completedAt = &at
	}

	return task.Reconstruct(record[0], record[1], record[2], completed, createdAt, completedAt)
}

// formatBool writes the capitalized literals used by existing files.
func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func parseBool(s string) (bool, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid IsCompleted: %q", s)
	}
	return b, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
