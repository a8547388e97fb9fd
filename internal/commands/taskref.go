package commands

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/task"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ErrTaskNotFound indicates a reference matched no task.
var ErrTaskNotFound = errors.New("task not found")

// ErrAmbiguousRef indicates an id prefix matched more than one task.
var ErrAmbiguousRef = errors.New("ambiguous task reference")

// ParseTaskRef returns the first argument as a task reference and the rest.
func ParseTaskRef(args []string) (string, []string, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", nil, ErrTaskRefRequired
	}
	return strings.TrimSpace(args[0]), args[1:], nil
}

// ParseTaskRefs returns every argument as a task reference.
func ParseTaskRefs(args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, ErrTaskRefRequired
	}
	refs := make([]string, 0, len(args))
	for _, arg := range args {
		ref := strings.TrimSpace(arg)
		if ref == "" {
			return nil, ErrTaskRefRequired
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// SortTasks orders tasks the way list numbers them: by creation time, then id.
func SortTasks(tasks []task.Task) {
	slices.SortStableFunc(tasks, func(a, b task.Task) int {
		if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID(), b.ID())
	})
}

// ResolveTaskRefs resolves references against one snapshot of all tasks.
//
// A reference is resolved in this order:
//  1. all digits and within 1..len(tasks): the task with that list number
//  2. an exact task id
//  3. a unique id prefix
func ResolveTaskRefs(ctx context.Context, svc *service.TaskService, refs []string) ([]task.Task, error) {
	tasks, err := svc.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	SortTasks(tasks)

	result := make([]task.Task, 0, len(refs))
	for _, ref := range refs {
		t, err := resolveOne(tasks, ref)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, nil
}

// ResolveTaskRef resolves a single reference.
func ResolveTaskRef(ctx context.Context, svc *service.TaskService, ref string) (task.Task, error) {
	tasks, err := ResolveTaskRefs(ctx, svc, []string{ref})
	if err != nil {
		return task.Task{}, err
	}
	return tasks[0], nil
}

func resolveOne(tasks []task.Task, ref string) (task.Task, error) {
	numeric := isAllDigits(ref)
	if numeric {
		if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(tasks) {
			return tasks[n-1], nil
		}
	}

	var matches []task.Task
	for _, t := range tasks {
		if t.ID() == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID(), ref) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return task.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, ref)
	default:
		return task.Task{}, fmt.Errorf("%w: %s matches %d tasks", ErrAmbiguousRef, ref, len(matches))
	}
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// reportError prints err and returns the exit code for it.
// Reference and validation problems are user errors; anything else came from storage.
func reportError(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, ErrTaskRefRequired),
		errors.Is(err, ErrTaskNotFound),
		errors.Is(err, ErrAmbiguousRef),
		errors.Is(err, task.ErrInvalidArgument):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: storage error: %v\n", err)
		return exitcode.StorageError
	}
}

// printOK prints the success marker unless quiet.
func printOK(out io.Writer, quiet bool) {
	if !quiet {
		fmt.Fprintln(out, "ok")
	}
}
