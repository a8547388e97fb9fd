package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"todo/internal/service"
	"todo/internal/task"
	"todo/internal/testutil"
)

func TestParseTaskRef(t *testing.T) {
	ref, rest, err := ParseTaskRef([]string{" 5 ", "new", "title"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref != "5" {
		t.Errorf("expected ref 5, got %q", ref)
	}
	if len(rest) != 2 || rest[0] != "new" {
		t.Errorf("unexpected rest: %v", rest)
	}
}

func TestParseTaskRef_NoArgs_Error(t *testing.T) {
	for _, args := range [][]string{nil, {}, {"  "}} {
		_, _, err := ParseTaskRef(args)
		if err != ErrTaskRefRequired {
			t.Errorf("ParseTaskRef(%q): expected ErrTaskRefRequired, got %v", args, err)
		}
	}
}

func TestParseTaskRefs(t *testing.T) {
	refs, err := ParseTaskRefs([]string{"1", "abc", "3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 3 || refs[1] != "abc" {
		t.Errorf("unexpected refs: %v", refs)
	}

	if _, err := ParseTaskRefs(nil); err != ErrTaskRefRequired {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
	if _, err := ParseTaskRefs([]string{"1", ""}); err != ErrTaskRefRequired {
		t.Errorf("expected ErrTaskRefRequired for blank ref, got %v", err)
	}
}

func TestSortTasks(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		testutil.MustTask(t, "c", "late", "", false, at.Add(time.Hour), nil),
		testutil.MustTask(t, "b", "tie", "", false, at, nil),
		testutil.MustTask(t, "a", "tie", "", false, at, nil),
	}

	SortTasks(tasks)

	got := []string{tasks[0].ID(), tasks[1].ID(), tasks[2].ID()}
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestResolveTaskRefs(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := testutil.NewFakeRepository()
	repo.AddTask(
		testutil.MustTask(t, "2f00", "second", "", false, at.Add(time.Minute), nil),
		testutil.MustTask(t, "1a00", "first", "", false, at, nil),
		testutil.MustTask(t, "2f01", "third", "", false, at.Add(2*time.Minute), nil),
	)
	svc := service.New(repo, nil)

	tests := []struct {
		ref     string
		wantID  string
		wantErr error
	}{
		{ref: "1", wantID: "1a00"},
		{ref: "3", wantID: "2f01"},
		{ref: "1a", wantID: "1a00"},
		{ref: "2f01", wantID: "2f01"},
		{ref: "2f", wantErr: ErrAmbiguousRef},
		{ref: "0", wantErr: ErrTaskNotFound},
		{ref: "4", wantErr: ErrTaskNotFound},
		{ref: "zz", wantErr: ErrTaskNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := ResolveTaskRef(context.Background(), svc, tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID() != tt.wantID {
				t.Errorf("expected %s, got %s", tt.wantID, got.ID())
			}
		})
	}
}

func TestIsAllDigits(t *testing.T) {
	tests := map[string]bool{"": false, "0": true, "123": true, "12a": false, "١٢": false, "-1": false}
	for in, want := range tests {
		if got := isAllDigits(in); got != want {
			t.Errorf("isAllDigits(%q) = %v, want %v", in, got, want)
		}
	}
}
