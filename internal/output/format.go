// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"todo/internal/task"
)

// TimeLayout is the layout for timestamps shown to the user.
const TimeLayout = "2006-01-02 15:04"

// FormatTask formats a task line for the list command.
// Format: "{N:>4}  [x] {TITLE}\n" (4-wide right-aligned number, checkbox, title)
func FormatTask(w io.Writer, num int, t task.Task) {
	box := "[ ]"
	if t.Completed() {
		box = "[x]"
	}
	fmt.Fprintf(w, "%4d  %s %s\n", num, box, normalizeTitle(t.Title()))
}

// FormatTaskDetail prints every field of a task, one per line.
// Times are shown in loc.
func FormatTaskDetail(w io.Writer, t task.Task, loc *time.Location) {
	status := "open"
	if t.Completed() {
		status = "done"
	}

	fmt.Fprintf(w, "id:          %s\n", t.ID())
	fmt.Fprintf(w, "title:       %s\n", normalizeTitle(t.Title()))
	fmt.Fprintf(w, "status:      %s\n", status)
	fmt.Fprintf(w, "created:     %s\n", t.CreatedAt().In(loc).Format(TimeLayout))
	if at := t.CompletedAt(); at != nil {
		fmt.Fprintf(w, "completed:   %s\n", at.In(loc).Format(TimeLayout))
	}
	if desc := strings.TrimRight(t.Description(), "\r\n"); desc != "" {
		fmt.Fprintln(w, "description:")
		for _, line := range strings.Split(desc, "\n") {
			fmt.Fprintf(w, "    %s\n", strings.TrimRight(line, "\r"))
		}
	}
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
