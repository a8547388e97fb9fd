package output

import (
	"bytes"
	"testing"
	"time"

	"todo/internal/testutil"
)

func TestFormatTask(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	done := created.Add(2 * time.Hour)

	var buf bytes.Buffer
	FormatTask(&buf, 1, testutil.MustTask(t, "a", "Buy milk", "", false, created, nil))
	FormatTask(&buf, 2, testutil.MustTask(t, "b", "Call mom", "", true, created, &done))
	FormatTask(&buf, 12, testutil.MustTask(t, "c", "Multi\nline", "", false, created, nil))

	testutil.Golden(t, "list", buf.Bytes())
}

func TestFormatTaskDetail(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	done := created.Add(26 * time.Hour)

	tests := []struct {
		name   string
		golden string
		build  func(t *testing.T) []byte
	}{
		{
			name:   "open without description",
			golden: "show_open",
			build: func(t *testing.T) []byte {
				var buf bytes.Buffer
				FormatTaskDetail(&buf, testutil.MustTask(t, "id-open", "Buy milk", "", false, created, nil), time.UTC)
				return buf.Bytes()
			},
		},
		{
			name:   "done with description",
			golden: "show_done",
			build: func(t *testing.T) []byte {
				var buf bytes.Buffer
				FormatTaskDetail(&buf, testutil.MustTask(t, "id-done", "Write report", "first line\r\nsecond line\n", true, created, &done), time.UTC)
				return buf.Bytes()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.Golden(t, tt.golden, tt.build(t))
		})
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Buy milk", "Buy milk"},
		{"a\nb", "a b"},
		{"a\r\nb", "a  b"},
		{"  ", "(untitled)"},
		{"\n", "(untitled)"},
	}

	for _, tt := range tests {
		if got := normalizeTitle(tt.in); got != tt.want {
			t.Errorf("normalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
