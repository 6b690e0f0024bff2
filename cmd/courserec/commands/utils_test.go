// ABOUTME: Tests for shared utility functions used by CLI commands
// ABOUTME: Verifies truncate, formatTime, input reading, and validation helpers

package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{name: "short string unchanged", input: "hello", maxLen: 10, want: "hello"},
		{name: "exact length unchanged", input: "hello", maxLen: 5, want: "hello"},
		{name: "long string truncated", input: "hello world", maxLen: 8, want: "hello..."},
		{name: "very short maxLen", input: "hello", maxLen: 2, want: "he"},
		{name: "empty string", input: "", maxLen: 10, want: ""},
		{name: "finnish runes kept whole", input: "Tietoliikennetekniikka", maxLen: 8, want: "Tieto..."},
		{name: "multibyte short maxLen", input: "äöåäöå", maxLen: 2, want: "äö"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{name: "just now", t: now.Add(-10 * time.Second), want: "just now"},
		{name: "minutes", t: now.Add(-5 * time.Minute), want: "5m ago"},
		{name: "hours", t: now.Add(-3 * time.Hour), want: "3h ago"},
		{name: "days", t: now.Add(-2 * 24 * time.Hour), want: "2d ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatTime(tt.t); got != tt.want {
				t.Errorf("formatTime() = %q, want %q", got, tt.want)
			}
		})
	}

	old := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	if got := formatTime(old); got != "2024-03-09" {
		t.Errorf("formatTime(old) = %q, want %q", got, "2024-03-09")
	}
}

func TestValidatePositiveInt(t *testing.T) {
	tests := []struct {
		n       int
		wantErr bool
	}{
		{1, false},
		{100, false},
		{0, true},
		{-5, true},
	}

	for _, tt := range tests {
		err := validatePositiveInt(tt.n, "limit")
		if (err != nil) != tt.wantErr {
			t.Errorf("validatePositiveInt(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err != nil && !strings.Contains(err.Error(), "limit") {
			t.Errorf("error %q should name the flag", err)
		}
	}
}

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, []byte("from file"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "file", args: []string{path}, want: "from file"},
		{name: "stdin", args: nil, want: "from stdin"},
		{name: "dash is stdin", args: []string{"-"}, want: "from stdin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readInput(tt.args, strings.NewReader("from stdin"))
			if err != nil {
				t.Fatalf("readInput() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("readInput() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := readInput([]string{filepath.Join(t.TempDir(), "missing")}, strings.NewReader("")); err == nil {
		t.Error("readInput() expected error for missing file")
	}
}

func TestOneLine(t *testing.T) {
	if got := oneLine("  what\n courses\tteach  Go "); got != "what courses teach Go" {
		t.Errorf("oneLine() = %q", got)
	}
}
