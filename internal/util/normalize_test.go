// ABOUTME: Tests for text normalization
// ABOUTME: Verifies newline folding, whitespace collapsing, and NFKC
package util

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "linear algebra", "linear algebra"},
		{"newlines", "line one\nline two\r\nline three", "line one line two line three"},
		{"whitespace runs", "  too   many\t spaces ", "too many spaces"},
		{"full-width letters", "ＡＢＣ", "ABC"},
		{"composed umlaut", "LISÄTIEDOT", "LISÄTIEDOT"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.in); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
