// ABOUTME: Text normalization applied before embedding and translation
// ABOUTME: NFKC folding plus whitespace collapsing so equal texts share cache keys
package util

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText applies NFKC, turns newlines into spaces and collapses whitespace runs
func NormalizeText(text string) string {
	text = norm.NFKC.String(text)
	return strings.Join(strings.Fields(text), " ")
}
