package qna

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize folds text for matching: NFC composition, whitespace runs
// collapsed to one space, trimmed and lowercased.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}
