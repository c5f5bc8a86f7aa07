package utils

import "strings"

// NormalizeNote trims surrounding whitespace. Notes are plain text and are
// otherwise stored as given; JSON encoding escapes them on the way out.
func NormalizeNote(input string) string {
	return strings.TrimSpace(input)
}

// NormalizeNotePtr applies NormalizeNote and maps blank notes to nil.
func NormalizeNotePtr(input *string) *string {
	if input == nil {
		return nil
	}
	clean := NormalizeNote(*input)
	if clean == "" {
		return nil
	}
	return &clean
}
