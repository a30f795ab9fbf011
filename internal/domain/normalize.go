package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeFullName prepares a patient or collaborator name for submission
// and search:
//   - trims leading/trailing whitespace
//   - compresses multiple spaces into one
//   - converts to uppercase
//   - strips diacritics (é -> E, ç -> C)
//
// The server indexes names in this form, so every name sent on the wire
// (create, update, search filter) must pass through here exactly once.
func NormalizeFullName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	// Decompose, drop combining marks, recompose.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, name); err == nil {
		name = stripped
	}
	name = strings.ToUpper(name)

	// Compress multiple spaces into one.
	var b strings.Builder
	b.Grow(len(name))
	prevSpace := false
	for _, r := range name {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeEmail lowercases and trims an email address, matching what the
// sign-up and edit forms do before submitting.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
