package workout

import (
	"strings"
	"unicode"
)

// NormalizeName derives the exercise identity from a free-text exercise name:
// lowercase, trim, drop everything that is not a letter, digit, underscore
// or whitespace, and replace whitespace runs with a single underscore.
// Distinct names that differ only in punctuation share one identity.
func NormalizeName(name string) string {
	n := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, strings.ToLower(name))
	return strings.Join(strings.FieldsFunc(n, unicode.IsSpace), "_")
}
