package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ContainsReservedRune reports whether s carries a NUL, which the trie uses
// internally as a word terminator and never accepts in queries or words.
func ContainsReservedRune(s string) bool {
	return strings.ContainsRune(s, '\x00')
}

// ContainsControlChars checks for control characters other than NUL, which
// usually indicate a mangled request rather than a real query.
func ContainsControlChars(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

// QueryLength counts runes, which is what the distance budget is measured in.
func QueryLength(s string) int {
	return utf8.RuneCountInString(s)
}

// IsValidQuery checks if a query should be searched at all.
// Length bounds are in runes; maxLen 0 means unbounded.
func IsValidQuery(s string, minLen, maxLen int) bool {
	n := QueryLength(s)
	if n < minLen {
		return false
	}
	if maxLen > 0 && n > maxLen {
		return false
	}
	if ContainsReservedRune(s) || ContainsControlChars(s) {
		return false
	}
	return true
}
