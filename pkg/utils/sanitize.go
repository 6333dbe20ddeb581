package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const DefaultTextMaxLength = 1000

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// SanitizeText trims s, collapses every whitespace run to one space and cuts
// the result to maxLen runes. Whitespace is anything unicode.IsSpace accepts,
// so \v, NBSP and the other Unicode spaces collapse too.
func SanitizeText(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultTextMaxLength
	}
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:maxLen]))
}

func TextLength(s string) int {
	return utf8.RuneCountInString(s)
}
