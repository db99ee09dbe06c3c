package normalization

import (
	"strings"
)

func ParseInputString(input string) string {
	return strings.TrimSpace(input)
}

// Phone reduces a raw phone string to a stable comparison key: every
// non-digit character is dropped, and when at least ten digits remain only
// the trailing ten are kept. This tolerates country-code prefixes, spacing
// and punctuation; shorter numbers pass through as whatever digits remain.
func Phone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) >= 10 {
		return digits[len(digits)-10:]
	}
	return digits
}
