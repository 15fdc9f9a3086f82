package utils

import "strings"

// NormalizeCPF strips the usual CPF punctuation (dots, dash, spaces)
// and reports whether the remainder is exactly 11 digits. The second
// return value is false for anything else, including empty input.
func NormalizeCPF(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == ' ':
			// punctuation is ignored
		default:
			return "", false
		}
	}
	s := b.String()
	if len(s) != 11 {
		return "", false
	}
	return s, true
}

// ValidEmail reports whether the address has the minimal shape the
// dealership requires: non-empty with an "@" somewhere inside it.
func ValidEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}
