package validator

import "strings"

// Normalize canonicalizes free text for equality comparison: every rune
// that is not an ASCII letter, a digit, or a Hangul syllable is dropped,
// and the remainder is lower-cased. Used only for matching, never for
// display.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= 0xAC00 && r <= 0xD7A3: // 가-힣
			b.WriteRune(r)
		}
	}
	return b.String()
}
