package scraper

import (
	"strings"
	"unicode"
)

// IsSpace reports whether r separates words on the page: any Unicode space
// (NBSP and friends included) or the zero-width no-break space U+FEFF.
func IsSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// NormalizeWhitespace collapses whitespace inside every line, trims the lines and
// drops the ones that end up empty. Line boundaries are preserved.
func NormalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		clean := strings.Join(strings.FieldsFunc(line, IsSpace), " ")
		if clean == "" {
			continue
		}
		out = append(out, clean)
	}
	return strings.Join(out, "\n")
}
