// Package shaper normalizes raw model output into bounded, well-formed alt text.
package shaper

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var bannedPrefixes = []string{
	"image of ",
	"picture of ",
	"photo of ",
	"photograph of ",
	"alt text: ",
	"alt: ",
}

// Shape produces the final alt text for a raw model response. It is
// deterministic and idempotent: Shape(Shape(x), n) == Shape(x, n).
//
// Steps, in order: trim whitespace, strip one layer of matching enclosing
// quotes, strip the first matching banned leading phrase, uppercase the
// first rune, truncate at the rightmost sentence terminator within maxChars
// (hard cut when none exists), and drop a trailing period.
func Shape(raw string, maxChars int) string {
	cleaned := strings.TrimSpace(raw)

	if len(cleaned) >= 2 {
		first, last := cleaned[0], cleaned[len(cleaned)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			cleaned = cleaned[1 : len(cleaned)-1]
		}
	}

	lower := strings.ToLower(cleaned)
	for _, prefix := range bannedPrefixes {
		if strings.HasPrefix(lower, prefix) {
			cleaned = cleaned[len(prefix):]
			break
		}
	}

	cleaned = upperFirst(cleaned)

	if maxChars > 0 && len(cleaned) > maxChars {
		if end := lastSentenceEnd(cleaned, maxChars); end > 0 {
			cleaned = strings.TrimSpace(cleaned[:end])
		} else {
			cleaned = strings.TrimSpace(cleaned[:maxChars])
		}
	}

	cleaned = strings.TrimSuffix(cleaned, ".")

	return cleaned
}

// lastSentenceEnd returns the position just past the rightmost sentence
// terminator at or before limit, or 0 when no terminator fits.
func lastSentenceEnd(s string, limit int) int {
	end := 0
	for i := 0; i < len(s) && i < limit; i++ {
		switch s[i] {
		case '.', '!', '?':
			end = i + 1
		}
	}
	return end
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return s
	}
	upper := unicode.ToUpper(r)
	if upper == r {
		return s
	}
	return string(upper) + s[size:]
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
var whitespacePattern = regexp.MustCompile(`\s+`)

// StripHTML removes markup from a product description so only readable
// text flows into the generation prompt.
func StripHTML(html string) string {
	text := htmlTagPattern.ReplaceAllString(html, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// TruncateDescription bounds a cleaned description to max characters,
// marking longer inputs with an ellipsis.
func TruncateDescription(description string, max int) string {
	if len(description) <= max {
		return description
	}
	return description[:max] + "..."
}
