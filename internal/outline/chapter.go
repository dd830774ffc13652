// Package outline pulls chapter headings out of free-form outline text.
package outline

import (
	"regexp"
	"strings"
	"unicode"
)

// Chapter is one heading recognised in an outline.
type Chapter struct {
	Number string `json:"number"` // digits exactly as written
	Title  string `json:"title"`
}

// String renders the chapter in canonical form, e.g. "3. Midpoint".
func (c Chapter) String() string {
	return c.Number + ". " + c.Title
}

// headingPattern accepts "Chapter 1: Title", "chapter 2. Title", "3: Title"
// and "4 Title". Whitespace is the set isSpace reports: Unicode spaces,
// vertical tab, NEL and the separators U+001C to U+001F.
var headingPattern = regexp.MustCompile(`^(?:(?i:chapter)[\s\v\p{Z}\x1c-\x1f\x85]+)?(\d+)[.:]?[\s\v\p{Z}\x1c-\x1f\x85]+(.+)$`)

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// Extract returns the chapters found in text, in line order. Lines that are
// not chapter headings are skipped.
func Extract(text string) []Chapter {
	chapters := []Chapter{}
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if ch, ok := ParseLine(line); ok {
			chapters = append(chapters, ch)
		}
	}
	return chapters
}

// ParseLine matches a single line against the heading grammar.
func ParseLine(line string) (Chapter, bool) {
	m := headingPattern.FindStringSubmatch(strings.TrimFunc(line, isSpace))
	if m == nil {
		return Chapter{}, false
	}
	return Chapter{Number: m[1], Title: stripQuotes(m[2])}, true
}

// stripQuotes removes one double quote from each end, each side on its own.
func stripQuotes(title string) string {
	title = strings.TrimPrefix(title, `"`)
	return strings.TrimSuffix(title, `"`)
}
