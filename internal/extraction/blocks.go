package extraction

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictHTMLPolicy = bluemonday.StrictPolicy()

	looksLikeHTML = regexp.MustCompile(`(?i)<(?:html|body|div|p|br|table|tr|td|span|a)\b[^>]*>`)
	blockBreaks   = regexp.MustCompile(`(?i)<br\s*/?>|</(?:p|div|tr|li|h[1-6]|table)>`)
	fromLine      = regexp.MustCompile(`(?i)^[ \t]*from:`)
	separatorLine = regexp.MustCompile(`^[ \t]*(?:-{3,}|={3,}|_{3,})[ \t]*$`)
)

// StripHTML reduces an HTML mail body to text, keeping block boundaries as
// line breaks. Text without markup is returned unchanged.
func StripHTML(text string) string {
	if !looksLikeHTML.MatchString(text) {
		return text
	}
	text = blockBreaks.ReplaceAllString(text, "$0\n")
	return html.UnescapeString(strictHTMLPolicy.Sanitize(text))
}

// normalize drops non-printable characters and unifies line endings.
func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\r':
			return '\n'
		case r == '\n' || r == '\t':
			return r
		case unicode.IsPrint(r) || unicode.IsSpace(r):
			return r
		}
		return -1
	}, text)
}

// recognizable reports whether text has at least one letter or digit.
func recognizable(text string) bool {
	return strings.IndexFunc(text, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}

// SplitBlocks splits a paste into per-email blocks. Two or more "From:"
// header lines start a block each; otherwise separator lines of ---, ===
// or ___ divide blocks; otherwise the whole text is one block. Blank blocks
// are dropped.
func SplitBlocks(text string) []string {
	lines := strings.Split(text, "\n")

	var starts []int
	for i, line := range lines {
		if fromLine.MatchString(line) {
			starts = append(starts, i)
		}
	}

	var blocks []string
	switch {
	case len(starts) >= 2:
		// Anything above the first header belongs to the first email.
		starts[0] = 0
		for i, start := range starts {
			end := len(lines)
			if i+1 < len(starts) {
				end = starts[i+1]
			}
			blocks = appendBlock(blocks, lines[start:end])
		}
	default:
		start := 0
		for i, line := range lines {
			if separatorLine.MatchString(line) {
				blocks = appendBlock(blocks, lines[start:i])
				start = i + 1
			}
		}
		blocks = appendBlock(blocks, lines[start:])
	}
	return blocks
}

func appendBlock(blocks, lines []string) []string {
	b := strings.TrimSpace(strings.Join(lines, "\n"))
	if b == "" {
		return blocks
	}
	return append(blocks, b)
}
