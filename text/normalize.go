// Package text turns raw model output into plain paragraph text.
package text

import (
	"regexp"
	"strings"
)

// markdownStripper removes emphasis and heading markers as flat substrings.
var markdownStripper = strings.NewReplacer(
	"**", "",
	"*", "",
	"_", "",
	"###", "",
	"##", "",
	"#", "",
)

var (
	bulletPrefix   = regexp.MustCompile(`^[-\x{2022}*][\t\n\v\f\r \x1c-\x1f]+`)
	numberedPrefix = regexp.MustCompile(`^[0-9]+[.)][\t\n\v\f\r \x1c-\x1f]+`)
)

// Normalize strips markdown markers, non-ASCII characters and list prefixes,
// then rebuilds the text as paragraphs separated by a blank line. Consecutive
// non-blank lines are joined with single spaces.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	txt := markdownStripper.Replace(raw)
	txt = asciiOnly(txt)

	var paragraphs []string
	var current []string
	for _, line := range splitLines(txt) {
		line = strings.TrimFunc(line, isSpace)
		if line == "" {
			if len(current) > 0 {
				paragraphs = append(paragraphs, strings.Join(current, " "))
				current = current[:0]
			}
			continue
		}
		current = append(current, stripListPrefix(line))
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, " "))
	}

	return strings.TrimFunc(strings.Join(paragraphs, "\n\n"), isSpace)
}

// stripListPrefix removes bullet and numbering markers until none is left,
// so "- 1. item" and "1. - item" both become "item".
func stripListPrefix(line string) string {
	for {
		stripped := bulletPrefix.ReplaceAllLiteralString(line, "")
		stripped = numberedPrefix.ReplaceAllLiteralString(stripped, "")
		if stripped == line {
			return line
		}
		line = stripped
	}
}

func asciiOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// splitLines splits on every ASCII line boundary: \n, \r\n, \r, \v, \f and
// \x1c-\x1e.
func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\r':
			lines = append(lines, s[start:i])
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			start = i + 1
		case '\n', '\v', '\f', 0x1c, 0x1d, 0x1e:
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func isSpace(r rune) bool {
	return r == ' ' || (r >= '\t' && r <= '\r') || (r >= 0x1c && r <= 0x1f)
}
