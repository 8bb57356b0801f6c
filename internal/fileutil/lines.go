package fileutil

import (
	"strings"
	"unicode"
)

// IndentWidth returns the offset of the first non-whitespace character
// in line. Blank lines (empty or all-whitespace) report zero.
func IndentWidth(line string) int {
	idx := strings.IndexFunc(line, func(r rune) bool {
		return !unicode.IsSpace(r)
	})
	if idx < 0 {
		return 0
	}
	return idx
}

// IsBlank reports whether line contains no non-whitespace characters.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
