// Package common provides the diagnostic objects shared by the lexer,
// parser and the tools built on top of them.
package common

import (
	"fmt"
	"strings"
)

// Error is a positioned source error. Line and Column are zero-based.
// Len is the width in characters of the offending region ending at
// Offset; zero means the width is unknown and one character is shown.
type Error struct {
	Path    string
	Offset  int
	Line    int
	Column  int
	Message string
	Len     int
	Help    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("Error in %s @ %d:%d: %s", e.Path, e.Line, e.Column, e.Message)
}

// Render formats the error with a snippet of the offending source line,
// a gutter with the one-based line number and a caret run under the
// offending region.
func (e *Error) Render(source string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "error: %s\n", e.Message)
	fmt.Fprintf(&sb, " --> %s:%d:%d\n", e.Path, e.Line, e.Column)

	lines := strings.Split(source, "\n")
	if e.Line >= len(lines) {
		return sb.String()
	}
	line := lines[e.Line]

	width := e.Len
	if width < 1 {
		width = 1
	}
	start := e.Column - width
	if start < 0 {
		start = 0
	}
	if start > len(line) {
		start = len(line)
	}

	gutter := fmt.Sprintf("%d", e.Line+1)
	pad := strings.Repeat(" ", len(gutter))
	fmt.Fprintf(&sb, "%s |\n", pad)
	fmt.Fprintf(&sb, "%s | %s\n", gutter, line)
	fmt.Fprintf(&sb, "%s | %s%s\n", pad, strings.Repeat(" ", start), strings.Repeat("^", width))
	if e.Help != "" {
		fmt.Fprintf(&sb, "%s = help: %s\n", pad, e.Help)
	}
	return sb.String()
}
