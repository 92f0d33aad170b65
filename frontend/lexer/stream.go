package lexer

import (
	"unicode/utf8"

	"github.com/loft-lang/loft/common"
)

// Position is a saved cursor into an InputStream. Restoring one rewinds
// the stream to the exact character it was at when the save was taken.
type Position struct {
	offset int
	line   int
	column int
}

// Offset returns the byte offset into the source.
func (p Position) Offset() int { return p.offset }

// Line returns the zero-based line number.
func (p Position) Line() int { return p.line }

// Column returns the zero-based column number.
func (p Position) Column() int { return p.column }

// InputStream is a character reader over a single source file. It
// tracks the zero-based line and column of the read head and supports
// O(1) save and restore of the full position.
type InputStream struct {
	path   string
	input  string
	offset int
	line   int
	column int
}

func NewInputStream(path, code string) *InputStream {
	return &InputStream{path: path, input: code}
}

// Path returns the file path the stream was created with.
func (s *InputStream) Path() string { return s.path }

// Source returns the full source text.
func (s *InputStream) Source() string { return s.input }

// EOF reports whether the read head is past the last character.
func (s *InputStream) EOF() bool {
	return s.offset >= len(s.input)
}

// Peek returns the character at the read head without consuming it.
func (s *InputStream) Peek() (rune, bool) {
	if s.EOF() {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s.input[s.offset:])
	return r, true
}

// Next consumes and returns the character at the read head. A newline
// advances the line counter and resets the column to zero.
func (s *InputStream) Next() (rune, bool) {
	if s.EOF() {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(s.input[s.offset:])
	s.offset += size
	if r == '\n' {
		s.line++
		s.column = 0
	} else {
		s.column++
	}
	return r, true
}

// SavePosition snapshots the read head.
func (s *InputStream) SavePosition() Position {
	return Position{offset: s.offset, line: s.line, column: s.column}
}

// RestorePosition rewinds the read head to a saved snapshot.
func (s *InputStream) RestorePosition(pos Position) {
	s.offset = pos.offset
	s.line = pos.line
	s.column = pos.column
}

// Error builds a positioned error at the current read head. length is
// the width of the offending region ending here; pass 0 when unknown.
func (s *InputStream) Error(msg string, length int) *common.Error {
	return &common.Error{
		Path:    s.path,
		Offset:  s.offset,
		Line:    s.line,
		Column:  s.column,
		Message: msg,
		Len:     length,
	}
}
