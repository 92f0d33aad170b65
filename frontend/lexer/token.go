package lexer

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Token is one lexical element. Tokens carry no position data; the
// producing InputStream owns the offset and line/column counters, so an
// error raised while holding a token points at the read head.
type Token interface {
	isToken()
	// Is reports whether the token is the given keyword, operator or
	// punctuation. It is always false for literal and template tokens.
	Is(s string) bool
	// String renders the token the way error messages quote it.
	String() string
}

type TokNumber struct {
	Value decimal.Decimal
}

type TokString struct {
	Raw string
}

type TokIdent struct {
	Raw string
}

type TokKeyword struct {
	Keyword Keyword
}

type TokPunct struct {
	Punct string
}

type TokOp struct {
	Op string
}

type TokComment struct {
	Text string
}

type TokDocComment struct {
	Text string
}

// Template literal markers. A template lexes into a flat run of
// TokTemplateStart, text chunks, expression spans bracketed by
// TokTemplateExprStart/TokTemplateExprEnd, and TokTemplateEnd.
type TokTemplateStart struct{}

type TokTemplateString struct {
	Text string
}

type TokTemplateExprStart struct{}

type TokTemplateExprEnd struct{}

type TokTemplateEnd struct{}

type TokEOF struct{}

func (TokNumber) isToken()            {}
func (TokString) isToken()            {}
func (TokIdent) isToken()             {}
func (TokKeyword) isToken()           {}
func (TokPunct) isToken()             {}
func (TokOp) isToken()                {}
func (TokComment) isToken()           {}
func (TokDocComment) isToken()        {}
func (TokTemplateStart) isToken()     {}
func (TokTemplateString) isToken()    {}
func (TokTemplateExprStart) isToken() {}
func (TokTemplateExprEnd) isToken()   {}
func (TokTemplateEnd) isToken()       {}
func (TokEOF) isToken()               {}

func (TokNumber) Is(string) bool            { return false }
func (TokString) Is(string) bool            { return false }
func (TokIdent) Is(string) bool             { return false }
func (t TokKeyword) Is(s string) bool       { return t.Keyword.String() == s }
func (t TokPunct) Is(s string) bool         { return t.Punct == s }
func (t TokOp) Is(s string) bool            { return t.Op == s }
func (TokComment) Is(string) bool           { return false }
func (TokDocComment) Is(string) bool        { return false }
func (TokTemplateStart) Is(string) bool     { return false }
func (TokTemplateString) Is(string) bool    { return false }
func (TokTemplateExprStart) Is(string) bool { return false }
func (TokTemplateExprEnd) Is(string) bool   { return false }
func (TokTemplateEnd) Is(string) bool       { return false }
func (TokEOF) Is(string) bool               { return false }

func (t TokNumber) String() string         { return t.Value.String() }
func (t TokString) String() string         { return fmt.Sprintf("%q", t.Raw) }
func (t TokIdent) String() string          { return fmt.Sprintf("'%s'", t.Raw) }
func (t TokKeyword) String() string        { return fmt.Sprintf("'%s'", t.Keyword.String()) }
func (t TokPunct) String() string          { return fmt.Sprintf("'%s'", t.Punct) }
func (t TokOp) String() string             { return fmt.Sprintf("'%s'", t.Op) }
func (t TokComment) String() string        { return "comment" }
func (t TokDocComment) String() string     { return "doc comment" }
func (TokTemplateStart) String() string    { return "template start" }
func (t TokTemplateString) String() string { return fmt.Sprintf("template text %q", t.Text) }
func (TokTemplateExprStart) String() string {
	return "'${'"
}
func (TokTemplateExprEnd) String() string { return "'}'" }
func (TokTemplateEnd) String() string     { return "template end" }
func (TokEOF) String() string             { return "EOF" }

// IsEOF reports whether tok marks the end of the token stream.
func IsEOF(tok Token) bool {
	_, ok := tok.(TokEOF)
	return ok
}
