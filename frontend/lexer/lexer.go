// Package lexer turns loft source text into a stream of tokens. It
// works on demand: each call to Next reads just enough characters to
// produce one token, so a syntax error later in the file is not hit
// until the consumer gets there.
package lexer

import (
	"strings"
	"unicode"

	"github.com/loft-lang/loft/common"
	"github.com/shopspring/decimal"
)

const opChars = "+-*/%=!<>&|^~.@?"
const punctChars = ",;:(){}[]#"

var digraphs = map[string]struct{}{
	"->": {}, "=>": {}, "==": {}, "!=": {}, "<=": {}, ">=": {},
	"&&": {}, "||": {}, "+=": {}, "-=": {}, "*=": {}, "/=": {},
	"::": {},
}

// IsOpChar reports whether r can start or continue an operator.
func IsOpChar(r rune) bool { return strings.ContainsRune(opChars, r) }

// IsPunctChar reports whether r is a punctuation character.
func IsPunctChar(r rune) bool { return strings.ContainsRune(punctChars, r) }

// IsDigraph reports whether s is a recognized two-character operator.
func IsDigraph(s string) bool {
	_, ok := digraphs[s]
	return ok
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r)
}

func isIdentChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Number literals are ASCII digits only; identifier bodies accept the
// wider Unicode digit class.
func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isWhitespace(r rune) bool {
	return unicode.IsSpace(r)
}

// Tokenizer produces tokens one at a time from an InputStream.
//
// Template literals are the one place where a single call produces
// more than one token: the whole literal is lexed eagerly, the first
// marker is returned and the rest is queued in pending for the
// following calls.
type Tokenizer struct {
	input          *InputStream
	pending        []Token
	lastDocComment string
	hasDocComment  bool
}

func NewTokenizer(path, code string) *Tokenizer {
	return &Tokenizer{input: NewInputStream(path, code)}
}

// Input exposes the underlying stream so consumers can raise errors at
// the current read head.
func (tk *Tokenizer) Input() *InputStream { return tk.input }

// Error builds a positioned error at the current read head.
func (tk *Tokenizer) Error(msg string, length int) *common.Error {
	return tk.input.Error(msg, length)
}

// TakeLastDocComment returns the most recent doc comment and clears the
// slot. Only the last doc comment before a token is kept; earlier ones
// on the same run are overwritten.
func (tk *Tokenizer) TakeLastDocComment() (string, bool) {
	if !tk.hasDocComment {
		return "", false
	}
	tk.hasDocComment = false
	doc := tk.lastDocComment
	tk.lastDocComment = ""
	return doc, true
}

// Next returns the next token. At end of input it returns TokEOF, and
// keeps returning it on every later call.
func (tk *Tokenizer) Next() (Token, *common.Error) {
	if len(tk.pending) > 0 {
		tok := tk.pending[0]
		tk.pending = tk.pending[1:]
		return tok, nil
	}

	if err := tk.skipWhitespaceAndComments(); err != nil {
		return nil, err
	}

	c, ok := tk.input.Peek()
	if !ok {
		return TokEOF{}, nil
	}

	switch {
	case c == '"':
		return tk.readString(), nil
	case c == '`':
		toks, err := tk.readTemplateLiteral()
		if err != nil {
			return nil, err
		}
		tk.pending = append(tk.pending, toks[1:]...)
		return toks[0], nil
	case isDigit(c):
		return tk.readNumber()
	case isIdentStart(c):
		return tk.readIdent(), nil
	case IsPunctChar(c):
		tk.input.Next()
		if c == ':' {
			// "::" is an operator even though ':' alone is punctuation.
			if p, ok := tk.input.Peek(); ok && p == ':' {
				tk.input.Next()
				return TokOp{Op: "::"}, nil
			}
		}
		return TokPunct{Punct: string(c)}, nil
	case IsOpChar(c):
		return tk.readOp(), nil
	default:
		return nil, tk.input.Error("Unexpected token '"+string(c)+"'", 1)
	}
}

func (tk *Tokenizer) skipWhitespaceAndComments() *common.Error {
	for {
		for {
			c, ok := tk.input.Peek()
			if !ok || !isWhitespace(c) {
				break
			}
			tk.input.Next()
		}

		c, ok := tk.input.Peek()
		if !ok || c != '/' {
			return nil
		}

		saved := tk.input.SavePosition()
		tk.input.Next()
		p, ok := tk.input.Peek()
		if !ok {
			tk.input.RestorePosition(saved)
			return nil
		}

		switch p {
		case '/':
			tk.input.Next()
			if n, ok := tk.input.Peek(); ok && n == '/' {
				tk.input.Next()
				tk.readDocLine()
			} else {
				tk.skipLine()
			}
		case '*':
			tk.input.Next()
			if err := tk.readBlockComment(); err != nil {
				return err
			}
		default:
			tk.input.RestorePosition(saved)
			return nil
		}
	}
}

func (tk *Tokenizer) skipLine() {
	for {
		c, ok := tk.input.Next()
		if !ok || c == '\n' {
			return
		}
	}
}

func (tk *Tokenizer) readDocLine() {
	var sb strings.Builder
	for {
		c, ok := tk.input.Peek()
		if !ok || c == '\n' {
			break
		}
		tk.input.Next()
		sb.WriteRune(c)
	}
	tk.lastDocComment = strings.TrimSpace(sb.String())
	tk.hasDocComment = true
}

// readBlockComment is entered after "/*" has been consumed. A third '*'
// makes it a doc comment whose body is captured.
func (tk *Tokenizer) readBlockComment() *common.Error {
	isDoc := false
	if c, ok := tk.input.Peek(); ok && c == '*' {
		tk.input.Next()
		isDoc = true
	}

	var sb strings.Builder
	for {
		c, ok := tk.input.Next()
		if !ok {
			return tk.input.Error("Unterminated block comment", 0)
		}
		if c == '*' {
			if p, ok := tk.input.Peek(); ok && p == '/' {
				tk.input.Next()
				break
			}
		}
		if isDoc {
			sb.WriteRune(c)
		}
	}

	if isDoc {
		tk.lastDocComment = strings.TrimSpace(sb.String())
		tk.hasDocComment = true
	}
	return nil
}

func (tk *Tokenizer) readIdent() Token {
	var sb strings.Builder
	for {
		c, ok := tk.input.Peek()
		if !ok || !isIdentChar(c) {
			break
		}
		tk.input.Next()
		sb.WriteRune(c)
	}
	raw := sb.String()
	if kw, ok := LookupKeyword(raw); ok {
		return TokKeyword{Keyword: kw}
	}
	return TokIdent{Raw: raw}
}

// readNumber consumes the maximal prefix matching digit+ ('.' digit+)?
// and parses it as a fixed-point decimal. A dot not followed by a digit
// is left for the operator reader.
func (tk *Tokenizer) readNumber() (Token, *common.Error) {
	var sb strings.Builder
	tk.readDigits(&sb)
	if c, ok := tk.input.Peek(); ok && c == '.' {
		saved := tk.input.SavePosition()
		tk.input.Next()
		if p, ok := tk.input.Peek(); ok && isDigit(p) {
			sb.WriteRune('.')
			tk.readDigits(&sb)
		} else {
			tk.input.RestorePosition(saved)
		}
	}
	raw := sb.String()
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, tk.input.Error("Invalid number '"+raw+"'", len(raw))
	}
	return TokNumber{Value: value}, nil
}

func (tk *Tokenizer) readDigits(sb *strings.Builder) {
	for {
		c, ok := tk.input.Peek()
		if !ok || !isDigit(c) {
			return
		}
		tk.input.Next()
		sb.WriteRune(c)
	}
}

// readString consumes a double-quoted string. A backslash makes the
// following character literal; there is no escape table. An
// unterminated string ends silently at EOF with the text read so far.
func (tk *Tokenizer) readString() Token {
	tk.input.Next()
	var sb strings.Builder
	escaped := false
	for {
		c, ok := tk.input.Next()
		if !ok {
			break
		}
		if escaped {
			sb.WriteRune(c)
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c == '"' {
			break
		}
		sb.WriteRune(c)
	}
	return TokString{Raw: sb.String()}
}

func (tk *Tokenizer) readOp() Token {
	c, _ := tk.input.Next()
	if p, ok := tk.input.Peek(); ok {
		two := string(c) + string(p)
		if IsDigraph(two) {
			tk.input.Next()
			return TokOp{Op: two}
		}
	}
	return TokOp{Op: string(c)}
}
