// Package format implements the token-based source formatter. It works
// on tokens rather than the AST, so it preserves comments and can
// format files that do not parse.
package format

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/loft-lang/loft/common"
	"github.com/loft-lang/loft/frontend/lexer"
)

const indentSize = 4

type tokenKind int

const (
	kindNumber tokenKind = iota
	kindString
	kindIdent
	kindKeyword
	kindOp
	kindPunct
	kindComment
	kindDocComment
	kindTemplate
)

// token is the formatter's own token model. Unlike the lexer's tokens
// it keeps raw source text, so string escapes and template literals
// round-trip byte for byte.
type token struct {
	kind tokenKind
	text string
}

type spacedToken struct {
	tok      token
	leading  string
	newlines int
}

// Source formats code and returns the formatted text. Formatting is
// purely token level and succeeds on files with parse errors.
func Source(path, source string) (string, *common.Error) {
	tokens, err := scan(path, source)
	if err != nil {
		return "", err
	}
	return emit(tokens), nil
}

// scan tokenizes the source while keeping comments and recording the
// whitespace run before each token.
func scan(path, source string) ([]spacedToken, *common.Error) {
	input := lexer.NewInputStream(path, source)
	var tokens []spacedToken

	for !input.EOF() {
		var ws strings.Builder
		for {
			c, ok := input.Peek()
			if !ok || !isWhitespace(c) {
				break
			}
			input.Next()
			ws.WriteRune(c)
		}
		if input.EOF() {
			break
		}

		leading := ws.String()
		newlines := strings.Count(leading, "\n")

		if c, _ := input.Peek(); c == '/' {
			tok, isComment, err := scanComment(input)
			if err != nil {
				return nil, err
			}
			if isComment {
				tokens = append(tokens, spacedToken{tok: tok, leading: leading, newlines: newlines})
				continue
			}
		}

		tok, err := scanToken(input)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, spacedToken{tok: tok, leading: leading, newlines: newlines})
	}
	return tokens, nil
}

// scanComment reads a line, doc or block comment. The second result is
// false when the slash turned out to start an operator instead.
func scanComment(input *lexer.InputStream) (token, bool, *common.Error) {
	pos := input.SavePosition()
	input.Next()
	c, ok := input.Peek()
	if !ok {
		input.RestorePosition(pos)
		return token{}, false, nil
	}

	switch c {
	case '/':
		input.Next()
		isDoc := false
		if c, ok := input.Peek(); ok && c == '/' {
			isDoc = true
			input.Next()
		}
		var text strings.Builder
		for {
			c, ok := input.Peek()
			if !ok || c == '\n' {
				break
			}
			input.Next()
			text.WriteRune(c)
		}
		if isDoc {
			return token{kind: kindDocComment, text: strings.TrimSpace(text.String())}, true, nil
		}
		return token{kind: kindComment, text: "//" + text.String()}, true, nil

	case '*':
		input.Next()
		isDoc := false
		if c, ok := input.Peek(); ok && c == '*' {
			isDoc = true
			input.Next()
		}
		var text strings.Builder
		closed := false
		for {
			c, ok := input.Next()
			if !ok {
				break
			}
			if c == '*' {
				if n, ok := input.Peek(); ok && n == '/' {
					input.Next()
					closed = true
					break
				}
			}
			text.WriteRune(c)
		}
		if !closed {
			return token{}, false, input.Error("Unterminated block comment", 0)
		}
		if isDoc {
			return token{kind: kindDocComment, text: strings.TrimSpace(text.String())}, true, nil
		}
		return token{kind: kindComment, text: "/*" + text.String() + "*/"}, true, nil

	default:
		input.RestorePosition(pos)
		return token{}, false, nil
	}
}

func scanToken(input *lexer.InputStream) (token, *common.Error) {
	c, _ := input.Peek()

	switch {
	case isDigit(c):
		return scanNumber(input)
	case c == '"':
		return scanString(input), nil
	case c == '`':
		return scanTemplate(input)
	case isIdentStart(c):
		return scanIdent(input), nil
	case lexer.IsOpChar(c) || lexer.IsPunctChar(c):
		isOp := lexer.IsOpChar(c)
		input.Next()
		op := string(c)
		if n, ok := input.Peek(); ok && lexer.IsDigraph(op+string(n)) {
			input.Next()
			return token{kind: kindOp, text: op + string(n)}, nil
		}
		if isOp {
			return token{kind: kindOp, text: op}, nil
		}
		return token{kind: kindPunct, text: op}, nil
	}
	return token{}, input.Error("Unexpected token '"+string(c)+"'", 1)
}

func scanNumber(input *lexer.InputStream) (token, *common.Error) {
	var raw strings.Builder
	for {
		c, ok := input.Peek()
		if !ok || !isDigit(c) {
			break
		}
		input.Next()
		raw.WriteRune(c)
	}
	if c, ok := input.Peek(); ok && c == '.' {
		pos := input.SavePosition()
		input.Next()
		if n, ok := input.Peek(); ok && isDigit(n) {
			raw.WriteRune('.')
			for {
				c, ok := input.Peek()
				if !ok || !isDigit(c) {
					break
				}
				input.Next()
				raw.WriteRune(c)
			}
		} else {
			input.RestorePosition(pos)
		}
	}
	value, err := decimal.NewFromString(raw.String())
	if err != nil {
		return token{}, input.Error("Invalid number '"+raw.String()+"'", len(raw.String()))
	}
	return token{kind: kindNumber, text: value.String()}, nil
}

// scanString keeps the raw body verbatim, escapes included, so the
// emitted literal is the one the author wrote.
func scanString(input *lexer.InputStream) token {
	input.Next()
	var raw strings.Builder
	for {
		c, ok := input.Next()
		if !ok {
			break
		}
		if c == '\\' {
			raw.WriteRune(c)
			if n, ok := input.Next(); ok {
				raw.WriteRune(n)
			}
			continue
		}
		if c == '"' {
			break
		}
		raw.WriteRune(c)
	}
	return token{kind: kindString, text: `"` + raw.String() + `"`}
}

// scanTemplate captures a whole template literal as opaque raw text.
// Interpolation expressions are not retokenized, so their internal
// spacing is left untouched.
func scanTemplate(input *lexer.InputStream) (token, *common.Error) {
	input.Next()
	var raw strings.Builder
	depth := 0
	for {
		c, ok := input.Next()
		if !ok {
			return token{}, input.Error("Unterminated template literal", 0)
		}
		if c == '\\' {
			raw.WriteRune(c)
			if n, ok := input.Next(); ok {
				raw.WriteRune(n)
			}
			continue
		}
		if depth == 0 && c == '`' {
			break
		}
		if c == '$' {
			if n, ok := input.Peek(); ok && n == '{' {
				input.Next()
				raw.WriteString("${")
				depth++
				continue
			}
		}
		if depth > 0 {
			if c == '{' {
				depth++
			} else if c == '}' {
				depth--
			}
		}
		raw.WriteRune(c)
	}
	return token{kind: kindTemplate, text: "`" + raw.String() + "`"}, nil
}

func scanIdent(input *lexer.InputStream) token {
	var raw strings.Builder
	for {
		c, ok := input.Peek()
		if !ok || !isIdentChar(c) {
			break
		}
		input.Next()
		raw.WriteRune(c)
	}
	if _, ok := lexer.LookupKeyword(raw.String()); ok {
		return token{kind: kindKeyword, text: raw.String()}
	}
	return token{kind: kindIdent, text: raw.String()}
}

// emit renders the token run with indentation and line breaking.
func emit(tokens []spacedToken) string {
	var out strings.Builder
	indent := 0
	atLineStart := true
	var prev *token
	var scopes common.Stack[byte]

	writeIndent := func() {
		out.WriteString(strings.Repeat(" ", indent*indentSize))
	}

	for i := range tokens {
		tok := &tokens[i].tok

		if tok.kind == kindComment || tok.kind == kindDocComment {
			if !atLineStart {
				out.WriteString("  ")
			} else {
				writeIndent()
			}
			if tok.kind == kindDocComment {
				out.WriteString("/// ")
			}
			out.WriteString(tok.text)
			out.WriteByte('\n')
			atLineStart = true
			prev = tok
			continue
		}

		// A blank line in the source survives as exactly one.
		if tokens[i].newlines >= 2 {
			if !atLineStart {
				out.WriteByte('\n')
			}
			out.WriteByte('\n')
			atLineStart = true
		}

		if tok.kind == kindPunct {
			switch tok.text {
			case "}":
				if indent > 0 {
					indent--
				}
				if top, ok := scopes.Peek(); ok && top == '{' {
					scopes.Pop()
				}
				if !atLineStart {
					out.WriteByte('\n')
					atLineStart = true
				}
			case "]":
				if top, ok := scopes.Peek(); ok && top == '[' {
					scopes.Pop()
				}
			case ")":
				if top, ok := scopes.Peek(); ok && top == '(' {
					scopes.Pop()
				}
			}
		}

		if atLineStart {
			writeIndent()
		} else if needsSpaceBefore(tok, prev) {
			out.WriteByte(' ')
		}
		out.WriteString(tok.text)
		atLineStart = false

		if tok.kind == kindPunct {
			switch tok.text {
			case "{":
				scopes.Push('{')
			case "(":
				scopes.Push('(')
			case "[":
				scopes.Push('[')
			}
		}

		if tok.kind == kindPunct {
			switch tok.text {
			case ";":
				out.WriteByte('\n')
				atLineStart = true
			case "{":
				indent++
				out.WriteByte('\n')
				atLineStart = true
			case ",":
				// Struct fields and block-level lists break per element.
				if top, ok := scopes.Peek(); ok && top == '{' {
					out.WriteByte('\n')
					atLineStart = true
				}
			case "}":
				next := ""
				if i+1 < len(tokens) && tokens[i+1].tok.kind == kindPunct {
					next = tokens[i+1].tok.text
				}
				if next != ";" && next != "," && next != ")" {
					out.WriteByte('\n')
					atLineStart = true
				}
			}
		}

		prev = tok
	}

	return strings.TrimRight(out.String(), " \n") + "\n"
}

func needsSpaceBefore(tok, prev *token) bool {
	if prev == nil {
		return false
	}

	prevPunct := func(s string) bool { return prev.kind == kindPunct && prev.text == s }
	tokPunct := func(s string) bool { return tok.kind == kindPunct && tok.text == s }

	switch {
	case prevPunct("(") || prevPunct("[") || prevPunct("{"):
		return false
	case tokPunct(")") || tokPunct("]") || tokPunct("}") || tokPunct(",") || tokPunct(";"):
		return false
	case tokPunct("{"):
		return true
	case prevPunct(":"):
		return true
	case prevPunct(","):
		return true
	case tokPunct(":"):
		return false
	case prev.kind == kindOp && prev.text == ".":
		return false
	case tok.kind == kindOp && tok.text == ".":
		return false
	case tok.kind == kindOp && tok.text == "?":
		return false
	case tok.kind == kindOp || prev.kind == kindOp:
		return true
	case prev.kind == kindKeyword:
		return true
	case prevPunct("]") && (tok.kind == kindIdent || tok.kind == kindKeyword):
		return true
	case prev.kind == kindIdent && tokPunct("("):
		return false
	case prev.kind == kindIdent && (tok.kind == kindIdent || tok.kind == kindKeyword):
		return true
	}
	return false
}

func isWhitespace(r rune) bool { return unicode.IsSpace(r) }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
