package lexer

import (
	"strings"

	"github.com/loft-lang/loft/common"
)

// readTemplateLiteral lexes an entire backtick template in one pass and
// returns its flat token run: TemplateStart, text chunks and
// interpolation spans, TemplateEnd. The first token is handed out
// immediately and the rest waits in the pending queue.
func (tk *Tokenizer) readTemplateLiteral() ([]Token, *common.Error) {
	tk.input.Next()
	tokens := []Token{TokTemplateStart{}}
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			tokens = append(tokens, TokTemplateString{Text: text.String()})
			text.Reset()
		}
	}

	for {
		c, ok := tk.input.Peek()
		if !ok {
			break
		}

		switch c {
		case '`':
			flush()
			tk.input.Next()
			tokens = append(tokens, TokTemplateEnd{})
			return tokens, nil

		case '$':
			saved := tk.input.SavePosition()
			tk.input.Next()
			if p, ok := tk.input.Peek(); ok && p == '{' {
				flush()
				tk.input.Next()
				exprTokens, err := tk.readTemplateExpr()
				if err != nil {
					return nil, err
				}
				tokens = append(tokens, TokTemplateExprStart{})
				tokens = append(tokens, exprTokens...)
				tokens = append(tokens, TokTemplateExprEnd{})
			} else {
				tk.input.RestorePosition(saved)
				tk.input.Next()
				text.WriteRune('$')
			}

		case '\\':
			tk.input.Next()
			e, ok := tk.input.Next()
			if !ok {
				text.WriteRune('\\')
				continue
			}
			switch e {
			case 'n':
				text.WriteRune('\n')
			case 't':
				text.WriteRune('\t')
			case 'r':
				text.WriteRune('\r')
			case '\\', '`', '$':
				text.WriteRune(e)
			default:
				// Unknown escapes keep the backslash.
				text.WriteRune('\\')
				text.WriteRune(e)
			}

		default:
			tk.input.Next()
			text.WriteRune(c)
		}
	}

	return nil, tk.input.Error("Unterminated template literal", 0)
}

// readTemplateExpr is entered just past "${". It buffers raw characters
// while balance-counting braces, then runs the buffered substring
// through a fresh tokenizer so the interpolated expression gets its own
// complete token sequence.
func (tk *Tokenizer) readTemplateExpr() ([]Token, *common.Error) {
	var expr strings.Builder
	depth := 1

	for depth > 0 {
		c, ok := tk.input.Next()
		if !ok {
			return nil, tk.input.Error("Unterminated template expression", 0)
		}
		switch c {
		case '{':
			depth++
			expr.WriteRune(c)
		case '}':
			depth--
			if depth > 0 {
				expr.WriteRune(c)
			}
		default:
			expr.WriteRune(c)
		}
	}

	var tokens []Token
	inner := NewTokenizer(tk.input.Path(), expr.String())
	for {
		tok, err := inner.Next()
		if err != nil {
			return nil, err
		}
		if IsEOF(tok) {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}
