// Package parser builds loft syntax trees from source text by
// recursive descent over the token stream. Inside the package, errors
// travel as panics carrying a *common.Error; the public entry points
// recover them back into return values.
package parser

import (
	"fmt"

	"github.com/loft-lang/loft/common"
	"github.com/loft-lang/loft/frontend/ast"
	"github.com/loft-lang/loft/frontend/lexer"
)

type parser struct {
	cur *lexer.Cursor
}

func newParser(path, code string) *parser {
	return &parser{cur: lexer.NewCursor(lexer.NewTokenizer(path, code))}
}

// Parse parses a whole source file. The first lexical or syntactic
// error aborts the parse and is returned.
func Parse(path, code string) (stmts []ast.Stmt, err *common.Error) {
	defer func() {
		if r := recover(); r != nil {
			err = toError(r)
			stmts = nil
		}
	}()
	p := newParser(path, code)
	for !lexer.IsEOF(p.peek()) {
		stmts = append(stmts, p.parseStatement())
	}
	return stmts, nil
}

// ParseRecoverable parses a whole source file, collecting one error per
// failed statement instead of stopping at the first. After each error
// the parser synchronizes to the next statement boundary, so the
// returned statements are those that parsed cleanly.
func ParseRecoverable(path, code string) ([]ast.Stmt, []*common.Error) {
	p := newParser(path, code)
	var stmts []ast.Stmt
	var errors []*common.Error

	for {
		tok, err := p.cur.Peek()
		if err != nil {
			errors = append(errors, err)
			break
		}
		if lexer.IsEOF(tok) {
			break
		}
		stmt, perr := p.parseStatementRecover()
		if perr != nil {
			errors = append(errors, perr)
			p.synchronize()
			continue
		}
		stmts = append(stmts, stmt)
	}

	return stmts, errors
}

func (p *parser) parseStatementRecover() (stmt ast.Stmt, err *common.Error) {
	defer func() {
		if r := recover(); r != nil {
			err = toError(r)
			stmt = nil
		}
	}()
	return p.parseStatement(), nil
}

// synchronize discards the offending token, then skips forward to a
// statement boundary: a ';' (consumed) or a keyword that starts a
// statement (left in place).
func (p *parser) synchronize() {
	if tok, err := p.cur.Next(); err != nil || lexer.IsEOF(tok) {
		return
	}

	for {
		tok, err := p.cur.Peek()
		if err != nil || lexer.IsEOF(tok) {
			return
		}
		if tok.Is(";") {
			p.cur.Next()
			return
		}
		if kw, ok := tok.(lexer.TokKeyword); ok {
			switch kw.Keyword {
			case lexer.KwFn, lexer.KwLet, lexer.KwConst, lexer.KwIf, lexer.KwWhile,
				lexer.KwFor, lexer.KwReturn, lexer.KwTeach, lexer.KwLearn,
				lexer.KwDef, lexer.KwImpl, lexer.KwTrait:
				return
			}
		}
		p.cur.Next()
	}
}

func toError(r any) *common.Error {
	if err, ok := r.(*common.Error); ok {
		return err
	}
	panic(r)
}

// peek, peekN and next convert lexical errors into panics so the
// grammar code above them stays linear.
func (p *parser) peek() lexer.Token {
	tok, err := p.cur.Peek()
	if err != nil {
		panic(err)
	}
	return tok
}

func (p *parser) peekN(n int) lexer.Token {
	tok, err := p.cur.PeekN(n)
	if err != nil {
		panic(err)
	}
	return tok
}

func (p *parser) next() lexer.Token {
	tok, err := p.cur.Next()
	if err != nil {
		panic(err)
	}
	return tok
}

func (p *parser) pushBack(tok lexer.Token) {
	p.cur.PushBack(tok)
}

// bail raises a syntax error at the current read head without
// consuming anything.
func (p *parser) bail(msg string) {
	panic(p.cur.Error(msg, 0))
}

func (p *parser) expectPunct(punct string) {
	tok := p.next()
	if pt, ok := tok.(lexer.TokPunct); !ok || pt.Punct != punct {
		p.bail(fmt.Sprintf("Expected '%s' but got %s", punct, tok))
	}
}

func (p *parser) expectKeyword(kw lexer.Keyword) {
	tok := p.next()
	if kt, ok := tok.(lexer.TokKeyword); !ok || kt.Keyword != kw {
		p.bail(fmt.Sprintf("Expected keyword '%s' but got %s", kw, tok))
	}
}

func (p *parser) expectOp(op string) {
	tok := p.next()
	if ot, ok := tok.(lexer.TokOp); !ok || ot.Op != op {
		p.bail(fmt.Sprintf("Expected operator '%s' but got %s", op, tok))
	}
}

// expectIdent consumes an identifier and returns its raw text. what
// names the grammatical role for the error message, e.g. "field name".
func (p *parser) expectIdent(what string) string {
	tok := p.next()
	id, ok := tok.(lexer.TokIdent)
	if !ok {
		p.bail(fmt.Sprintf("Expected %s but got %s", what, tok))
	}
	return id.Raw
}

// tryConsume consumes the next token when it is the given punctuation
// or operator and reports whether it did.
func (p *parser) tryConsume(s string) bool {
	if p.peek().Is(s) {
		p.next()
		return true
	}
	return false
}

// maybeSemicolon consumes a trailing ';' when present. Lexical errors
// are left in the stream to surface on the next real read.
func (p *parser) maybeSemicolon() {
	tok, err := p.cur.Peek()
	if err == nil && tok.Is(";") {
		p.cur.Next()
	}
}

func (p *parser) isKeyword(tok lexer.Token, kw lexer.Keyword) bool {
	kt, ok := tok.(lexer.TokKeyword)
	return ok && kt.Keyword == kw
}
