package parser

import (
	"github.com/loft-lang/loft/frontend/ast"
	"github.com/loft-lang/loft/frontend/lexer"
)

// parseMatchExpr is entered with the 'match' keyword already consumed.
// Arm bodies are expressions; the statement form lives in
// parseMatchStatement.
func (p *parser) parseMatchExpr() ast.Expr {
	subject := p.parseMatchSubject()

	p.expectPunct("{")
	var arms []ast.MatchArm
	for {
		tok := p.peek()
		if tok.Is("}") || lexer.IsEOF(tok) {
			break
		}

		pattern := p.parsePatternExpr()
		p.expectOp("=>")
		body := p.parseExpression()
		arms = append(arms, ast.MatchArm{Pattern: pattern, Body: body})
		p.tryConsume(",")
	}
	p.expectPunct("}")

	return &ast.Match{Subject: subject, Arms: arms}
}

func (p *parser) parseMatchStatement() ast.Stmt {
	p.expectKeyword(lexer.KwMatch)
	subject := p.parseMatchSubject()

	p.expectPunct("{")
	var arms []ast.MatchStmtArm
	for {
		tok := p.peek()
		if tok.Is("}") || lexer.IsEOF(tok) {
			break
		}

		pattern := p.parsePatternExpr()
		p.expectOp("=>")
		body := p.parseStatement()
		arms = append(arms, ast.MatchStmtArm{Pattern: pattern, Body: body})
		p.tryConsume(",")
	}
	p.expectPunct("}")

	return &ast.MatchStmt{Subject: subject, Arms: arms}
}

// parseMatchSubject parses the scrutinee. Its postfix chain excludes
// struct literals and '?' so the '{' opening the arm block is never
// taken as part of the subject.
func (p *parser) parseMatchSubject() ast.Expr {
	left := p.parsePrimaryExpr()

	for {
		tok := p.peek()
		switch {
		case tok.Is("("):
			left = p.parseCall(left)
		case tok.Is("."):
			p.next()
			left = &ast.FieldAccess{Object: left, Field: p.expectIdent("field name after '.'")}
		case tok.Is("["):
			p.next()
			index := p.parseExpression()
			p.expectPunct("]")
			left = &ast.Index{Array: left, Index: index}
		default:
			return p.parseBinaryExprWithLeft(left, 0)
		}
	}
}

// parsePatternExpr parses one arm pattern: a pattern primary plus
// calls and field accesses, with no binary fold so the '=>' arrow is
// left alone.
func (p *parser) parsePatternExpr() ast.Expr {
	expr := p.parsePatternPrimary()

	for {
		tok := p.peek()
		switch {
		case tok.Is("("):
			p.next()
			var args []ast.Expr
			for {
				tok := p.peek()
				if tok.Is(")") || lexer.IsEOF(tok) {
					break
				}
				args = append(args, p.parsePatternExpr())
				p.tryConsume(",")
			}
			p.expectPunct(")")
			expr = &ast.Call{Func: expr, Args: args}
		case tok.Is("."):
			p.next()
			expr = &ast.FieldAccess{Object: expr, Field: p.expectIdent("field name after '.'")}
		default:
			return expr
		}
	}
}

func (p *parser) parsePatternPrimary() ast.Expr {
	tok := p.peek()

	switch v := tok.(type) {
	case lexer.TokNumber:
		p.next()
		return &ast.Number{Value: v.Value}
	case lexer.TokString:
		p.next()
		return &ast.String{Value: v.Raw}
	case lexer.TokIdent:
		p.next()
		return &ast.Ident{Name: v.Raw}
	case lexer.TokKeyword:
		if v.Keyword == lexer.KwTrue {
			p.next()
			return &ast.Boolean{Value: true}
		}
		if v.Keyword == lexer.KwFalse {
			p.next()
			return &ast.Boolean{Value: false}
		}
	case lexer.TokEOF:
		p.bail("Unexpected EOF in pattern")
	}

	if tok.Is("(") {
		p.next()
		expr := p.parsePatternExpr()
		p.expectPunct(")")
		return expr
	}

	p.bail("Unexpected token in pattern: " + tok.String())
	return nil
}
