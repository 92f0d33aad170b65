package parser

import (
	"github.com/loft-lang/loft/frontend/ast"
	"github.com/loft-lang/loft/frontend/lexer"
)

// lambdaScanLimit caps the speculative lookahead so degenerate input
// cannot pull the whole file into the cursor buffer.
const lambdaScanLimit = 100

// isLambdaParams decides, just after an opening '(', whether it begins
// a lambda parameter list. It scans forward for a ')' at paren depth 0
// followed immediately by '=>', then reinserts every scanned token
// into the cursor buffer in original order regardless of the outcome.
func (p *parser) isLambdaParams() bool {
	var scanned []lexer.Token
	depth := 0
	foundArrow := false

	for {
		tok := p.next()
		if lexer.IsEOF(tok) {
			break
		}
		scanned = append(scanned, tok)

		if tok.Is(")") && depth == 0 {
			nxt := p.next()
			if !lexer.IsEOF(nxt) {
				scanned = append(scanned, nxt)
				if nxt.Is("=>") {
					foundArrow = true
				}
			}
			break
		}
		if tok.Is("(") {
			depth++
		} else if tok.Is(")") {
			depth--
		}

		if len(scanned) > lambdaScanLimit {
			break
		}
	}

	for i := len(scanned) - 1; i >= 0; i-- {
		p.pushBack(scanned[i])
	}

	return foundArrow
}

// parseLambdaWithParens is entered after the '(' of a confirmed lambda
// parameter list has been consumed.
func (p *parser) parseLambdaWithParens() ast.Expr {
	var params []ast.LambdaParam

	for {
		tok := p.peek()
		if tok.Is(")") {
			p.next()
			break
		}
		if lexer.IsEOF(tok) {
			p.bail("Expected parameter name but got EOF")
		}

		param := ast.LambdaParam{Name: p.expectIdent("parameter name")}
		if p.tryConsume(":") {
			param.Type = p.parseType()
		}
		params = append(params, param)
		p.tryConsume(",")
	}

	p.expectOp("=>")
	return p.parseLambdaBody(params, nil)
}

func (p *parser) parseLambdaBody(params []ast.LambdaParam, returnType ast.Type) ast.Expr {
	var body ast.Expr
	if p.peek().Is("{") {
		body = &ast.Block{Stmts: p.parseBlock()}
	} else {
		body = p.parseExpression()
	}
	return &ast.Lambda{Params: params, ReturnType: returnType, Body: body}
}
