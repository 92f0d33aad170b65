package parser

import (
	"github.com/loft-lang/loft/frontend/ast"
	"github.com/loft-lang/loft/frontend/lexer"
)

func (p *parser) parseExpression() ast.Expr {
	return p.parseBinaryExpr(0)
}

// parsePrimaryExpr parses one atomic expression. On an unexpected
// token it raises the error while leaving the token in the stream, so
// recovery can treat it as the statement boundary.
func (p *parser) parsePrimaryExpr() ast.Expr {
	tok := p.peek()

	switch v := tok.(type) {
	case lexer.TokNumber:
		p.next()
		return &ast.Number{Value: v.Value}

	case lexer.TokString:
		p.next()
		return &ast.String{Value: v.Raw}

	case lexer.TokTemplateStart:
		p.next()
		return p.parseTemplateLiteral()

	case lexer.TokIdent:
		p.next()
		// An identifier directly followed by '=>' is a single
		// parameter lambda.
		if p.peek().Is("=>") {
			p.next()
			return p.parseLambdaBody([]ast.LambdaParam{{Name: v.Raw}}, nil)
		}
		return &ast.Ident{Name: v.Raw}

	case lexer.TokKeyword:
		switch v.Keyword {
		case lexer.KwTrue:
			p.next()
			return &ast.Boolean{Value: true}
		case lexer.KwFalse:
			p.next()
			return &ast.Boolean{Value: false}
		case lexer.KwAwait:
			p.next()
			return &ast.Await{Expr: p.parsePrefixOperand()}
		case lexer.KwAsync:
			p.next()
			return &ast.Async{Expr: p.parsePrefixOperand()}
		case lexer.KwLazy:
			p.next()
			return &ast.Lazy{Expr: p.parsePrefixOperand()}
		case lexer.KwMatch:
			p.next()
			return p.parseMatchExpr()
		}

	case lexer.TokEOF:
		p.bail("Unexpected end of input in expression")
	}

	switch {
	case tok.Is("("):
		p.next()
		if p.isLambdaParams() {
			return p.parseLambdaWithParens()
		}
		expr := p.parseExpression()
		p.expectPunct(")")
		return expr

	case tok.Is("["):
		p.next()
		return p.parseArrayLiteral()

	case tok.Is("{"):
		return &ast.Block{Stmts: p.parseBlock()}
	}

	p.bail("Unexpected token in expression: " + tok.String())
	return nil
}

// parsePrefixOperand parses the operand of await/async/lazy: one
// primary plus its postfix chain, not a full binary expression, so
// 'await a + b' is '(await a) + b'.
func (p *parser) parsePrefixOperand() ast.Expr {
	expr := p.parsePrimaryExpr()
	return p.parsePostfix(expr)
}

// parsePostfix greedily applies calls, field accesses, indexing,
// struct literals and '?' to expr. A '{' only begins a struct literal
// when the base is a bare identifier; that gate is what lets
// 'if (cond) { ... }' keep its block.
func (p *parser) parsePostfix(expr ast.Expr) ast.Expr {
	for {
		tok := p.peek()
		switch {
		case tok.Is("("):
			expr = p.parseCall(expr)
		case tok.Is("."):
			p.next()
			expr = &ast.FieldAccess{Object: expr, Field: p.expectIdent("field name after '.'")}
		case tok.Is("["):
			p.next()
			index := p.parseExpression()
			p.expectPunct("]")
			expr = &ast.Index{Array: expr, Index: index}
		case tok.Is("{"):
			id, ok := expr.(*ast.Ident)
			if !ok {
				return expr
			}
			expr = p.parseStructLiteral(id.Name)
		case tok.Is("?"):
			p.next()
			expr = &ast.Try{Expr: expr}
		default:
			return expr
		}
	}
}

func (p *parser) parseCall(fn ast.Expr) *ast.Call {
	p.expectPunct("(")
	var args []ast.Expr
	for {
		tok := p.peek()
		if tok.Is(")") || lexer.IsEOF(tok) {
			break
		}

		args = append(args, p.parseExpression())

		if tok := p.peek(); tok.Is(",") {
			p.next()
		} else if !tok.Is(")") {
			p.bail("Expected ',' or ')' in function call")
		}
	}
	p.expectPunct(")")
	return &ast.Call{Func: fn, Args: args}
}

func (p *parser) parseArrayLiteral() ast.Expr {
	var elements []ast.Expr
	for {
		tok := p.peek()
		if tok.Is("]") || lexer.IsEOF(tok) {
			break
		}

		// Elements skip postfix parsing so a trailing '{' is never
		// claimed by an inner element.
		elements = append(elements, p.parseBinaryExprNoPostfix(0))
		p.tryConsume(",")
	}
	p.expectPunct("]")
	return &ast.ArrayLiteral{Elements: elements}
}

func (p *parser) parseStructLiteral(name string) ast.Expr {
	p.expectPunct("{")
	var fields []ast.StructLiteralField

	for {
		tok := p.peek()
		if tok.Is("}") || lexer.IsEOF(tok) {
			break
		}

		fieldName := p.expectIdent("field name")
		p.expectPunct(":")

		// Field values get their own primary+postfix parse before the
		// binary fold so the fold never claims the literal's braces.
		value := p.parsePostfix(p.parsePrimaryExpr())
		value = p.parseBinaryExprWithLeft(value, 0)

		fields = append(fields, ast.StructLiteralField{Name: fieldName, Value: value})
		p.tryConsume(",")
	}

	p.expectPunct("}")
	return &ast.StructLiteral{Name: name, Fields: fields}
}

func (p *parser) parseTemplateLiteral() ast.Expr {
	var parts []ast.TemplatePart

	for {
		tok := p.next()
		switch v := tok.(type) {
		case lexer.TokTemplateString:
			parts = append(parts, &ast.TemplateText{Text: v.Text})

		case lexer.TokTemplateExprStart:
			expr := p.parseExpression()
			parts = append(parts, &ast.TemplateExpr{Expr: expr})

			end := p.next()
			if _, ok := end.(lexer.TokTemplateExprEnd); !ok {
				if lexer.IsEOF(end) {
					p.bail("Unexpected end of input in template expression")
				}
				p.bail("Expected '}' after template expression, found " + end.String())
			}

		case lexer.TokTemplateEnd:
			return &ast.TemplateLiteral{Parts: parts}

		case lexer.TokEOF:
			p.bail("Unexpected end of input in template literal")

		default:
			p.bail("Unexpected token in template literal: " + tok.String())
		}
	}
}
