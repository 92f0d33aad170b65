package parser

import (
	"github.com/loft-lang/loft/frontend/ast"
	"github.com/loft-lang/loft/frontend/lexer"
)

func (p *parser) parseType() ast.Type {
	name := p.expectIdent("type name")

	if !p.peek().Is("<") {
		return &ast.NamedType{Name: name}
	}
	p.next()

	var args []ast.Type
	for {
		args = append(args, p.parseType())

		tok := p.peek()
		if tok.Is(",") {
			p.next()
		} else if tok.Is(">") {
			p.next()
			break
		} else if lexer.IsEOF(tok) {
			p.bail("Unexpected EOF in generic type")
		} else {
			p.bail("Expected ',' or '>' in generic type")
		}
	}

	return &ast.GenericType{Base: name, Args: args}
}
