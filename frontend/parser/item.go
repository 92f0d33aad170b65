package parser

import (
	"github.com/loft-lang/loft/frontend/ast"
	"github.com/loft-lang/loft/frontend/lexer"
)

func (p *parser) parseFunctionDecl(isAsync, isExported bool) *ast.FunctionDecl {
	p.expectKeyword(lexer.KwFn)
	name := p.expectIdent("function name")

	var typeParams []string
	if p.peek().Is("<") {
		p.next()
		for {
			typeParams = append(typeParams, p.expectIdent("type parameter name"))
			if tok := p.peek(); tok.Is(",") {
				p.next()
			} else if tok.Is(">") {
				p.next()
				break
			} else {
				p.bail("Expected ',' or '>' in type parameters")
			}
		}
	}

	p.expectPunct("(")
	var params []ast.Param
	for {
		tok := p.peek()
		if tok.Is(")") || lexer.IsEOF(tok) {
			break
		}

		paramName := p.expectIdent("parameter name")

		// 'self' may omit its type annotation inside impl blocks.
		var paramType ast.Type
		if paramName == "self" {
			if p.tryConsume(":") {
				paramType = p.parseType()
			} else {
				paramType = &ast.NamedType{Name: "Self"}
			}
		} else {
			p.expectPunct(":")
			paramType = p.parseType()
		}

		params = append(params, ast.Param{Name: paramName, Type: paramType})
		p.tryConsume(",")
	}
	p.expectPunct(")")

	var returnType ast.Type
	if p.peek().Is("->") {
		p.next()
		returnType = p.parseType()
	}

	body := p.parseBlockStatement()

	return &ast.FunctionDecl{
		Name:       name,
		TypeParams: typeParams,
		Params:     params,
		ReturnType: returnType,
		Body:       body,
		IsAsync:    isAsync,
		IsExported: isExported,
	}
}

func (p *parser) parseStructDecl() ast.Stmt {
	p.expectKeyword(lexer.KwDef)
	name := p.expectIdent("struct name")

	p.expectPunct("{")
	var fields []ast.Field
	for {
		tok := p.peek()
		if tok.Is("}") || lexer.IsEOF(tok) {
			break
		}

		fieldName := p.expectIdent("field name")
		p.expectPunct(":")
		fieldType := p.parseType()
		fields = append(fields, ast.Field{Name: fieldName, Type: fieldType})
		p.tryConsume(",")
	}
	p.expectPunct("}")

	return &ast.StructDecl{Name: name, Fields: fields}
}

func (p *parser) parseEnumDecl() ast.Stmt {
	p.expectKeyword(lexer.KwEnum)
	name := p.expectIdent("enum name")

	p.expectPunct("{")
	var variants []ast.EnumVariant
	for {
		tok := p.peek()
		if tok.Is("}") || lexer.IsEOF(tok) {
			break
		}

		variant := ast.EnumVariant{Name: p.expectIdent("variant name")}
		if p.peek().Is("(") {
			p.next()
			variant.Tuple = true
			for {
				tok := p.peek()
				if tok.Is(")") || lexer.IsEOF(tok) {
					break
				}
				variant.Params = append(variant.Params, p.parseType())
				p.tryConsume(",")
			}
			p.expectPunct(")")
		}

		variants = append(variants, variant)
		p.tryConsume(",")
	}
	p.expectPunct("}")

	return &ast.EnumDecl{Name: name, Variants: variants}
}

func (p *parser) parseTraitDecl() ast.Stmt {
	p.expectKeyword(lexer.KwTrait)
	name := p.expectIdent("trait name")

	p.expectPunct("{")
	var methods []ast.TraitMethod
	for {
		tok := p.peek()
		if tok.Is("}") || lexer.IsEOF(tok) {
			break
		}

		p.expectKeyword(lexer.KwFn)
		methodName := p.expectIdent("method name")

		p.expectPunct("(")
		var params []ast.Param
		for {
			tok := p.peek()
			if tok.Is(")") || lexer.IsEOF(tok) {
				break
			}

			paramName := p.expectIdent("parameter name")

			// An untyped parameter names its own type; this is how
			// 'self' comes out.
			var paramType ast.Type
			if p.tryConsume(":") {
				paramType = p.parseType()
			} else {
				paramType = &ast.NamedType{Name: paramName}
			}

			params = append(params, ast.Param{Name: paramName, Type: paramType})
			p.tryConsume(",")
		}
		p.expectPunct(")")

		p.expectOp("->")
		returnType := p.parseType()

		if tok := p.peek(); tok.Is(";") {
			p.next()
			methods = append(methods, &ast.TraitSignature{
				Name:       methodName,
				Params:     params,
				ReturnType: returnType,
			})
		} else if tok.Is("{") {
			body := p.parseBlockStatement()
			methods = append(methods, &ast.TraitDefault{
				Name:       methodName,
				Params:     params,
				ReturnType: returnType,
				Body:       body,
			})
		} else {
			p.bail("Expected ';' or '{' after trait method signature")
		}
	}
	p.expectPunct("}")

	return &ast.TraitDecl{Name: name, Methods: methods}
}

func (p *parser) parseImplBlock() ast.Stmt {
	p.expectKeyword(lexer.KwImpl)
	first := p.expectIdent("type or trait name")

	var typeName, traitName string
	if p.isKeyword(p.peek(), lexer.KwFor) {
		p.next()
		traitName = first
		typeName = p.expectIdent("type name")
	} else {
		typeName = first
	}

	p.expectPunct("{")
	var methods []*ast.FunctionDecl
	for {
		tok := p.peek()
		if tok.Is("}") || lexer.IsEOF(tok) {
			break
		}
		methods = append(methods, p.parseFunctionDecl(false, false))
	}
	p.expectPunct("}")

	return &ast.ImplBlock{TypeName: typeName, TraitName: traitName, Methods: methods}
}
