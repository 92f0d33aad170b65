package parser

import (
	"strings"

	"github.com/loft-lang/loft/frontend/ast"
	"github.com/loft-lang/loft/frontend/lexer"
)

func (p *parser) parseStatement() ast.Stmt {
	tok := p.peek()

	if tok.Is("#") {
		p.next()
		return p.parseAttributeStatement()
	}

	if kw, ok := tok.(lexer.TokKeyword); ok {
		switch kw.Keyword {
		case lexer.KwLet:
			return p.parseVarDecl(false)
		case lexer.KwMut:
			p.next()
			return p.parseVarDecl(true)
		case lexer.KwConst:
			return p.parseConstDecl()
		case lexer.KwFn:
			return p.parseFunctionDecl(false, false)
		case lexer.KwTeach:
			p.next()
			isAsync := false
			if p.isKeyword(p.peek(), lexer.KwAsync) {
				p.next()
				isAsync = true
			}
			return p.parseFunctionDecl(isAsync, true)
		case lexer.KwAsync:
			p.next()
			if p.isKeyword(p.peek(), lexer.KwFn) {
				return p.parseFunctionDecl(true, false)
			}
			// 'async <expr>': give the keyword back and re-parse the
			// whole thing as an expression statement.
			p.pushBack(kw)
			expr := p.parseExpression()
			p.maybeSemicolon()
			return &ast.ExprStmt{Expr: expr}
		case lexer.KwDef:
			return p.parseStructDecl()
		case lexer.KwEnum:
			return p.parseEnumDecl()
		case lexer.KwTrait:
			return p.parseTraitDecl()
		case lexer.KwImpl:
			return p.parseImplBlock()
		case lexer.KwLearn:
			return p.parseImportStatement()
		case lexer.KwIf:
			return p.parseIfStatement()
		case lexer.KwWhile:
			return p.parseWhileStatement()
		case lexer.KwFor:
			return p.parseForStatement()
		case lexer.KwMatch:
			return p.parseMatchStatement()
		case lexer.KwReturn:
			return p.parseReturnStatement()
		case lexer.KwBreak:
			p.next()
			p.maybeSemicolon()
			return &ast.Break{}
		case lexer.KwContinue:
			p.next()
			p.maybeSemicolon()
			return &ast.Continue{}
		}
	}

	if tok.Is("{") {
		return p.parseBlockStatement()
	}

	// A leading identifier followed by '=' is an assignment; anything
	// else falls through to expression parsing with the identifier
	// pushed back.
	if id, ok := tok.(lexer.TokIdent); ok {
		p.next()
		if p.peek().Is("=") {
			p.next()
			value := p.parseExpression()
			p.maybeSemicolon()
			return &ast.Assign{Name: id.Raw, Value: value}
		}
		p.pushBack(id)
	}

	expr := p.parseExpression()
	p.maybeSemicolon()
	return &ast.ExprStmt{Expr: expr}
}

func (p *parser) parseAttributeStatement() ast.Stmt {
	p.expectPunct("[")
	name := p.expectIdent("attribute name")

	var args []ast.Expr
	if p.peek().Is("(") {
		p.next()
		for {
			if p.peek().Is(")") {
				p.next()
				break
			}
			args = append(args, p.parseExpression())
			if tok := p.peek(); tok.Is(",") {
				p.next()
			} else if tok.Is(")") {
				p.next()
				break
			} else {
				p.bail("Expected ',' or ')' in attribute args but got " + tok.String())
			}
		}
	}

	p.expectPunct("]")
	stmt := p.parseStatement()
	return &ast.AttrStmt{
		Attr: ast.Attribute{Name: name, Args: args},
		Stmt: stmt,
	}
}

func (p *parser) parseVarDecl(mutable bool) ast.Stmt {
	p.expectKeyword(lexer.KwLet)
	// 'mut let x' and 'let mut x' both declare a mutable binding.
	if p.isKeyword(p.peek(), lexer.KwMut) {
		p.next()
		mutable = true
	}
	name := p.expectIdent("identifier")

	var varType ast.Type
	if p.tryConsume(":") {
		varType = p.parseType()
	}

	var value ast.Expr
	if p.peek().Is("=") {
		p.next()
		value = p.parseExpression()
	}

	p.maybeSemicolon()
	return &ast.VarDecl{Name: name, Type: varType, Mutable: mutable, Value: value}
}

func (p *parser) parseConstDecl() ast.Stmt {
	p.expectKeyword(lexer.KwConst)
	name := p.expectIdent("identifier")

	var constType ast.Type
	if p.tryConsume(":") {
		constType = p.parseType()
	}

	// Constants must have a value.
	p.expectOp("=")
	value := p.parseExpression()

	p.maybeSemicolon()
	return &ast.ConstDecl{Name: name, Type: constType, Value: value}
}

func (p *parser) parseImportStatement() ast.Stmt {
	p.expectKeyword(lexer.KwLearn)

	tok := p.next()
	str, ok := tok.(lexer.TokString)
	if !ok {
		p.bail("Expected string literal after 'learn' but got " + tok.String())
	}
	if str.Raw == "" {
		p.bail("Import path cannot be empty")
	}

	path := strings.Split(str.Raw, "::")
	p.maybeSemicolon()
	return &ast.ImportDecl{Path: path}
}

func (p *parser) parseIfStatement() ast.Stmt {
	p.expectKeyword(lexer.KwIf)
	p.expectPunct("(")
	condition := p.parseExpression()
	p.expectPunct(")")

	then := p.parseStatement()

	var elseBranch ast.Stmt
	if p.isKeyword(p.peek(), lexer.KwElse) {
		p.next()
		elseBranch = p.parseStatement()
	}

	return &ast.If{Condition: condition, Then: then, Else: elseBranch}
}

func (p *parser) parseWhileStatement() ast.Stmt {
	p.expectKeyword(lexer.KwWhile)
	p.expectPunct("(")
	condition := p.parseExpression()
	p.expectPunct(")")
	body := p.parseStatement()
	return &ast.While{Condition: condition, Body: body}
}

func (p *parser) parseForStatement() ast.Stmt {
	p.expectKeyword(lexer.KwFor)
	name := p.expectIdent("variable name")
	p.expectKeyword(lexer.KwIn)
	iterable := p.parseExpression()
	body := p.parseBlockStatement()
	return &ast.For{Var: name, Iterable: iterable, Body: body}
}

func (p *parser) parseReturnStatement() ast.Stmt {
	p.expectKeyword(lexer.KwReturn)

	var value ast.Expr
	if !p.peek().Is(";") && !lexer.IsEOF(p.peek()) {
		value = p.parseExpression()
	}

	p.maybeSemicolon()
	return &ast.Return{Value: value}
}

func (p *parser) parseBlockStatement() *ast.BlockStmt {
	return &ast.BlockStmt{Stmts: p.parseBlock()}
}

// parseBlock is shared by function bodies, loop bodies, bare blocks and
// block expressions.
func (p *parser) parseBlock() []ast.Stmt {
	p.expectPunct("{")
	var stmts []ast.Stmt
	for {
		tok := p.peek()
		if tok.Is("}") || lexer.IsEOF(tok) {
			break
		}
		stmts = append(stmts, p.parseStatement())
	}
	p.expectPunct("}")
	return stmts
}
