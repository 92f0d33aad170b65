package parser

import (
	"github.com/loft-lang/loft/frontend/ast"
	"github.com/loft-lang/loft/frontend/lexer"
)

// precedence returns the binding power of a binary operator, higher
// binding tighter. Unknown operators fold at 0, which only matters at
// the outermost nesting level.
func precedence(op string) int {
	switch op {
	case "||":
		return 1
	case "&&":
		return 2
	case "==", "!=":
		return 3
	case "<", "<=", ">", ">=":
		return 4
	case "|":
		return 5
	case "^":
		return 6
	case "&":
		return 7
	case "<<", ">>":
		return 8
	case "+", "-":
		return 9
	case "*", "/", "%":
		return 10
	}
	return 0
}

// peekBinaryOp reports the binary operator at the cursor, if any.
// Shift operators never leave the lexer as one token because '<' '<'
// is not in the digraph table; two adjacent angle tokens are paired
// here instead. width is the number of tokens the operator spans.
func (p *parser) peekBinaryOp() (op string, width int, ok bool) {
	tok, isOp := p.peek().(lexer.TokOp)
	if !isOp {
		return "", 0, false
	}
	if tok.Op == "<" || tok.Op == ">" {
		if nxt, isOp := p.peekN(1).(lexer.TokOp); isOp && nxt.Op == tok.Op {
			return tok.Op + tok.Op, 2, true
		}
	}
	return tok.Op, 1, true
}

func (p *parser) consumeBinaryOp(width int) {
	for range width {
		p.next()
	}
}

// parseBinaryExpr is standard precedence climbing: parse one
// primary+postfix expression, then fold in operators binding at least
// as tight as minPrec, recursing with prec+1 for left associativity.
func (p *parser) parseBinaryExpr(minPrec int) ast.Expr {
	left := p.parsePrimaryExpr()
	left = p.parsePostfix(left)

	for {
		op, width, ok := p.peekBinaryOp()
		if !ok || precedence(op) < minPrec {
			return left
		}
		p.consumeBinaryOp(width)
		right := p.parseBinaryExpr(precedence(op) + 1)
		left = &ast.BinOp{Op: op, Left: left, Right: right}
	}
}

// parseBinaryExprWithLeft continues the fold from an already-parsed
// left operand. Used where the caller had to parse the operand under
// special rules (match subjects, struct literal field values).
func (p *parser) parseBinaryExprWithLeft(left ast.Expr, minPrec int) ast.Expr {
	for {
		op, width, ok := p.peekBinaryOp()
		if !ok || precedence(op) < minPrec {
			return left
		}
		p.consumeBinaryOp(width)
		right := p.parsePostfix(p.parsePrimaryExpr())
		right = p.parseBinaryExprWithLeft(right, precedence(op)+1)
		left = &ast.BinOp{Op: op, Left: left, Right: right}
	}
}

// parseBinaryExprNoPostfix folds binary operators over bare primaries,
// with no postfix pass on either side.
func (p *parser) parseBinaryExprNoPostfix(minPrec int) ast.Expr {
	left := p.parsePrimaryExpr()

	for {
		op, width, ok := p.peekBinaryOp()
		if !ok || precedence(op) < minPrec {
			return left
		}
		p.consumeBinaryOp(width)
		right := p.parseBinaryExprNoPostfix(precedence(op) + 1)
		left = &ast.BinOp{Op: op, Left: left, Right: right}
	}
}
