// Package ast defines the syntax tree produced by the parser. Nodes
// are plain data: one struct per syntactic form, grouped under the
// Expr, Stmt, Type, TraitMethod and TemplatePart interfaces.
package ast

import "github.com/shopspring/decimal"

type Expr interface {
	isExpr()
}

type Number struct {
	Value decimal.Decimal
}

type String struct {
	Value string
}

type Boolean struct {
	Value bool
}

type Ident struct {
	Name string
}

type BinOp struct {
	Op    string
	Left  Expr
	Right Expr
}

type UnaryOp struct {
	Op      string
	Operand Expr
}

type Call struct {
	Func Expr
	Args []Expr
}

type FieldAccess struct {
	Object Expr
	Field  string
}

type Index struct {
	Array Expr
	Index Expr
}

type ArrayLiteral struct {
	Elements []Expr
}

type StructLiteral struct {
	Name   string
	Fields []StructLiteralField
}

type StructLiteralField struct {
	Name  string
	Value Expr
}

type Lambda struct {
	Params     []LambdaParam
	ReturnType Type // nil when omitted
	Body       Expr // Block for brace bodies, any expression otherwise
}

type LambdaParam struct {
	Name string
	Type Type // nil when untyped
}

// Block is a brace-delimited statement list in expression position.
type Block struct {
	Stmts []Stmt
}

type Await struct {
	Expr Expr
}

type Async struct {
	Expr Expr
}

type Lazy struct {
	Expr Expr
}

// Try wraps a postfix '?'.
type Try struct {
	Expr Expr
}

type Match struct {
	Subject Expr
	Arms    []MatchArm
}

type MatchArm struct {
	Pattern Expr
	Body    Expr
}

type TemplateLiteral struct {
	Parts []TemplatePart
}

type TemplatePart interface {
	isTemplatePart()
}

type TemplateText struct {
	Text string
}

type TemplateExpr struct {
	Expr Expr
}

func (*Number) isExpr()          {}
func (*String) isExpr()          {}
func (*Boolean) isExpr()         {}
func (*Ident) isExpr()           {}
func (*BinOp) isExpr()           {}
func (*UnaryOp) isExpr()         {}
func (*Call) isExpr()            {}
func (*FieldAccess) isExpr()     {}
func (*Index) isExpr()           {}
func (*ArrayLiteral) isExpr()    {}
func (*StructLiteral) isExpr()   {}
func (*Lambda) isExpr()          {}
func (*Block) isExpr()           {}
func (*Await) isExpr()           {}
func (*Async) isExpr()           {}
func (*Lazy) isExpr()            {}
func (*Try) isExpr()             {}
func (*Match) isExpr()           {}
func (*TemplateLiteral) isExpr() {}

func (*TemplateText) isTemplatePart() {}
func (*TemplateExpr) isTemplatePart() {}
