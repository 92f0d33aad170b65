package ast

type Stmt interface {
	isStmt()
}

// ImportDecl is a `learn "a::b::c";` declaration, with the quoted path
// already split on "::".
type ImportDecl struct {
	Path []string
}

type VarDecl struct {
	Name    string
	Type    Type // nil when inferred
	Mutable bool
	Value   Expr // nil when declared without initializer
}

type ConstDecl struct {
	Name  string
	Type  Type // nil when inferred
	Value Expr
}

type FunctionDecl struct {
	Name       string
	TypeParams []string
	Params     []Param
	ReturnType Type // nil when omitted
	Body       *BlockStmt
	IsAsync    bool
	IsExported bool
}

type Param struct {
	Name string
	Type Type
}

// AttrStmt attaches a `#[name(args...)]` attribute to the statement
// that follows it.
type AttrStmt struct {
	Attr Attribute
	Stmt Stmt
}

type Attribute struct {
	Name string
	Args []Expr
}

// StructDecl is a `def Name { field: type, ... }` declaration.
type StructDecl struct {
	Name   string
	Fields []Field
}

type Field struct {
	Name string
	Type Type
}

type ImplBlock struct {
	TypeName  string
	TraitName string // empty for inherent impls
	Methods   []*FunctionDecl
}

type TraitDecl struct {
	Name    string
	Methods []TraitMethod
}

// TraitMethod is either a bare signature or a signature with a default
// body.
type TraitMethod interface {
	isTraitMethod()
}

type TraitSignature struct {
	Name       string
	Params     []Param
	ReturnType Type
}

type TraitDefault struct {
	Name       string
	Params     []Param
	ReturnType Type
	Body       *BlockStmt
}

type EnumDecl struct {
	Name     string
	Variants []EnumVariant
}

// EnumVariant is a bare variant name or, when Tuple is set, a tuple
// variant carrying the listed payload types. Tuple distinguishes
// `Some(num)` from `None` even when the payload list is empty.
type EnumVariant struct {
	Name   string
	Params []Type
	Tuple  bool
}

type Assign struct {
	Name  string
	Value Expr
}

type If struct {
	Condition Expr
	Then      Stmt
	Else      Stmt // nil when absent
}

type While struct {
	Condition Expr
	Body      Stmt
}

type For struct {
	Var      string
	Iterable Expr
	Body     *BlockStmt
}

type MatchStmt struct {
	Subject Expr
	Arms    []MatchStmtArm
}

type MatchStmtArm struct {
	Pattern Expr
	Body    Stmt
}

type Return struct {
	Value Expr // nil for bare return
}

type Break struct{}

type Continue struct{}

type ExprStmt struct {
	Expr Expr
}

type BlockStmt struct {
	Stmts []Stmt
}

func (*ImportDecl) isStmt()   {}
func (*VarDecl) isStmt()      {}
func (*ConstDecl) isStmt()    {}
func (*FunctionDecl) isStmt() {}
func (*AttrStmt) isStmt()     {}
func (*StructDecl) isStmt()   {}
func (*ImplBlock) isStmt()    {}
func (*TraitDecl) isStmt()    {}
func (*EnumDecl) isStmt()     {}
func (*Assign) isStmt()       {}
func (*If) isStmt()           {}
func (*While) isStmt()        {}
func (*For) isStmt()          {}
func (*MatchStmt) isStmt()    {}
func (*Return) isStmt()       {}
func (*Break) isStmt()        {}
func (*Continue) isStmt()     {}
func (*ExprStmt) isStmt()     {}
func (*BlockStmt) isStmt()    {}

func (*TraitSignature) isTraitMethod() {}
func (*TraitDefault) isTraitMethod()   {}
