package ast

import "strings"

type Type interface {
	isType()
	String() string
}

type NamedType struct {
	Name string
}

type GenericType struct {
	Base string
	Args []Type
}

type FunctionType struct {
	Params []Type
	Return Type
}

func (*NamedType) isType()    {}
func (*GenericType) isType()  {}
func (*FunctionType) isType() {}

func (t *NamedType) String() string { return t.Name }

func (t *GenericType) String() string {
	var sb strings.Builder
	sb.WriteString(t.Base)
	sb.WriteString("<")
	for i, arg := range t.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.String())
	}
	sb.WriteString(">")
	return sb.String()
}

func (t *FunctionType) String() string {
	var sb strings.Builder
	sb.WriteString("fn(")
	for i, p := range t.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(")")
	if t.Return != nil {
		sb.WriteString(" -> ")
		sb.WriteString(t.Return.String())
	}
	return sb.String()
}
