// Package docgen extracts documentation items from source files and
// renders them as a static HTML page.
package docgen

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/loft-lang/loft/frontend/ast"
	"github.com/loft-lang/loft/frontend/parser"
)

type Kind int

const (
	KindFunction Kind = iota
	KindStruct
	KindEnum
	KindTrait
	KindConstant
	KindVariable
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindTrait:
		return "trait"
	case KindConstant:
		return "constant"
	case KindVariable:
		return "variable"
	}
	return "unknown"
}

// Param is a named, typed slot. It doubles as a struct field in the
// item model.
type Param struct {
	Name string
	Type string
}

// Item is one documented declaration.
type Item struct {
	Name      string
	Kind      Kind
	Doc       string
	Signature string

	// Function details.
	Params     []Param
	ReturnType string
	IsAsync    bool
	IsExported bool

	// Struct details.
	Fields            []Param
	ImplementedTraits []string

	// Enum variants, rendered as written.
	Variants []string

	// Trait details.
	Methods      []string
	Implementors []string
}

// IsFunction reports whether the item documents a callable.
func (i *Item) IsFunction() bool { return i.Kind == KindFunction }

// Generator accumulates items across files and renders them once.
type Generator struct {
	items []*Item
	// trait name, type name pairs from `impl T for S` blocks.
	implRelations [][2]string
}

func NewGenerator() *Generator {
	return &Generator{}
}

// Items returns the extracted items in declaration order.
func (g *Generator) Items() []*Item { return g.items }

// ParseFile reads and parses one source file and extracts its items.
func (g *Generator) ParseFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return g.ParseSource(path, string(content))
}

// ParseSource extracts items from already-loaded source text.
func (g *Generator) ParseSource(path, source string) error {
	stmts, perr := parser.Parse(path, source)
	if perr != nil {
		return fmt.Errorf("failed to parse %s: %s", path, perr.Message)
	}
	docs := extractDocComments(source)
	g.extract(stmts, docs)
	return nil
}

func (g *Generator) extract(stmts []ast.Stmt, docs map[string]string) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.FunctionDecl:
			g.items = append(g.items, functionItem(s, docs))

		case *ast.StructDecl:
			fields := make([]Param, 0, len(s.Fields))
			var lines []string
			for _, f := range s.Fields {
				fields = append(fields, Param{Name: f.Name, Type: typeString(f.Type)})
				lines = append(lines, fmt.Sprintf("    %s: %s", f.Name, typeString(f.Type)))
			}
			g.items = append(g.items, &Item{
				Name:      s.Name,
				Kind:      KindStruct,
				Doc:       docs[s.Name],
				Signature: fmt.Sprintf("def %s {\n%s\n}", s.Name, strings.Join(lines, ",\n")),
				Fields:    fields,
			})

		case *ast.EnumDecl:
			variants := make([]string, 0, len(s.Variants))
			for _, v := range s.Variants {
				if v.Tuple {
					types := make([]string, 0, len(v.Params))
					for _, t := range v.Params {
						types = append(types, typeString(t))
					}
					variants = append(variants, fmt.Sprintf("%s(%s)", v.Name, strings.Join(types, ", ")))
				} else {
					variants = append(variants, v.Name)
				}
			}
			g.items = append(g.items, &Item{
				Name:      s.Name,
				Kind:      KindEnum,
				Doc:       docs[s.Name],
				Signature: fmt.Sprintf("enum %s", s.Name),
				Variants:  variants,
			})

		case *ast.TraitDecl:
			methods := make([]string, 0, len(s.Methods))
			for _, m := range s.Methods {
				switch m := m.(type) {
				case *ast.TraitSignature:
					methods = append(methods, m.Name)
				case *ast.TraitDefault:
					methods = append(methods, m.Name)
				}
			}
			g.items = append(g.items, &Item{
				Name:      s.Name,
				Kind:      KindTrait,
				Doc:       docs[s.Name],
				Signature: fmt.Sprintf("trait %s", s.Name),
				Methods:   methods,
			})

		case *ast.ConstDecl:
			typ := optTypeString(s.Type)
			g.items = append(g.items, &Item{
				Name:       s.Name,
				Kind:       KindConstant,
				Doc:        docs[s.Name],
				Signature:  fmt.Sprintf("const %s: %s", s.Name, typ),
				ReturnType: typ,
			})

		case *ast.VarDecl:
			typ := optTypeString(s.Type)
			g.items = append(g.items, &Item{
				Name:       s.Name,
				Kind:       KindVariable,
				Doc:        docs[s.Name],
				Signature:  fmt.Sprintf("let %s: %s", s.Name, typ),
				ReturnType: typ,
			})

		case *ast.ImplBlock:
			if s.TraitName != "" {
				g.implRelations = append(g.implRelations, [2]string{s.TraitName, s.TypeName})
			}
			for _, m := range s.Methods {
				g.items = append(g.items, functionItem(m, docs))
			}

		case *ast.AttrStmt:
			g.extract([]ast.Stmt{s.Stmt}, docs)
		}
	}
}

func functionItem(fn *ast.FunctionDecl, docs map[string]string) *Item {
	params := make([]Param, 0, len(fn.Params))
	var rendered []string
	for _, p := range fn.Params {
		params = append(params, Param{Name: p.Name, Type: typeString(p.Type)})
		rendered = append(rendered, fmt.Sprintf("%s: %s", p.Name, typeString(p.Type)))
	}

	var prefix string
	if fn.IsExported {
		prefix += "teach "
	}
	if fn.IsAsync {
		prefix += "async "
	}
	ret := optTypeString(fn.ReturnType)

	return &Item{
		Name:       fn.Name,
		Kind:       KindFunction,
		Doc:        docs[fn.Name],
		Signature:  fmt.Sprintf("%sfn %s(%s) -> %s", prefix, fn.Name, strings.Join(rendered, ", "), ret),
		Params:     params,
		ReturnType: ret,
		IsAsync:    fn.IsAsync,
		IsExported: fn.IsExported,
	}
}

func typeString(t ast.Type) string {
	if t == nil {
		return "unknown"
	}
	return t.String()
}

func optTypeString(t ast.Type) string {
	if t == nil {
		return "void"
	}
	return t.String()
}

// resolveImplRelations folds impl blocks into the struct and trait
// items they connect.
func (g *Generator) resolveImplRelations() {
	for _, rel := range g.implRelations {
		traitName, typeName := rel[0], rel[1]
		for _, item := range g.items {
			if item.Kind == KindTrait && item.Name == traitName && !contains(item.Implementors, typeName) {
				item.Implementors = append(item.Implementors, typeName)
			}
			if (item.Kind == KindStruct || item.Kind == KindEnum) && item.Name == typeName &&
				!contains(item.ImplementedTraits, traitName) {
				item.ImplementedTraits = append(item.ImplementedTraits, traitName)
			}
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// declPrefixes are the declaration forms a doc comment can attach to.
// Longer forms sort first so "teach async fn" wins over "fn".
var declPrefixes = []string{
	"teach async fn ",
	"teach fn ",
	"async fn ",
	"fn ",
	"let mut ",
	"let ",
	"const ",
	"def ",
	"enum ",
	"trait ",
}

// extractDocComments walks the raw source line by line and maps each
// `///` run or `/** */` block to the name declared on the next
// non-blank line. The raw scan keeps working on files whose bodies
// reference names the parser alone would not associate.
func extractDocComments(source string) map[string]string {
	lines := strings.Split(source, "\n")
	docs := make(map[string]string)

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])

		switch {
		case strings.HasPrefix(line, "///"):
			var docLines []string
			for i < len(lines) {
				trimmed := strings.TrimSpace(lines[i])
				if !strings.HasPrefix(trimmed, "///") {
					break
				}
				text := strings.TrimSpace(strings.TrimPrefix(trimmed, "///"))
				if text != "" {
					docLines = append(docLines, text)
				}
				i++
			}
			attachDoc(lines, &i, docLines, docs)

		case strings.HasPrefix(line, "/**"):
			var docLines []string
			if idx := strings.Index(line, "*/"); idx >= 0 {
				text := strings.TrimSpace(line[3:idx])
				docLines = append(docLines, text)
				i++
			} else {
				first := strings.TrimSpace(strings.TrimPrefix(line, "/**"))
				if first != "" && !strings.HasPrefix(first, "*") {
					docLines = append(docLines, first)
				}
				i++
				for i < len(lines) {
					trimmed := strings.TrimSpace(lines[i])
					if strings.HasSuffix(trimmed, "*/") {
						text := strings.TrimSpace(strings.TrimSuffix(trimmed, "*/"))
						text = strings.TrimSpace(strings.TrimPrefix(text, "*"))
						if text != "" {
							docLines = append(docLines, text)
						}
						i++
						break
					}
					text := strings.TrimSpace(strings.TrimPrefix(trimmed, "*"))
					if text != "" {
						docLines = append(docLines, text)
					}
					i++
				}
			}
			attachDoc(lines, &i, docLines, docs)
		}

		i++
	}
	return docs
}

// attachDoc skips blank lines and binds the collected doc text to the
// name on the next declaration line, if there is one.
func attachDoc(lines []string, i *int, docLines []string, docs map[string]string) {
	for *i < len(lines) && strings.TrimSpace(lines[*i]) == "" {
		*i++
	}
	if *i >= len(lines) {
		return
	}
	name, ok := declaredName(lines[*i])
	if !ok {
		return
	}
	docs[name] = strings.Join(docLines, "\n")
}

func declaredName(line string) (string, bool) {
	line = strings.TrimSpace(line)
	for _, prefix := range declPrefixes {
		rest, ok := strings.CutPrefix(line, prefix)
		if !ok {
			continue
		}
		var name strings.Builder
		for _, r := range rest {
			if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				break
			}
			name.WriteRune(r)
		}
		if name.Len() > 0 {
			return name.String(), true
		}
	}
	return "", false
}
