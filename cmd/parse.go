package main

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/loft-lang/loft/frontend/ast"
	"github.com/loft-lang/loft/frontend/parser"
)

type ParseCmd struct {
	File string `arg:"" required:"" help:"File to parse."`
	AST  bool   `help:"Print the syntax tree instead of diagnostics."`
}

func (c *ParseCmd) Run() error {
	content, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	source := string(content)

	if c.AST {
		stmts, perr := parser.Parse(c.File, source)
		if perr != nil {
			fmt.Fprintln(os.Stderr, perr.Render(source))
			return fmt.Errorf("parsing failed")
		}
		dumpStmts(os.Stdout, stmts)
		return nil
	}

	stmts, errs := parser.ParseRecoverable(c.File, source)
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e.Render(source))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d error(s)", len(errs))
	}
	fmt.Printf("%s: %d statement(s), no errors\n", c.File, len(stmts))
	return nil
}

func dumpStmts(w io.Writer, stmts []ast.Stmt) {
	for _, stmt := range stmts {
		dumpValue(w, reflect.ValueOf(stmt), 0)
		fmt.Fprintln(w)
	}
}

// dumpValue prints a node tree with one field per line. Nodes with a
// String method render as that string.
func dumpValue(w io.Writer, v reflect.Value, indent int) {
	switch v.Kind() {
	case reflect.Invalid:
		fmt.Fprint(w, "nil")

	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			fmt.Fprint(w, "nil")
			return
		}
		if s, ok := v.Interface().(fmt.Stringer); ok {
			fmt.Fprint(w, s.String())
			return
		}
		dumpValue(w, v.Elem(), indent)

	case reflect.Struct:
		if s, ok := v.Interface().(fmt.Stringer); ok {
			fmt.Fprint(w, s.String())
			return
		}
		fmt.Fprintf(w, "%s {", v.Type().Name())
		pad := strings.Repeat("  ", indent+1)
		for i := 0; i < v.NumField(); i++ {
			fmt.Fprintf(w, "\n%s%s: ", pad, v.Type().Field(i).Name)
			dumpValue(w, v.Field(i), indent+1)
		}
		fmt.Fprintf(w, "\n%s}", strings.Repeat("  ", indent))

	case reflect.Slice:
		if v.Len() == 0 {
			fmt.Fprint(w, "[]")
			return
		}
		fmt.Fprint(w, "[")
		pad := strings.Repeat("  ", indent+1)
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintf(w, "\n%s", pad)
			dumpValue(w, v.Index(i), indent+1)
		}
		fmt.Fprintf(w, "\n%s]", strings.Repeat("  ", indent))

	case reflect.String:
		fmt.Fprintf(w, "%q", v.String())

	default:
		fmt.Fprintf(w, "%v", v.Interface())
	}
}
