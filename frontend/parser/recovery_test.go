package parser

import (
	"testing"

	"github.com/loft-lang/loft/frontend/ast"
)

func TestRecoveryProgress(t *testing.T) {
	src := "let x = ;\nlet y = ;\nlet z = ;"
	stmts, errors := ParseRecoverable("test.loft", src)

	if len(errors) != 3 {
		t.Fatalf("got %d errors, want 3: %v", len(errors), errors)
	}
	if len(stmts) != 0 {
		t.Fatalf("got %d statements, want 0", len(stmts))
	}
	for i := 1; i < len(errors); i++ {
		if errors[i].Line <= errors[i-1].Line {
			t.Errorf("error %d line %d not after error %d line %d",
				i, errors[i].Line, i-1, errors[i-1].Line)
		}
	}
}

func TestRecoveryKeepsGoodStatements(t *testing.T) {
	src := "let a = 1;\nlet b = ;\nlet c = 3;"
	stmts, errors := ParseRecoverable("test.loft", src)

	if len(errors) != 1 {
		t.Fatalf("got %d errors: %v", len(errors), errors)
	}
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(stmts))
	}
	first := stmts[0].(*ast.VarDecl)
	second := stmts[1].(*ast.VarDecl)
	if first.Name != "a" || second.Name != "c" {
		t.Errorf("recovered %q and %q", first.Name, second.Name)
	}
}

func TestRecoverySkipsToStatementKeyword(t *testing.T) {
	// No semicolon after the garbage: synchronization must stop at the
	// next statement keyword without consuming it.
	src := "let a = @\nfn ok() -> num { return 1; }"
	stmts, errors := ParseRecoverable("test.loft", src)

	if len(errors) != 1 {
		t.Fatalf("got %d errors: %v", len(errors), errors)
	}
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	if fn, ok := stmts[0].(*ast.FunctionDecl); !ok || fn.Name != "ok" {
		t.Fatalf("recovered %#v", stmts[0])
	}
}

func TestRecoverableCleanSource(t *testing.T) {
	stmts, errors := ParseRecoverable("test.loft", "let a = 1; let b = 2;")
	if len(errors) != 0 {
		t.Fatalf("errors = %v", errors)
	}
	if len(stmts) != 2 {
		t.Fatalf("got %d statements", len(stmts))
	}
}

func TestParseStopsAtFirstError(t *testing.T) {
	stmts, err := Parse("test.loft", "let a = 1;\nlet b = ;")
	if err == nil {
		t.Fatal("expected an error")
	}
	if stmts != nil {
		t.Fatalf("statements = %#v, want nil on error", stmts)
	}
	if err.Line != 1 {
		t.Errorf("error line = %d, want 1", err.Line)
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"let x = ;", "Unexpected token in expression: ';'"},
		{"let x =", "Unexpected end of input in expression"},
		{"fn () {}", "Expected function name but got '('"},
		{"def Point { x }", "Expected ':' but got '}'"},
		{"trait T { fn f(self) -> num }", "Expected ';' or '{' after trait method signature"},
	}
	for _, tt := range tests {
		if msg := parseError(t, tt.src); msg != tt.want {
			t.Errorf("%q: got %q, want %q", tt.src, msg, tt.want)
		}
	}
}
