package format

import (
	"strings"
	"testing"
)

func formatOK(t *testing.T, source string) string {
	t.Helper()
	out, err := Source("test.lf", source)
	if err != nil {
		t.Fatalf("Source(%q) error: %v", source, err)
	}
	return out
}

func TestFormatStatements(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "spacing around operators",
			source: "let x=1+2*3;",
			want:   "let x = 1 + 2 * 3;\n",
		},
		{
			name:   "semicolon breaks line",
			source: "let x=1;let y=2;",
			want:   "let x = 1;\nlet y = 2;\n",
		},
		{
			name:   "function body indentation",
			source: "fn main(){let a=1;}",
			want:   "fn main() {\n    let a = 1;\n}\n",
		},
		{
			name:   "empty body",
			source: "fn f(){}",
			want:   "fn f() {\n}\n",
		},
		{
			name:   "struct fields break per comma",
			source: "def Point{x:num,y:num}",
			want:   "def Point {\n    x: num,\n    y: num\n}\n",
		},
		{
			name:   "call arguments stay on one line",
			source: "f(1,2,3);",
			want:   "f(1, 2, 3);\n",
		},
		{
			name:   "no space around dot or before try",
			source: "let v=obj . field( ) ?;",
			want:   "let v = obj.field()?;\n",
		},
		{
			name:   "blank line collapses to one",
			source: "let a=1;\n\n\n\nlet b=2;",
			want:   "let a = 1;\n\nlet b = 2;\n",
		},
		{
			name:   "nested blocks",
			source: "fn f(){if(x){return 1;}}",
			want:   "fn f() {\n    if (x) {\n        return 1;\n    }\n}\n",
		},
		{
			name:   "digraphs kept whole",
			source: "let f=(a)=>a;x+=1;p::q;",
			want:   "let f = (a) => a;\nx += 1;\np :: q;\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatOK(t, tt.source)
			if got != tt.want {
				t.Errorf("got:\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestFormatPreservesComments(t *testing.T) {
	source := "// leading note\nlet x=42;\n// trailing note\nlet y=100;"
	got := formatOK(t, source)
	if !strings.Contains(got, "// leading note") {
		t.Errorf("leading comment lost:\n%s", got)
	}
	if !strings.Contains(got, "// trailing note") {
		t.Errorf("trailing comment lost:\n%s", got)
	}
}

func TestFormatAttributeStatement(t *testing.T) {
	got := formatOK(t, `#[deprecated("use add2")]fn add(a:num)->num{return a;}`)
	want := "#[deprecated(\"use add2\")] fn add(a: num) -> num {\n    return a;\n}\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestFormatDocComments(t *testing.T) {
	got := formatOK(t, "///   Adds one.\nfn inc(x:num)->num{return x+1;}")
	want := "/// Adds one.\nfn inc(x: num) -> num {\n    return x + 1;\n}\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestFormatBlockDocComment(t *testing.T) {
	got := formatOK(t, "/** Summary */fn f(){}")
	want := "/// Summary\nfn f() {\n}\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestFormatStringKeepsEscapes(t *testing.T) {
	got := formatOK(t, `let s="a\"b\n";`)
	want := `let s = "a\"b\n";` + "\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatTemplateOpaque(t *testing.T) {
	// Interpolation expressions are not reformatted.
	source := "let t=`sum ${ a+b } end`;"
	got := formatOK(t, source)
	want := "let t = `sum ${ a+b } end`;\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatSurvivesParseErrors(t *testing.T) {
	// Not valid syntax, but every token is lexable.
	got := formatOK(t, "let = ;fn{")
	if got == "" {
		t.Fatal("expected output for unparsable input")
	}
}

func TestFormatIdempotent(t *testing.T) {
	sources := []string{
		"fn main(){let a=1;if(a){f(a,2);}}",
		"def P{x:num,y:num}\n\nimpl P{fn len(self)->num{return self.x;}}",
		"// note\nlet t=`v=${x}`;",
	}
	for _, source := range sources {
		once := formatOK(t, source)
		twice := formatOK(t, once)
		if once != twice {
			t.Errorf("not idempotent for %q:\nonce:  %q\ntwice: %q", source, once, twice)
		}
	}
}

func TestFormatUnterminatedBlockComment(t *testing.T) {
	_, err := Source("test.lf", "/* never closed")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Message != "Unterminated block comment" {
		t.Errorf("message = %q", err.Message)
	}
}
