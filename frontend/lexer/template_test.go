package lexer

import "testing"

func TestTemplateTokenRun(t *testing.T) {
	tokens := lexAll(t, "`a${x}b`")
	want := []string{
		"template start",
		`template text "a"`,
		"'${'",
		"'x'",
		"'}'",
		`template text "b"`,
		"template end",
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(tokens), tokens, len(want))
	}
	for i, tok := range tokens {
		if tok.String() != want[i] {
			t.Errorf("token %d: got %s, want %s", i, tok, want[i])
		}
	}
}

func TestTemplateInterpolationIsFullyTokenized(t *testing.T) {
	tokens := lexAll(t, "`${1 + 2}`")
	// TemplateStart, ExprStart, 1, +, 2, ExprEnd, TemplateEnd
	if len(tokens) != 7 {
		t.Fatalf("got %d tokens %v", len(tokens), tokens)
	}
	if _, ok := tokens[2].(TokNumber); !ok {
		t.Errorf("token 2: got %s, want a number", tokens[2])
	}
	if !tokens[3].Is("+") {
		t.Errorf("token 3: got %s, want '+'", tokens[3])
	}
}

func TestTemplateNestedBraces(t *testing.T) {
	// The interpolation balance-counts braces, so a block expression
	// survives intact.
	tokens := lexAll(t, "`${ { x } }`")
	var seen []string
	for _, tok := range tokens {
		seen = append(seen, tok.String())
	}
	want := []string{"template start", "'${'", "'{'", "'x'", "'}'", "'}'", "template end"}
	if len(seen) != len(want) {
		t.Fatalf("got %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, seen[i], want[i])
		}
	}
}

func TestTemplateEscapes(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"`a\\nb`", "a\nb"},
		{"`a\\tb`", "a\tb"},
		{"`a\\`b`", "a`b"},
		{"`a\\$b`", "a$b"},
		{"`a\\\\b`", "a\\b"},
		// Unknown escapes keep their backslash.
		{"`a\\qb`", "a\\qb"},
	}
	for _, tt := range tests {
		tokens := lexAll(t, tt.src)
		if len(tokens) != 3 {
			t.Fatalf("%q: got %v", tt.src, tokens)
		}
		text, ok := tokens[1].(TokTemplateString)
		if !ok || text.Text != tt.want {
			t.Errorf("%q: got %v, want %q", tt.src, tokens[1], tt.want)
		}
	}
}

func TestTemplateDollarWithoutBrace(t *testing.T) {
	tokens := lexAll(t, "`cost: $5`")
	text, ok := tokens[1].(TokTemplateString)
	if !ok || text.Text != "cost: $5" {
		t.Fatalf("got %v", tokens)
	}
}

func TestUnterminatedTemplate(t *testing.T) {
	if msg := lexError(t, "`abc"); msg != "Unterminated template literal" {
		t.Fatalf("got %q", msg)
	}
	if msg := lexError(t, "`${x"); msg != "Unterminated template expression" {
		t.Fatalf("got %q", msg)
	}
}

func TestCursorPushBack(t *testing.T) {
	cur := NewCursor(NewTokenizer("test.loft", "a b c"))

	first, err := cur.Next()
	if err != nil {
		t.Fatal(err)
	}
	second, err := cur.Next()
	if err != nil {
		t.Fatal(err)
	}

	// Replay in original order: push back in reverse.
	cur.PushBack(second)
	cur.PushBack(first)

	for _, want := range []string{"'a'", "'b'", "'c'"} {
		tok, err := cur.Next()
		if err != nil {
			t.Fatal(err)
		}
		if tok.String() != want {
			t.Errorf("got %s, want %s", tok, want)
		}
	}

	tok, err := cur.Next()
	if err != nil || !IsEOF(tok) {
		t.Fatalf("got %v, want EOF", tok)
	}
}

func TestCursorPeekN(t *testing.T) {
	cur := NewCursor(NewTokenizer("test.loft", "a b"))
	tok, err := cur.PeekN(1)
	if err != nil {
		t.Fatal(err)
	}
	if tok.String() != "'b'" {
		t.Fatalf("PeekN(1) = %s", tok)
	}
	// Peeking does not consume.
	tok, _ = cur.Next()
	if tok.String() != "'a'" {
		t.Fatalf("Next = %s after PeekN", tok)
	}
}
