package lsp

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	protocol "github.com/gluax-lang/lsp"

	"github.com/loft-lang/loft/common"
)

func TestDiagnosticsForCleanFile(t *testing.T) {
	diags := diagnosticsFor("file:///tmp/ok.lf", "let x = 1;")
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v", diags)
	}
}

func TestDiagnosticsForBrokenFile(t *testing.T) {
	source := "let = 1;\nlet ok = 2;\nfn ( {"
	diags := diagnosticsFor("file:///tmp/broken.lf", source)
	if len(diags) == 0 {
		t.Fatal("expected diagnostics")
	}
	for _, d := range diags {
		if d.Severity == nil || *d.Severity != protocol.DiagnosticSeverityError {
			t.Errorf("severity = %v", d.Severity)
		}
		if d.Message == "" {
			t.Error("empty message")
		}
	}
}

func TestWordAt(t *testing.T) {
	text := "fn add(a: num) -> num { }\nlet value = add(1);"
	tests := []struct {
		name string
		pos  protocol.Position
		want string
	}{
		{"start of word", protocol.Position{Line: 0, Character: 3}, "add"},
		{"middle of word", protocol.Position{Line: 0, Character: 4}, "add"},
		{"end of word", protocol.Position{Line: 0, Character: 6}, "add"},
		{"second line", protocol.Position{Line: 1, Character: 13}, "add"},
		{"keyword", protocol.Position{Line: 1, Character: 0}, "let"},
		{"whitespace", protocol.Position{Line: 0, Character: 2}, "fn"},
		{"past end of line", protocol.Position{Line: 0, Character: 99}, ""},
		{"past last line", protocol.Position{Line: 5, Character: 0}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wordAt(text, tt.pos); got != tt.want {
				t.Errorf("wordAt(%v) = %q, want %q", tt.pos, got, tt.want)
			}
		})
	}
}

func TestHoverContent(t *testing.T) {
	text := "/// Doubles a number.\nfn double(x: num) -> num { return x * 2; }\n"
	content := hoverContent(text, protocol.Position{Line: 1, Character: 4})
	if !strings.Contains(content, "fn double(x: num) -> num") {
		t.Errorf("content = %q", content)
	}
	if !strings.Contains(content, "Doubles a number.") {
		t.Errorf("content = %q", content)
	}
}

func TestHoverContentUnknownWord(t *testing.T) {
	text := "fn double(x: num) -> num { return x * 2; }\n"
	if content := hoverContent(text, protocol.Position{Line: 0, Character: 31}); content != "" {
		t.Errorf("content = %q", content)
	}
}

func TestCompletionItems(t *testing.T) {
	text := "fn run() { }\nconst LIMIT: num = 10;\n"
	items := completionItems(text)
	if len(items) != 2 {
		t.Fatalf("items = %v", items)
	}
	fn := items[0]
	if fn.Label != "run" || fn.InsertText == nil || *fn.InsertText != "run()" {
		t.Errorf("function item = %+v", fn)
	}
	if fn.Kind == nil || *fn.Kind != protocol.CompletionItemKindMethod {
		t.Errorf("function kind = %v", fn.Kind)
	}
	limit := items[1]
	if limit.Label != "LIMIT" || limit.Kind == nil || *limit.Kind != protocol.CompletionItemKindVariable {
		t.Errorf("const item = %+v", limit)
	}
	if limit.InsertText != nil {
		t.Errorf("const insert text = %q", *limit.InsertText)
	}
}

func TestWorkspaceDiagnostics(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"main.lf":       "let x = 1;",
		"src/broken.lf": "fn ( {",
		"src/notes.txt": "not a source file",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got := workspaceDiagnostics(root)
	if len(got) != 2 {
		t.Fatalf("diagnostics for %d files, want 2: %v", len(got), got)
	}

	cleanURI := common.FilePathToURI(filepath.Join(root, "main.lf"))
	if diags, ok := got[cleanURI]; !ok || len(diags) != 0 {
		t.Errorf("clean file: ok=%v diags=%v", ok, diags)
	}
	brokenURI := common.FilePathToURI(filepath.Join(root, "src", "broken.lf"))
	if diags := got[brokenURI]; len(diags) == 0 {
		t.Errorf("broken file reported no diagnostics")
	}
}

func TestFilePathToURIRoundTrip(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}
	uri := common.FilePathToURI("/home/dev/my project/src/main.lf")
	if uri != "file:///home/dev/my%20project/src/main.lf" {
		t.Errorf("uri = %q", uri)
	}
	path, err := uriToFilePath(uri)
	if err != nil {
		t.Fatalf("uriToFilePath: %v", err)
	}
	if path != "/home/dev/my project/src/main.lf" {
		t.Errorf("path = %q", path)
	}
}

func TestURIToFilePath(t *testing.T) {
	path, err := uriToFilePath("file:///home/dev/project/src/main.lf")
	if err != nil {
		t.Fatalf("uriToFilePath: %v", err)
	}
	if path != "/home/dev/project/src/main.lf" {
		t.Errorf("path = %q", path)
	}

	if _, err := uriToFilePath("https://example.com/x"); err == nil {
		t.Error("expected error for non-file scheme")
	}
}
