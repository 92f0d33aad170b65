package main

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/loft-lang/loft/registry"
)

func metaList(versions ...string) []registry.PackageMetadata {
	var list []registry.PackageMetadata
	for _, v := range versions {
		list = append(list, registry.PackageMetadata{Name: "web", Version: v})
	}
	return list
}

func TestPickVersion(t *testing.T) {
	published := metaList("1.0.0", "1.2.0", "1.2.5", "2.0.0")
	tests := []struct {
		name       string
		constraint string
		want       string
		wantErr    bool
	}{
		{"no constraint picks newest", "", "2.0.0", false},
		{"exact version", "1.2.0", "1.2.0", false},
		{"exact version missing", "1.5.0", "", true},
		{"caret picks highest match", "^1.0.0", "1.2.5", false},
		{"tilde picks highest patch", "~1.2.0", "1.2.5", false},
		{"unmatched constraint falls back to newest", "^9.0.0", "2.0.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pickVersion(published, tt.constraint)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("got %q, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := pickVersion(nil, ""); err == nil {
		t.Error("empty version list should error")
	}
}

func TestTarballRoundTrip(t *testing.T) {
	project := t.TempDir()
	files := map[string]string{
		"manifest.json":          `{"name":"web"}`,
		"src/main.lf":            "term.println(1);",
		".lflibs/dep@1.0.0/x.lf": "skipped",
		"docs/index.html":        "skipped",
	}
	for name, content := range files {
		path := filepath.Join(project, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	data, err := buildTarball(project)
	if err != nil {
		t.Fatalf("buildTarball: %v", err)
	}

	dest := t.TempDir()
	if err := extractTarball(data, dest); err != nil {
		t.Fatalf("extractTarball: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dest, "src", "main.lf"))
	if err != nil {
		t.Fatalf("extracted file: %v", err)
	}
	if string(got) != "term.println(1);" {
		t.Errorf("content = %q", got)
	}
	if _, err := os.Stat(filepath.Join(dest, ".lflibs")); !os.IsNotExist(err) {
		t.Error("installed dependencies were packed")
	}
	if _, err := os.Stat(filepath.Join(dest, "docs")); !os.IsNotExist(err) {
		t.Error("generated docs were packed")
	}
}

func TestExtractTarballRejectsEscape(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	content := []byte("owned")
	if err := tw.WriteHeader(&tar.Header{
		Name: "../escape.lf", Mode: 0o644, Size: int64(len(content)), Typeflag: tar.TypeReg,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}

	parent := t.TempDir()
	dir := filepath.Join(parent, "pkg")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := extractTarball(buf.Bytes(), dir); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(filepath.Join(parent, "escape.lf")); !os.IsNotExist(err) {
		t.Error("entry escaped the package directory")
	}
}
