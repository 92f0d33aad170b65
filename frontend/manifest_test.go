package frontend

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifestJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	writeFile(t, path, `{
		"name": "myproject",
		"version": "1.0.0",
		"entrypoint": "src/main.lf"
	}`)

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "myproject" || m.Version != "1.0.0" || m.Entrypoint != "src/main.lf" {
		t.Fatalf("got %#v", m)
	}
}

func TestManifestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	m := Manifest{
		Name:         "myproject",
		Version:      "1.2.3",
		Entrypoint:   "src/main.lf",
		Dependencies: map[string]string{"helper": "^0.3.0"},
	}
	if err := m.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Name != m.Name || loaded.Version != m.Version {
		t.Fatalf("got %#v", loaded)
	}
	if loaded.Dependencies["helper"] != "^0.3.0" {
		t.Errorf("dependencies = %v", loaded.Dependencies)
	}
}

func TestLoadManifestTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loft.toml")
	writeFile(t, path, "name = \"tomlproj\"\nversion = \"0.2.1\"\nentrypoint = \"main.lf\"\n")

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "tomlproj" {
		t.Fatalf("got %#v", m)
	}
}

func TestLoadManifestRejectsBadVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	writeFile(t, path, `{"name": "x", "version": "not-a-version", "entrypoint": "main.lf"}`)

	if _, err := LoadManifest(path); err == nil {
		t.Fatal("expected a validation error")
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "manifest.json"),
		`{"name": "walker", "version": "1.0.0", "entrypoint": "main.lf"}`)
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	m, dir, err := FindManifest(nested)
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "walker" || dir != root {
		t.Fatalf("got %q in %q", m.Name, dir)
	}
}

func TestResolveImportSelf(t *testing.T) {
	m := Manifest{Name: "proj", Version: "1.0.0", Entrypoint: "src/main.lf"}
	path, err := m.ResolveImport("/tmp/proj", []string{"proj", "utils"})
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join("/tmp/proj", "src/main.lf") {
		t.Fatalf("got %q", path)
	}
}

func TestResolveImportPicksHighestInstalledVersion(t *testing.T) {
	dir := t.TempDir()
	for _, version := range []string{"1.0.0", "1.2.0", "0.9.0"} {
		writeFile(t,
			filepath.Join(dir, LibsDir, "mathlib@"+version, "manifest.json"),
			`{"name": "mathlib", "version": "`+version+`", "entrypoint": "lib.lf"}`)
	}

	m := Manifest{Name: "proj", Version: "1.0.0", Entrypoint: "main.lf"}
	path, err := m.ResolveImport(dir, []string{"mathlib", "trig"})
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, LibsDir, "mathlib@1.2.0", "lib.lf")
	if path != want {
		t.Fatalf("got %q, want %q", path, want)
	}
}

func TestResolveImportFallsBackToDependencies(t *testing.T) {
	m := Manifest{
		Name:         "proj",
		Version:      "1.0.0",
		Entrypoint:   "main.lf",
		Dependencies: map[string]string{"helper": "../helper/main.lf"},
	}
	path, err := m.ResolveImport(t.TempDir(), []string{"helper"})
	if err != nil {
		t.Fatal(err)
	}
	if path != "../helper/main.lf" {
		t.Fatalf("got %q", path)
	}
}

func TestResolveImportUnknownPackage(t *testing.T) {
	m := Manifest{Name: "proj", Version: "1.0.0", Entrypoint: "main.lf"}
	if _, err := m.ResolveImport(t.TempDir(), []string{"ghost", "mod"}); err == nil {
		t.Fatal("expected an error")
	}
}
