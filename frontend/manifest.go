// Package frontend ties the language core to project-level concerns:
// the manifest that names a package and its dependencies, and import
// resolution against installed packages.
package frontend

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
)

// ManifestFile is the canonical manifest name. LoadManifest also
// accepts loft.toml for projects that prefer TOML.
const ManifestFile = "manifest.json"

const ManifestTOMLFile = "loft.toml"

// LibsDir holds installed dependencies, one directory per
// name@version.
const LibsDir = ".lflibs"

type Manifest struct {
	Name         string            `json:"name" toml:"name" validate:"required"`
	Version      string            `json:"version" toml:"version" validate:"required,loftsemver"`
	Entrypoint   string            `json:"entrypoint" toml:"entrypoint" validate:"required"`
	Dependencies map[string]string `json:"dependencies" toml:"dependencies"`
}

var manifestValidate = func() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("loftsemver", func(fl validator.FieldLevel) bool {
		_, err := semver.NewVersion(fl.Field().String())
		return err == nil
	})
	return v
}()

// LoadManifest reads and validates a manifest file. The format is
// chosen by extension: .toml decodes as TOML, anything else as JSON.
func LoadManifest(path string) (Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if strings.HasSuffix(path, ".toml") {
		if _, err := toml.Decode(string(content), &m); err != nil {
			return Manifest{}, fmt.Errorf("parse %s: %w", path, err)
		}
	} else {
		if err := json.Unmarshal(content, &m); err != nil {
			return Manifest{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := manifestValidate.Struct(m); err != nil {
		return Manifest{}, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return m, nil
}

// Save writes the manifest as indented JSON.
func (m Manifest) Save(path string) error {
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(raw, '\n'), 0o644)
}

// FindManifest walks from startDir toward the filesystem root looking
// for a manifest and returns it with the directory it was found in.
func FindManifest(startDir string) (Manifest, string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return Manifest{}, "", err
	}

	for {
		for _, name := range []string{ManifestFile, ManifestTOMLFile} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				m, err := LoadManifest(path)
				return m, dir, err
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Manifest{}, "", fmt.Errorf("no %s found from %s upward", ManifestFile, startDir)
		}
		dir = parent
	}
}

// ResolveImport maps a parsed import path to a source file. The first
// segment selects the package: the project itself resolves to its
// entrypoint, installed packages resolve through the libs directory,
// and declared dependencies resolve to their configured path.
func (m Manifest) ResolveImport(projectDir string, importPath []string) (string, error) {
	if len(importPath) == 0 {
		return "", fmt.Errorf("empty import path")
	}

	pkg := importPath[0]
	if pkg == m.Name {
		return filepath.Join(projectDir, m.Entrypoint), nil
	}

	if path, err := resolveInstalled(filepath.Join(projectDir, LibsDir), pkg); err == nil {
		return path, nil
	}

	if depPath, ok := m.Dependencies[pkg]; ok {
		return depPath, nil
	}

	return "", fmt.Errorf("unresolved import: %s", strings.Join(importPath, "::"))
}

// resolveInstalled picks the installed copy of pkg. When several
// versions are installed side by side, the highest one wins.
func resolveInstalled(libsDir, pkg string) (string, error) {
	entries, err := os.ReadDir(libsDir)
	if err != nil {
		return "", err
	}

	var bestDir string
	var bestVersion *semver.Version

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == pkg {
			if bestDir == "" {
				bestDir = name
			}
			continue
		}
		rest, ok := strings.CutPrefix(name, pkg+"@")
		if !ok {
			continue
		}
		version, err := semver.NewVersion(rest)
		if err != nil {
			continue
		}
		if bestVersion == nil || version.GreaterThan(bestVersion) {
			bestVersion = version
			bestDir = name
		}
	}

	if bestDir == "" {
		return "", fmt.Errorf("package %s not installed", pkg)
	}

	pkgDir := filepath.Join(libsDir, bestDir)
	depManifest, err := LoadManifest(filepath.Join(pkgDir, ManifestFile))
	if err != nil {
		return "", err
	}
	return filepath.Join(pkgDir, depManifest.Entrypoint), nil
}
