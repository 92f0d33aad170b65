package main

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/loft-lang/loft/frontend"
	"github.com/loft-lang/loft/registry"
)

type AddCmd struct {
	Name     string `arg:"" required:"" help:"Package to add as a dependency."`
	Path     string `help:"Use a local directory instead of the registry."`
	Version  string `help:"Exact version or constraint (^1.2, ~1.2.3)."`
	Registry string `env:"LOFT_REGISTRY" default:"${default_registry}" help:"Registry URL."`
}

func (a *AddCmd) Run() error {
	manifest, projectDir, err := frontend.FindManifest(".")
	if err != nil {
		return fmt.Errorf("%w (run 'loft new' to create a project)", err)
	}
	manifestPath := filepath.Join(projectDir, frontend.ManifestFile)
	if manifest.Dependencies == nil {
		manifest.Dependencies = make(map[string]string)
	}

	// A local path dependency skips the registry entirely.
	if a.Path != "" {
		manifest.Dependencies[a.Name] = a.Path
		if err := manifest.Save(manifestPath); err != nil {
			return err
		}
		fmt.Printf("Added dependency %s (path %s)\n", a.Name, a.Path)
		return nil
	}

	fmt.Printf("Fetching %s from registry...\n", a.Name)
	client := registry.NewClient(a.Registry, "")
	versions, err := client.Versions(a.Name)
	if err != nil {
		return err
	}
	version, err := pickVersion(versions, a.Version)
	if err != nil {
		return err
	}

	dest, err := installPackage(client, projectDir, a.Name, version)
	if err != nil {
		return err
	}

	constraint := a.Version
	if constraint == "" {
		constraint = "^" + version
	}
	manifest.Dependencies[a.Name] = constraint
	if err := manifest.Save(manifestPath); err != nil {
		return err
	}

	fmt.Printf("Installed %s@%s (%s)\n", a.Name, version, constraint)
	fmt.Printf("  Location %s\n", dest)
	return nil
}

// pickVersion selects the version to install from the registry's
// version list, oldest first. An exact version must exist; a ^ or ~
// constraint picks the highest match, falling back to the newest
// published version when nothing matches; no constraint picks the
// newest.
func pickVersion(versions []registry.PackageMetadata, constraint string) (string, error) {
	if len(versions) == 0 {
		return "", fmt.Errorf("package has no published versions")
	}
	latest := versions[len(versions)-1].Version

	if constraint == "" {
		return latest, nil
	}

	if !strings.HasPrefix(constraint, "^") && !strings.HasPrefix(constraint, "~") {
		for _, v := range versions {
			if v.Version == constraint {
				return constraint, nil
			}
		}
		return "", fmt.Errorf("version %q not found", constraint)
	}

	req, err := semver.NewConstraint(constraint)
	if err != nil {
		return "", fmt.Errorf("invalid version constraint %q: %v", constraint, err)
	}
	best := ""
	for _, v := range versions {
		ver, err := semver.NewVersion(v.Version)
		if err != nil {
			continue
		}
		if req.Check(ver) {
			best = v.Version
		}
	}
	if best == "" {
		return latest, nil
	}
	return best, nil
}

// installPackage downloads name@version and unpacks it into the libs
// directory, replacing any previous copy of that exact version.
func installPackage(client *registry.Client, projectDir, name, version string) (string, error) {
	data, err := client.Download(name, version)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(projectDir, frontend.LibsDir, name+"@"+version)
	if err := os.RemoveAll(dest); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", err
	}
	if err := extractTarball(data, dest); err != nil {
		return "", fmt.Errorf("failed to extract %s@%s: %w", name, version, err)
	}
	return dest, nil
}

// extractTarball unpacks a gzipped tar into dir, rejecting entries
// that would land outside it.
func extractTarball(data []byte, dir string) error {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return err
	}
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		name := filepath.FromSlash(hdr.Name)
		if filepath.IsAbs(name) || strings.Contains(name, "..") {
			return fmt.Errorf("entry %q escapes the package directory", hdr.Name)
		}
		dest := filepath.Join(dir, name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return err
			}
			content, err := io.ReadAll(tr)
			if err != nil {
				return err
			}
			if err := os.WriteFile(dest, content, 0o644); err != nil {
				return err
			}
		}
	}
}
