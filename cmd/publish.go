package main

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/loft-lang/loft/frontend"
	"github.com/loft-lang/loft/registry"
)

const defaultRegistryURL = "https://api.loft.fargone.sh"

type PublishCmd struct {
	Registry string `env:"LOFT_REGISTRY" default:"${default_registry}" help:"Registry URL."`
}

func (p *PublishCmd) Run() error {
	manifest, projectDir, err := frontend.FindManifest(".")
	if err != nil {
		return err
	}
	token, err := savedToken()
	if err != nil {
		return err
	}

	fmt.Printf("Publishing %s@%s...\n", manifest.Name, manifest.Version)

	tarball, err := buildTarball(projectDir)
	if err != nil {
		return fmt.Errorf("failed to pack project: %w", err)
	}

	rawManifest, err := json.Marshal(manifest)
	if err != nil {
		return err
	}
	meta := registry.PackageMetadata{
		Name:     manifest.Name,
		Version:  manifest.Version,
		Manifest: rawManifest,
	}

	client := registry.NewClient(p.Registry, token)
	if err := client.Publish(meta, tarball); err != nil {
		return err
	}
	fmt.Printf("Published %s@%s\n", manifest.Name, manifest.Version)
	return nil
}

// buildTarball packs the project directory as gzipped tar, skipping
// installed dependencies, generated docs and version control state.
func buildTarball(dir string) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	skip := map[string]bool{frontend.LibsDir: true, ".git": true, "docs": true}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		top := strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]
		if skip[top] {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		_, err = tw.Write(content)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
