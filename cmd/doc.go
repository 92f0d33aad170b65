package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/loft-lang/loft/docgen"
	"github.com/loft-lang/loft/frontend"
)

type DocCmd struct {
	Path   string `short:"p" default:"." help:"Path to the project directory."`
	Output string `short:"o" default:"docs" help:"Output directory for generated documentation."`
}

func (c *DocCmd) Run() error {
	absPath, err := filepath.Abs(c.Path)
	if err != nil {
		return err
	}

	manifest, projectDir, err := frontend.FindManifest(absPath)
	if err != nil {
		return fmt.Errorf("%w (run from a loft project directory)", err)
	}
	fmt.Printf("Package: %s %s\n", manifest.Name, manifest.Version)

	gen := docgen.NewGenerator()

	entrypoint := filepath.Join(projectDir, manifest.Entrypoint)
	fmt.Printf("Parsing: %s\n", entrypoint)
	if err := gen.ParseFile(entrypoint); err != nil {
		return err
	}

	srcDir := filepath.Join(projectDir, "src")
	if entries, err := os.ReadDir(srcDir); err == nil {
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".lf" {
				continue
			}
			path := filepath.Join(srcDir, entry.Name())
			if path == entrypoint {
				continue
			}
			fmt.Printf("Parsing: %s\n", path)
			if err := gen.ParseFile(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}
		}
	}

	if err := gen.GenerateHTML(c.Output, manifest.Name); err != nil {
		return err
	}
	fmt.Printf("Documentation written to %s\n", c.Output)
	return nil
}
