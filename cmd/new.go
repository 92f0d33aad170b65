package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/loft-lang/loft/frontend"
)

type NewCmd struct {
	Name string `arg:"" required:"" help:"Name of the new project."`
}

const mainTemplate = `// Welcome to your new loft project!

term.println("Hello, world!");
`

func (n *NewCmd) Run() error {
	projectDir := n.Name
	if err := os.MkdirAll(filepath.Join(projectDir, "src"), 0o755); err != nil {
		return err
	}

	manifestPath := filepath.Join(projectDir, frontend.ManifestFile)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("%s already exists in %s", frontend.ManifestFile, projectDir)
	}

	manifest := frontend.Manifest{
		Name:         n.Name,
		Version:      "0.1.0",
		Entrypoint:   "src/main.lf",
		Dependencies: map[string]string{},
	}
	if err := manifest.Save(manifestPath); err != nil {
		return err
	}

	gitignore := "docs/\n" + frontend.LibsDir + "/\n"
	if err := os.WriteFile(filepath.Join(projectDir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(projectDir, "src", "main.lf"), []byte(mainTemplate), 0o644); err != nil {
		return err
	}

	fmt.Printf("Created project %s\n", n.Name)
	return nil
}
