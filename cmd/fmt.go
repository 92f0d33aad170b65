package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/loft-lang/loft/format"
)

type FmtCmd struct {
	Path  string `arg:"" default:"." help:"File or directory to format."`
	Write bool   `short:"w" help:"Rewrite files in place instead of printing to stdout."`
	Check bool   `help:"Report files that need formatting without changing them."`
}

func (c *FmtCmd) Run() error {
	files, err := collectSourceFiles(c.Path)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("no .lf files found to format")
		return nil
	}

	needsFormat := 0
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		source := string(content)

		formatted, ferr := format.Source(path, source)
		if ferr != nil {
			return fmt.Errorf("failed to format %s: %s", path, ferr.Message)
		}

		if strings.TrimSpace(formatted) == strings.TrimSpace(source) {
			continue
		}
		needsFormat++

		switch {
		case c.Check:
			fmt.Println(path)
		case c.Write:
			if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
				return err
			}
			fmt.Println(path)
		default:
			fmt.Print(formatted)
		}
	}

	if c.Check && needsFormat > 0 {
		return fmt.Errorf("%d file(s) need formatting", needsFormat)
	}
	return nil
}

// collectSourceFiles resolves a path argument to the .lf files it
// covers. For directories the directory itself and its src/ child are
// scanned, without deeper recursion.
func collectSourceFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if filepath.Ext(path) != ".lf" {
			return nil, fmt.Errorf("'%s' is not a .lf file", path)
		}
		return []string{path}, nil
	}

	var files []string
	for _, dir := range []string{path, filepath.Join(path, "src")} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() && filepath.Ext(entry.Name()) == ".lf" {
				files = append(files, filepath.Join(dir, entry.Name()))
			}
		}
	}
	return files, nil
}
