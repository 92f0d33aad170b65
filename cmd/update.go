package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/loft-lang/loft/frontend"
	"github.com/loft-lang/loft/registry"
)

type UpdateCmd struct {
	Package  string `arg:"" optional:"" help:"Update only this dependency."`
	Registry string `env:"LOFT_REGISTRY" default:"${default_registry}" help:"Registry URL."`
}

func (u *UpdateCmd) Run() error {
	manifest, projectDir, err := frontend.FindManifest(".")
	if err != nil {
		return err
	}

	var names []string
	if u.Package != "" {
		if _, ok := manifest.Dependencies[u.Package]; !ok {
			return fmt.Errorf("%q is not a dependency of %s", u.Package, manifest.Name)
		}
		names = []string{u.Package}
	} else {
		for name := range manifest.Dependencies {
			names = append(names, name)
		}
		sort.Strings(names)
	}
	if len(names) == 0 {
		fmt.Println("no dependencies to update")
		return nil
	}

	client := registry.NewClient(u.Registry, "")
	for _, name := range names {
		constraint := manifest.Dependencies[name]
		// Path dependencies point at local directories and have no
		// registry versions.
		if strings.ContainsAny(constraint, `/\`) {
			fmt.Printf("Skipping %s (path dependency)\n", name)
			continue
		}

		versions, err := client.Versions(name)
		if err != nil {
			return err
		}
		version, err := pickVersion(versions, constraint)
		if err != nil {
			return err
		}
		if _, err := installPackage(client, projectDir, name, version); err != nil {
			return err
		}
		fmt.Printf("Updated %s to %s (%s)\n", name, version, constraint)
	}
	return nil
}
