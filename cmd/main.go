package main

import (
	"github.com/alecthomas/kong"
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("loft"),
		kong.Description("loft language toolchain"),
		kong.UsageOnError(),
		kong.Vars{"default_registry": defaultRegistryURL},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

type CLI struct {
	Parse    ParseCmd    `cmd:"" help:"Parse a file and report diagnostics."`
	Fmt      FmtCmd      `cmd:"" help:"Format source files." aliases:"format"`
	Doc      DocCmd      `cmd:"" help:"Generate HTML documentation for the current package."`
	Lsp      LspCmd      `cmd:"" help:"Run the LSP server."`
	Registry RegistryCmd `cmd:"" help:"Run the package registry server."`
	New      NewCmd      `cmd:"" help:"Create a new project."`
	Add      AddCmd      `cmd:"" help:"Add a dependency to the current project."`
	Update   UpdateCmd   `cmd:"" help:"Reinstall dependencies at their best matching versions."`
	Login    LoginCmd    `cmd:"" help:"Save a registry API token."`
	Publish  PublishCmd  `cmd:"" help:"Publish the current package to the registry."`
	Version  VersionCmd  `cmd:"" help:"Show version."`
}
