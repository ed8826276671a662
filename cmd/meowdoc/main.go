package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/meowdoc/cmd/meowdoc/commands"
	"git.home.luguber.info/inful/meowdoc/internal/version"
)

func main() {
	var cli commands.CLI

	ctx := kong.Parse(&cli,
		kong.Name("meowdoc"),
		kong.Description("Generate Markdown documentation for a source tree with an LLM and wire it into a mkdocs site."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	if err := ctx.Run(&commands.Global{Logger: slog.Default()}); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
