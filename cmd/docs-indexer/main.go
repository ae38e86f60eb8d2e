package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/cnnrbrn/feu-docs-indexer/internal/actions"
	"github.com/cnnrbrn/feu-docs-indexer/internal/config"
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("docs-indexer"),
		kong.Description("Index changed markdown files into the docs search index."),
		kong.UsageOnError(),
		kong.Vars{"config_path": config.DefaultPath()},
	)

	reporter := actions.FromEnv()
	if err := ctx.Run(&cli.Globals, reporter); err != nil {
		cli.logger.Error("docs-indexer failed", "command", ctx.Command(), "error", err)
		reporter.Fail(err)
		os.Exit(1)
	}
}
