package main

import (
	"github.com/alecthomas/kong"
	"github.com/lox/deepfield/internal/config"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Explore  ExploreCmd       `cmd:"" help:"Fly through the universe in the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Run a headless flight and report statistics"`
	Survey   SurveyCmd        `cmd:"" help:"Generate a grid of chunks in parallel and summarise it"`
	Inspect  InspectCmd       `cmd:"" help:"Print the contents of one chunk"`
	Ledger   LedgerCmd        `cmd:"" help:"List discoveries in a save file"`
}

func main() {
	// A missing .env is fine; a malformed one is reported by kong below.
	envErr := config.LoadEnv()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("deepfield"),
		kong.Description("Deterministic procedural universe explorer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	ctx.FatalIfErrorf(envErr)

	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
