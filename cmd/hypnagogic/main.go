// Command hypnagogic batch-composites bitmask auto-tile recipes against
// their source sheets and emits DMI icon files.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
)

const description = `Renders bitmask auto-tiling recipes (YAML) against their source PNG sheets
into DMI-format icon files.

A recipe directory is walked for *.yaml files; each is paired with a
same-stem *.png in the source directory. Recipes may inherit from a
templates/ subdirectory of the recipe directory via a top-level "template"
key, deep-merged child-over-parent.`

var cli struct {
	Verbose bool `short:"v" help:"enable debug logging"`

	Render struct {
		RecipeDir string `arg:"" type:"existingdir" help:"directory of *.yaml recipes"`
		SourceDir string `arg:"" type:"existingdir" help:"directory of same-stem *.png sources"`
		OutDir    string `arg:"" type:"path" help:"directory to write *.dmi files into"`
		Workers   int    `default:"4" help:"number of recipes to render concurrently"`
	} `cmd:"" help:"render every recipe in recipe-dir against source-dir"`

	Validate struct {
		RecipeDir string `arg:"" type:"existingdir" help:"directory of *.yaml recipes"`
	} `cmd:"" help:"load and validate every recipe without rendering"`
}

func main() {
	ctx := kong.Parse(&cli, kong.Name("hypnagogic"), kong.Description(description))

	log := newLogger(cli.Verbose)

	var err error
	switch ctx.Command() {
	case "render <recipe-dir> <source-dir> <out-dir>":
		err = runRender(cli.Render.RecipeDir, cli.Render.SourceDir, cli.Render.OutDir, cli.Render.Workers, log)
	case "validate <recipe-dir>":
		err = runValidate(cli.Validate.RecipeDir, log)
	default:
		err = fmt.Errorf("unknown command %q", ctx.Command())
	}

	if err != nil {
		log.Error().Err(err).Msg("failed")
		os.Exit(1)
	}
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
