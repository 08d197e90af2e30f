// Package pipeline wires the recipe, smoothing, sheet, compositor and dmi
// packages into the single operation invoked once per resolved recipe: load
// a source sheet, build every junction's tiles across directions and
// animation frames, and encode the result as a DMI PNG.
package pipeline

import (
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"hypnagogic/internal/compositor"
	"hypnagogic/internal/dmi"
	"hypnagogic/internal/dmierr"
	"hypnagogic/internal/recipe"
	"hypnagogic/internal/sheet"
	"hypnagogic/internal/smoothing"
)

// Result is the output of a successful Run: the encoded DMI bytes and the
// filename the recipe resolved to ({file_prefix}{output_name}.dmi).
type Result struct {
	Bytes    []byte
	Filename string
}

// Run executes one recipe against its source sheet bytes, returning the
// encoded DMI bytes and output filename, or a typed error from internal/dmierr.
func Run(r recipe.Recipe, sourceBytes []byte, log zerolog.Logger) (Result, error) {
	bs, ok := r.Mode.(recipe.BitmaskSlice)
	if !ok {
		return Result{}, fmt.Errorf("%w: unsupported recipe mode", dmierr.ErrBadFieldValue)
	}

	log = log.With().Str("recipe", r.SourcePath()).Logger()
	log.Debug().Msg("decoding source sheet")

	sh, err := sheet.Decode(sourceBytes, bs.IconSize, bs.SourceScale)
	if err != nil {
		return Result{}, err
	}

	if sh.Frames() > 1 && len(bs.Delay) == 0 {
		return Result{}, fmt.Errorf("%w: delay must have at least one entry for a %d-frame source sheet", dmierr.ErrMissingRequiredKey, sh.Frames())
	}

	universe := smoothing.Universe(bs.IsDiagonal)
	log.Debug().Int("junctions", len(universe)).Int("frames", sh.Frames()).Msg("building icon states")

	states := make([]dmi.IconState, 0, len(universe))
	for _, j := range universe {
		state, err := buildState(sh, bs, j)
		if err != nil {
			return Result{}, fmt.Errorf("junction %d: %w", j, err)
		}
		states = append(states, state)
	}

	manifest := dmi.Manifest{
		IconWidth:  bs.OutputIconSize.W,
		IconHeight: bs.OutputIconSize.H,
		States:     states,
	}

	out, err := dmi.Encode(manifest)
	if err != nil {
		return Result{}, err
	}

	log.Info().Str("filename", r.OutputFilename()).Int("states", len(states)).Msg("encoded dmi")

	return Result{Bytes: out, Filename: r.OutputFilename()}, nil
}

// buildState composites one junction's tiles across every animation frame
// and direction, and names the resulting state per the engine's raw-bitmask
// naming convention. dirTiles is indexed [direction][frame], matching
// dmi.IconState.Tiles.
func buildState(sh *sheet.Sheet, bs recipe.BitmaskSlice, junction smoothing.Junction) (dmi.IconState, error) {
	dirCount := 1
	if bs.ProduceDirs {
		dirCount = len(smoothing.Directions)
	}

	dirTiles := make([][]*image.RGBA, dirCount)
	for i := range dirTiles {
		dirTiles[i] = make([]*image.RGBA, sh.Frames())
	}

	for frame := 0; frame < sh.Frames(); frame++ {
		dirs, err := compositor.BuildDirections(sh, bs, junction, frame)
		if err != nil {
			return dmi.IconState{}, err
		}
		for i, d := range dirs {
			dirTiles[i][frame] = d.Tile
		}
	}

	return dmi.IconState{
		Name:   stateName(junction),
		Tiles:  dirTiles,
		Delays: bs.Delay,
		Flags:  bs.Flags,
	}, nil
}

// stateName renders the junction as the engine's decimal raw-bitmask state name.
func stateName(j smoothing.Junction) string {
	return fmt.Sprintf("%d", j)
}
