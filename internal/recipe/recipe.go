// Package recipe models the composable, template-inheriting configuration
// that describes how an input sprite sheet is sliced and indexed, and the
// deep-merge logic used to resolve a recipe against its parent templates.
package recipe

import "hypnagogic/internal/smoothing"

// Dims is a (width, height) pair in pixels or block units.
type Dims struct {
	W, H int
}

// Point is an (x, y) pair in pixels.
type Point struct {
	X, Y int
}

// Mode is the tagged-variant cutter mode. BitmaskSlice is the only variant
// this package implements; the tag exists so future cutter modes can coexist
// without breaking the schema.
type Mode interface {
	isMode()
}

// BitmaskSlice is the bitmask auto-tiling cutter mode.
type BitmaskSlice struct {
	IconSize       Dims
	OutputIconPos  Point
	OutputIconSize Dims
	Positions      map[smoothing.CornerKind]int
	CutPosition    Point
	ProduceDirs    bool
	IsDiagonal     bool
	Prefabs        map[uint8]int
	Delay          []float64

	// SourceScale pre-resizes the source sheet (via nfnt/resize) before any
	// block/frame geometry is computed. 0 and 1 both mean "no-op".
	SourceScale float64

	// Flags are passed through verbatim onto every emitted IconState as
	// extra "key = value" manifest lines. Empty by default, so the common
	// case produces byte-identical output to the base DMI format.
	Flags map[string]bool
}

func (BitmaskSlice) isMode() {}

// Recipe is a fully-resolved recipe value, after template merge and validation.
type Recipe struct {
	FilePrefix string
	OutputName string
	Mode       Mode

	// Group is a CLI/collaborator-only progress-grouping tag; the core
	// compositor never reads it.
	Group string

	// sourcePath is the recipe's own file path, used to derive OutputName
	// when absent and for diagnostics. Not part of the merge schema.
	sourcePath string
}

// SourcePath returns the path the recipe was loaded from.
func (r Recipe) SourcePath() string { return r.sourcePath }

// AnimationFrames returns the number of animation frames implied by a
// source sheet of the given height and true, or false if it doesn't evenly
// divide icon_size.h.
func (b BitmaskSlice) AnimationFrames(sourceHeight int) (int, bool) {
	if b.IconSize.H <= 0 {
		return 0, false
	}
	if sourceHeight%b.IconSize.H != 0 {
		return 0, false
	}
	frames := sourceHeight / b.IconSize.H
	if frames < 1 {
		return 0, false
	}
	return frames, true
}

// DelayAt returns the delay for frame index f per I3: delays[f mod len(delays)].
func (b BitmaskSlice) DelayAt(f int) float64 {
	if len(b.Delay) == 0 {
		return 1
	}
	return b.Delay[f%len(b.Delay)]
}

// OutputFilename returns {file_prefix}{output_name}.dmi.
func (r Recipe) OutputFilename() string {
	return r.FilePrefix + r.OutputName + ".dmi"
}
