// Package dmi collects the icon-state directory in emission order and
// encodes it, together with the composited tile pixels, as a DMI-format PNG:
// a spritesheet image plus a zlib-compressed zTXt "Description" chunk
// carrying the textual manifest the engine parses on load.
package dmi

import "image"

// IconState is one named entry in the manifest: a junction's tiles across
// its directions and animation frames, in canonical emission order.
type IconState struct {
	Name string

	// Tiles is indexed [direction][frame]; len(Tiles) is the dir_count (1 or 4).
	Tiles [][]*image.RGBA

	Delays []float64
	Flags  map[string]bool
}

// DirCount returns 1 or 4, per the number of direction slices present.
func (s IconState) DirCount() int { return len(s.Tiles) }

// FrameCount returns the number of animation frames per direction.
func (s IconState) FrameCount() int {
	if len(s.Tiles) == 0 {
		return 0
	}
	return len(s.Tiles[0])
}

// Manifest is an ordered list of IconState plus the global header.
type Manifest struct {
	IconWidth  int
	IconHeight int
	States     []IconState
}
