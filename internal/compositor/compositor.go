// Package compositor builds finished tiles from a sheet's cut quadrants (or
// a prefab whole block), and expands each state across the four
// engine-recognized rotated facings.
package compositor

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"hypnagogic/internal/dmierr"
	"hypnagogic/internal/recipe"
	"hypnagogic/internal/sheet"
	"hypnagogic/internal/smoothing"
)

// cornerOrder fixes the iteration order used to select and paste quadrants;
// the order itself has no wire-format significance.
var cornerOrder = [4]smoothing.Corner{smoothing.NW, smoothing.NE, smoothing.SW, smoothing.SE}

// BuildTile composes the finished tile for one junction at one frame,
// honoring prefab precedence (I2). The returned image is OutputIconSize,
// replace-composited (not alpha-blended) with the padding region left fully
// transparent.
func BuildTile(sh *sheet.Sheet, bs recipe.BitmaskSlice, junction smoothing.Junction, frame int) (*image.RGBA, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, bs.OutputIconSize.W, bs.OutputIconSize.H))

	if blockIdx, isPrefab := bs.Prefabs[uint8(junction)]; isPrefab {
		block, err := sh.WholeBlock(blockIdx, frame)
		if err != nil {
			return nil, err
		}
		pasteAt(canvas, block, bs.OutputIconPos)
		return canvas, nil
	}

	for _, c := range cornerOrder {
		kind := smoothing.Kind(junction, c, bs.IsDiagonal)
		blockIdx, ok := bs.Positions[kind]
		if !ok {
			return nil, fmt.Errorf("%w: no positions entry for corner kind %s", dmierr.ErrBadFieldValue, kind)
		}

		quads, err := sh.Quadrant(blockIdx, frame, bs.CutPosition)
		if err != nil {
			return nil, err
		}

		quad, offset := quadrantFor(c, quads, bs.CutPosition)
		pasteAt(canvas, quad, addPoints(bs.OutputIconPos, offset))
	}

	return canvas, nil
}

// quadrantFor returns the quadrant image and its offset within the
// icon_size tile for corner c.
func quadrantFor(c smoothing.Corner, q sheet.Quadrants, cut recipe.Point) (*image.RGBA, recipe.Point) {
	switch c {
	case smoothing.NW:
		return q.NW, recipe.Point{}
	case smoothing.NE:
		return q.NE, recipe.Point{X: cut.X}
	case smoothing.SW:
		return q.SW, recipe.Point{Y: cut.Y}
	case smoothing.SE:
		return q.SE, recipe.Point{X: cut.X, Y: cut.Y}
	}
	return nil, recipe.Point{}
}

func addPoints(a, b recipe.Point) recipe.Point {
	return recipe.Point{X: a.X + b.X, Y: a.Y + b.Y}
}

// pasteAt copies src onto dst at the given offset, replacing (not blending)
// destination pixels, including alpha.
func pasteAt(dst *image.RGBA, src *image.RGBA, at recipe.Point) {
	b := src.Bounds()
	dstRect := image.Rect(at.X, at.Y, at.X+b.Dx(), at.Y+b.Dy())
	draw.Draw(dst, dstRect, src, b.Min, draw.Src)
}

// Direction is one facing's tile for one junction at one frame.
type Direction struct {
	Facing smoothing.Direction
	Tile   *image.RGBA
}

// BuildDirections produces the dir_count rotated variants of a junction's
// tile at one frame, in canonical emission order (South, North, East, West).
// If bs.ProduceDirs is false, a single entry is returned.
func BuildDirections(sh *sheet.Sheet, bs recipe.BitmaskSlice, junction smoothing.Junction, frame int) ([]Direction, error) {
	if !bs.ProduceDirs {
		tile, err := BuildTile(sh, bs, junction, frame)
		if err != nil {
			return nil, err
		}
		return []Direction{{Facing: smoothing.DirSouth, Tile: tile}}, nil
	}

	out := make([]Direction, 0, len(smoothing.Directions))
	for _, d := range smoothing.Directions {
		rotated := smoothing.RotateForDirection(junction, d)
		tile, err := BuildTile(sh, bs, rotated, frame)
		if err != nil {
			return nil, err
		}
		out = append(out, Direction{Facing: d, Tile: tile})
	}
	return out, nil
}
