// Package sheet decodes a source PNG spritesheet into an indexable grid of
// equally-sized blocks stacked by animation frame, and cuts each referenced
// block into its four corner-cutter quadrants.
package sheet

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"

	"hypnagogic/internal/dmierr"
	"hypnagogic/internal/hgio"
	"hypnagogic/internal/recipe"
)

// quadKey identifies a memoized cut by block index and frame.
type quadKey struct {
	block, frame int
}

// Quadrants is the four sub-images of one corner block at one frame.
type Quadrants struct {
	NW, NE, SW, SE *image.RGBA
}

// Sheet is a decoded source image, exposed as a grid of icon_size blocks
// along the horizontal axis with animation frames stacked vertically.
type Sheet struct {
	img      *image.RGBA
	iconSize recipe.Dims
	frames   int
	blocks   int
	cache    map[quadKey]Quadrants
}

// Decode opens a source PNG and interprets it as a block/frame grid sized
// to iconSize. If scale is non-zero and not 1, the image is resized first
// (via nfnt/resize, Lanczos3) so all subsequent block math operates in the
// already-scaled coordinate space.
func Decode(data []byte, iconSize recipe.Dims, scale float64) (*Sheet, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dmierr.ErrImageDecode, err)
	}

	if scale != 0 && scale != 1 {
		w := uint(float64(src.Bounds().Dx()) * scale)
		h := uint(float64(src.Bounds().Dy()) * scale)
		src = resize.Resize(w, h, src, resize.Lanczos3)
	}

	rgba := hgio.PromoteToRGBA(src)

	if iconSize.H <= 0 || iconSize.W <= 0 {
		return nil, fmt.Errorf("%w: icon_size must be positive", dmierr.ErrBadFieldValue)
	}

	height := rgba.Bounds().Dy()
	if height%iconSize.H != 0 {
		return nil, fmt.Errorf("%w: source height %d not a multiple of icon height %d", dmierr.ErrNonDivisibleSheet, height, iconSize.H)
	}
	frames := height / iconSize.H
	if frames < 1 {
		return nil, fmt.Errorf("%w: source sheet has no frames", dmierr.ErrNonDivisibleSheet)
	}

	blocks := rgba.Bounds().Dx() / iconSize.W

	return &Sheet{
		img:      rgba,
		iconSize: iconSize,
		frames:   frames,
		blocks:   blocks,
		cache:    make(map[quadKey]Quadrants),
	}, nil
}

// Frames returns the number of animation frames in the sheet.
func (s *Sheet) Frames() int { return s.frames }

// Blocks returns the number of blocks along the sheet's horizontal axis.
func (s *Sheet) Blocks() int { return s.blocks }

// ValidateBlockIndex fails with BlockIndexOutOfBounds if idx has no
// corresponding block in the sheet.
func (s *Sheet) ValidateBlockIndex(idx int) error {
	if idx < 0 || idx >= s.blocks {
		return fmt.Errorf("%w: block index %d, sheet has %d blocks", dmierr.ErrBlockIndexOutOfBounds, idx, s.blocks)
	}
	return nil
}

// Quadrant returns the four corner-cutter quadrants of block at the given
// frame, split at cut. Results are memoized by (block, frame).
func (s *Sheet) Quadrant(block, frame int, cut recipe.Point) (Quadrants, error) {
	if err := s.ValidateBlockIndex(block); err != nil {
		return Quadrants{}, err
	}
	if frame < 0 || frame >= s.frames {
		return Quadrants{}, fmt.Errorf("%w: frame %d, sheet has %d frames", dmierr.ErrBlockIndexOutOfBounds, frame, s.frames)
	}

	key := quadKey{block, frame}
	if q, ok := s.cache[key]; ok {
		return q, nil
	}

	ox := block * s.iconSize.W
	oy := frame * s.iconSize.H
	w, h := s.iconSize.W, s.iconSize.H

	q := Quadrants{
		NW: s.crop(ox, oy, cut.X, cut.Y),
		NE: s.crop(ox+cut.X, oy, w-cut.X, cut.Y),
		SW: s.crop(ox, oy+cut.Y, cut.X, h-cut.Y),
		SE: s.crop(ox+cut.X, oy+cut.Y, w-cut.X, h-cut.Y),
	}
	s.cache[key] = q
	return q, nil
}

// WholeBlock returns the full icon_size block at the given index and frame,
// uncut, for prefab composition (I2: prefabs copy the whole block verbatim).
func (s *Sheet) WholeBlock(block, frame int) (*image.RGBA, error) {
	if err := s.ValidateBlockIndex(block); err != nil {
		return nil, err
	}
	if frame < 0 || frame >= s.frames {
		return nil, fmt.Errorf("%w: frame %d, sheet has %d frames", dmierr.ErrBlockIndexOutOfBounds, frame, s.frames)
	}
	return s.crop(block*s.iconSize.W, frame*s.iconSize.H, s.iconSize.W, s.iconSize.H), nil
}

// crop extracts a w x h sub-image with its own origin at (0,0), copying
// pixels wholesale (replace, not blend) including the alpha channel.
func (s *Sheet) crop(x, y, w, h int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	src := s.img.Bounds().Intersect(image.Rect(x, y, x+w, y+h))
	draw.Draw(out, image.Rect(0, 0, src.Dx(), src.Dy()), s.img, src.Min, draw.Src)
	return out
}
