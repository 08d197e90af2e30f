package dmi

import (
	"fmt"
	"image"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/image/draw"

	"hypnagogic/internal/dmierr"
	"hypnagogic/internal/hgio"
)

const descriptionKeyword = "Description"

// Encode arranges every state's tiles into a single spritesheet PNG and
// serializes the manifest as the DMI zTXt "Description" chunk, per §4.H.
// Tiles are laid out left-to-right, top-to-bottom on a grid whose column
// count is ceil(sqrt(total_cells)) — the engine locates tiles by ordinal,
// not by (x,y), so this is a fixed convention rather than a normative one.
func Encode(m Manifest) ([]byte, error) {
	if len(m.States) == 0 {
		return nil, fmt.Errorf("%w: manifest has no icon states", dmierr.ErrImageEncode)
	}

	total := 0
	for _, s := range m.States {
		total += s.DirCount() * s.FrameCount()
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: manifest states have no tiles", dmierr.ErrImageEncode)
	}

	columns := int(math.Ceil(math.Sqrt(float64(total))))
	rows := (total + columns - 1) / columns

	sheetW := columns * m.IconWidth
	sheetH := rows * m.IconHeight
	sheet := image.NewRGBA(image.Rect(0, 0, sheetW, sheetH))

	ordinal := 0
	for _, s := range m.States {
		for _, dirTiles := range s.Tiles {
			for _, tile := range dirTiles {
				col := ordinal % columns
				row := ordinal / columns
				at := image.Pt(col*m.IconWidth, row*m.IconHeight)
				dst := image.Rect(at.X, at.Y, at.X+m.IconWidth, at.Y+m.IconHeight)
				draw.Draw(sheet, dst, tile, image.Point{}, draw.Src)
				ordinal++
			}
		}
	}

	description := buildDescription(m)

	enc := hgio.ZTXtEncoder{}
	out, err := enc.Encode(sheet, []hgio.TextChunk{{Keyword: descriptionKeyword, Text: description}})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// buildDescription renders the DMI text manifest exactly per §4.H: fixed
// header/footer text, tab-indented attribute lines. This byte-for-byte
// format is engine-parser-sensitive and must not be reformatted.
func buildDescription(m Manifest) string {
	var b strings.Builder
	b.WriteString("# BEGIN DMI\n")
	b.WriteString("version = 4.0\n")
	fmt.Fprintf(&b, "\twidth = %d\n", m.IconWidth)
	fmt.Fprintf(&b, "\theight = %d\n", m.IconHeight)

	for _, s := range m.States {
		fmt.Fprintf(&b, "state = %q\n", s.Name)
		fmt.Fprintf(&b, "\tdirs = %d\n", s.DirCount())
		fmt.Fprintf(&b, "\tframes = %d\n", s.FrameCount())
		if s.FrameCount() > 1 {
			fmt.Fprintf(&b, "\tdelay = %s\n", formatDelays(s.Delays, s.FrameCount()))
		}
		for _, key := range sortedFlagKeys(s.Flags) {
			fmt.Fprintf(&b, "\t%s = %t\n", key, s.Flags[key])
		}
	}

	b.WriteString("# END DMI\n")
	return b.String()
}

// formatDelays renders the per-frame delay cycling sequence per I3/P4:
// delays[f mod len(delays)] for each frame f.
func formatDelays(delays []float64, frameCount int) string {
	if len(delays) == 0 {
		delays = []float64{1}
	}
	parts := make([]string, frameCount)
	for f := 0; f < frameCount; f++ {
		parts[f] = strconv.FormatFloat(delays[f%len(delays)], 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func sortedFlagKeys(flags map[string]bool) []string {
	keys := make([]string, 0, len(flags))
	for k := range flags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
