package dmi

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidTile32(v uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	c := color.RGBA{R: v, G: v, B: v, A: 255}
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestEncodeProducesDecodablePNG(t *testing.T) {
	m := Manifest{
		IconWidth:  32,
		IconHeight: 32,
		States: []IconState{
			{Name: "0", Tiles: [][]*image.RGBA{{solidTile32(10)}}},
			{Name: "15", Tiles: [][]*image.RGBA{{solidTile32(200)}}},
		},
	}

	out, err := Encode(m)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.NotNil(t, img)
}

func TestEncodeNoStatesFails(t *testing.T) {
	_, err := Encode(Manifest{IconWidth: 32, IconHeight: 32})
	assert.Error(t, err)
}

// P7: decoding the emitted DMI's Description chunk yields the manifest text
// the encoder built.
func TestEncodeRoundTripsDescription(t *testing.T) {
	m := Manifest{
		IconWidth:  32,
		IconHeight: 32,
		States: []IconState{
			{
				Name:   "0",
				Tiles:  [][]*image.RGBA{{solidTile32(1), solidTile32(2)}},
				Delays: []float64{10, 20},
			},
		},
	}

	out, err := Encode(m)
	require.NoError(t, err)

	got, err := ParseDescription(out)
	require.NoError(t, err)

	want := buildDescription(m)
	assert.Equal(t, want, got)
}

// P4: emitted delay for frame f equals delays[f mod len(delays)].
func TestFormatDelaysCycles(t *testing.T) {
	assert.Equal(t, "10,20,10,20,10", formatDelays([]float64{10, 20}, 5))
}

func TestBuildDescriptionExactFormat(t *testing.T) {
	m := Manifest{
		IconWidth:  32,
		IconHeight: 32,
		States: []IconState{
			{Name: "0", Tiles: [][]*image.RGBA{{solidTile32(1)}}},
		},
	}
	want := "# BEGIN DMI\n" +
		"version = 4.0\n" +
		"\twidth = 32\n" +
		"\theight = 32\n" +
		"state = \"0\"\n" +
		"\tdirs = 1\n" +
		"\tframes = 1\n" +
		"# END DMI\n"
	assert.Equal(t, want, buildDescription(m))
}

func TestBuildDescriptionMultiStateOrderAndFlags(t *testing.T) {
	m := Manifest{
		IconWidth:  32,
		IconHeight: 32,
		States: []IconState{
			{Name: "0", Tiles: [][]*image.RGBA{{solidTile32(1)}}},
			{
				Name:   "255",
				Tiles:  [][]*image.RGBA{{solidTile32(2), solidTile32(3)}},
				Delays: []float64{5, 5},
				Flags:  map[string]bool{"movement": true},
			},
		},
	}
	want := "# BEGIN DMI\n" +
		"version = 4.0\n" +
		"\twidth = 32\n" +
		"\theight = 32\n" +
		"state = \"0\"\n" +
		"\tdirs = 1\n" +
		"\tframes = 1\n" +
		"state = \"255\"\n" +
		"\tdirs = 1\n" +
		"\tframes = 2\n" +
		"\tdelay = 5,5\n" +
		"\tmovement = true\n" +
		"# END DMI\n"
	assert.Equal(t, want, buildDescription(m))
}
