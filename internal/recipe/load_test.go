package recipe

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypnagogic/internal/dmierr"
)

func baseFS() fstest.MapFS {
	return fstest.MapFS{
		"templates/base.yaml": &fstest.MapFile{Data: []byte(`
mode:
  type: bitmask_slice
  icon_size: {w: 32, h: 32}
  output_icon_size: {w: 32, h: 32}
  cut_position: {x: 16, y: 16}
  positions:
    convex: 0
    concave: 1
    horizontal: 2
    vertical: 3
`)},
	}
}

func TestLoadSimpleRecipe(t *testing.T) {
	fsys := baseFS()
	fsys["window.yaml"] = &fstest.MapFile{Data: []byte(`
template: base.yaml
output_name: window
`)}

	l := NewLoader(fsys, "templates")
	r, err := l.Load("window.yaml")
	require.NoError(t, err)
	assert.Equal(t, "window.dmi", r.OutputFilename())

	bs, ok := r.Mode.(BitmaskSlice)
	require.True(t, ok)
	assert.Equal(t, Dims{32, 32}, bs.IconSize)
	assert.False(t, bs.IsDiagonal)
}

// Scenario 6: template override precedence.
func TestLoadTemplateOverridePrecedence(t *testing.T) {
	fsys := baseFS()
	fsys["window.yaml"] = &fstest.MapFile{Data: []byte(`
template: base.yaml
output_name: window
mode:
  type: bitmask_slice
  icon_size: {w: 48, h: 48}
  output_icon_size: {w: 48, h: 48}
  cut_position: {x: 24, y: 24}
  positions:
    convex: 0
    concave: 1
    horizontal: 2
    vertical: 3
`)}

	l := NewLoader(fsys, "templates")
	r, err := l.Load("window.yaml")
	require.NoError(t, err)

	bs := r.Mode.(BitmaskSlice)
	assert.Equal(t, Dims{48, 48}, bs.IconSize)
}

func TestLoadOutputNameDefaultsToStem(t *testing.T) {
	fsys := baseFS()
	fsys["door.yaml"] = &fstest.MapFile{Data: []byte(`template: base.yaml`)}

	l := NewLoader(fsys, "templates")
	r, err := l.Load("door.yaml")
	require.NoError(t, err)
	assert.Equal(t, "door.dmi", r.OutputFilename())
}

func TestLoadUnknownTopLevelKeyFails(t *testing.T) {
	fsys := baseFS()
	fsys["bad.yaml"] = &fstest.MapFile{Data: []byte(`
template: base.yaml
bogus_key: true
`)}

	l := NewLoader(fsys, "templates")
	_, err := l.Load("bad.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, dmierr.ErrUnknownRecipeKey)
}

func TestLoadCycleFails(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/a.yaml": &fstest.MapFile{Data: []byte("template: b.yaml\n")},
		"templates/b.yaml": &fstest.MapFile{Data: []byte("template: a.yaml\n")},
	}
	l := NewLoader(fsys, "templates")
	_, err := l.Load("templates/a.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, dmierr.ErrRecipeCycle)
}

func TestLoadMissingRequiredKeyFails(t *testing.T) {
	fsys := fstest.MapFS{
		"incomplete.yaml": &fstest.MapFile{Data: []byte(`
mode:
  type: bitmask_slice
  icon_size: {w: 32, h: 32}
  cut_position: {x: 16, y: 16}
  positions:
    convex: 0
`)},
	}
	l := NewLoader(fsys, "templates")
	_, err := l.Load("incomplete.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, dmierr.ErrMissingRequiredKey)
}

func TestLoadDiagonalRequiresFlatPosition(t *testing.T) {
	fsys := fstest.MapFS{
		"diag.yaml": &fstest.MapFile{Data: []byte(`
mode:
  type: bitmask_slice
  is_diagonal: true
  icon_size: {w: 32, h: 32}
  cut_position: {x: 16, y: 16}
  positions:
    convex: 0
    concave: 1
    horizontal: 2
    vertical: 3
`)},
	}
	l := NewLoader(fsys, "templates")
	_, err := l.Load("diag.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, dmierr.ErrMissingRequiredKey)
}

func TestLoadCutPositionMustBeInterior(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.yaml": &fstest.MapFile{Data: []byte(`
mode:
  type: bitmask_slice
  icon_size: {w: 32, h: 32}
  cut_position: {x: 32, y: 16}
  positions:
    convex: 0
    concave: 1
    horizontal: 2
    vertical: 3
`)},
	}
	l := NewLoader(fsys, "templates")
	_, err := l.Load("bad.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, dmierr.ErrBadFieldValue)
}

func TestLoadPrefabsAndDelay(t *testing.T) {
	fsys := fstest.MapFS{
		"anim.yaml": &fstest.MapFile{Data: []byte(`
mode:
  type: bitmask_slice
  icon_size: {w: 32, h: 32}
  cut_position: {x: 16, y: 16}
  positions:
    convex: 0
    concave: 1
    horizontal: 2
    vertical: 3
  prefabs:
    "180": 5
  delay: [10, 20]
`)},
	}
	l := NewLoader(fsys, "templates")
	r, err := l.Load("anim.yaml")
	require.NoError(t, err)

	bs := r.Mode.(BitmaskSlice)
	assert.Equal(t, 5, bs.Prefabs[180])
	assert.Equal(t, []float64{10, 20}, bs.Delay)
	assert.Equal(t, float64(10), bs.DelayAt(0))
	assert.Equal(t, float64(20), bs.DelayAt(1))
	assert.Equal(t, float64(10), bs.DelayAt(2))
}
