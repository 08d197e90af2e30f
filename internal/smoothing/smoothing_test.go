package smoothing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindCardinalOnly(t *testing.T) {
	// No neighbors: every corner is convex.
	for _, c := range []Corner{NW, NE, SW, SE} {
		assert.Equal(t, Convex, Kind(0, c, false))
	}

	// All cardinals set: every corner is concave.
	all := North | South | East | West
	for _, c := range []Corner{NW, NE, SW, SE} {
		assert.Equal(t, Concave, Kind(all, c, false))
	}

	// Only N set: NW and NE are vertical, SW and SE are convex.
	assert.Equal(t, Vertical, Kind(North, NW, false))
	assert.Equal(t, Vertical, Kind(North, NE, false))
	assert.Equal(t, Convex, Kind(North, SW, false))
	assert.Equal(t, Convex, Kind(North, SE, false))

	// Only E set: NE and SE are horizontal.
	assert.Equal(t, Horizontal, Kind(East, NE, false))
	assert.Equal(t, Horizontal, Kind(East, SE, false))
}

func TestKindDiagonalFlatVsConcave(t *testing.T) {
	// N and E set, NE clear: Flat at the NE corner (diagonal mode only).
	j := North | East
	assert.Equal(t, Flat, Kind(j, NE, true))
	// Without diagonal mode, the same cardinals yield Concave.
	assert.Equal(t, Concave, Kind(j, NE, false))

	// N, E, and NE all set: Concave at the NE corner.
	jFull := North | East | NorthEast
	assert.Equal(t, Concave, Kind(jFull, NE, true))
}

func TestKindTotality(t *testing.T) {
	// Every junction/corner pair in both universes yields exactly one
	// defined CornerKind (P3): the function never panics and always
	// returns one of the five named kinds.
	valid := map[CornerKind]bool{Convex: true, Concave: true, Horizontal: true, Vertical: true, Flat: true}
	for raw := 0; raw < 256; raw++ {
		for _, c := range []Corner{NW, NE, SW, SE} {
			require.True(t, valid[Kind(Junction(raw), c, true)])
			require.True(t, valid[Kind(Junction(raw), c, false)])
		}
	}
}

func TestNormalizeCardinalOnly(t *testing.T) {
	j := Junction(0xFF)
	assert.Equal(t, North|South|East|West, j.Normalize(false))
}

func TestNormalizeDiagonalSignificance(t *testing.T) {
	// A diagonal bit set without both flanking cardinals is insignificant
	// and is cleared by normalization.
	j := NorthEast
	assert.Equal(t, Junction(0), j.Normalize(true))

	// With both flanking cardinals present, the diagonal bit survives.
	j2 := North | East | NorthEast
	assert.Equal(t, j2, j2.Normalize(true))
}

func TestUniverseSizes(t *testing.T) {
	assert.Len(t, Universe(false), CardinalUniverseSize)
	assert.Len(t, Universe(true), DiagonalUniverseSize)
}

func TestUniverseIsSortedAndUnique(t *testing.T) {
	u := Universe(true)
	seen := make(map[Junction]bool)
	for i, j := range u {
		require.False(t, seen[j], "duplicate junction %d in universe", j)
		seen[j] = true
		if i > 0 {
			require.Less(t, u[i-1], j)
		}
	}
}

func TestRotateFullCircleIsIdentity(t *testing.T) {
	for raw := 0; raw < 256; raw++ {
		j := Junction(raw)
		assert.Equal(t, j, Rotate(j, 4))
	}
}

func TestRotateForDirectionEmptySetIsInvariant(t *testing.T) {
	// An empty neighbor set is rotation-invariant: all four facings agree.
	for _, d := range Directions {
		assert.Equal(t, Junction(0), RotateForDirection(0, d))
	}
}

func TestRotateSingleCardinal(t *testing.T) {
	// Rotating North by one canonical step (West's frame) should move it
	// to East, matching the N/E/S/W -> E/S/W/N rotation cycle.
	assert.Equal(t, East, Rotate(North, 1))
	assert.Equal(t, South, Rotate(North, 2))
	assert.Equal(t, West, Rotate(North, 3))
	assert.Equal(t, North, Rotate(North, 4))
}
