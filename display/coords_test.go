package display

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-specshow/algorithms/common"
	"github.com/RyanBlaney/sonido-specshow/algorithms/timefreq"
)

func TestMeshCoordsLengthAndOrder(t *testing.T) {
	p := DefaultCoordParams()
	for _, axis := range AxisTypes {
		for _, n := range []int{1, 10, 128} {
			edges, err := MeshCoords(axis, nil, n, p)
			require.NoError(t, err, "%s n=%d", axis, n)
			require.Len(t, edges, n+1, "%s n=%d", axis, n)

			for i := 1; i < len(edges); i++ {
				if axis == AxisTempo {
					assert.Less(t, edges[i], edges[i-1], "%s n=%d edge %d", axis, n, i)
				} else {
					assert.GreaterOrEqual(t, edges[i], edges[i-1], "%s n=%d edge %d", axis, n, i)
				}
			}
			for _, e := range edges {
				assert.False(t, math.IsNaN(e) || math.IsInf(e, 0), "%s n=%d", axis, n)
			}
		}
	}
}

func TestMeshCoordsValues(t *testing.T) {
	p := CoordParams{SampleRate: 8, HopLength: 2, BinsPerOctave: 12}

	t.Run("fft bins are centered and clipped", func(t *testing.T) {
		edges, err := MeshCoords(AxisLinear, nil, 5, p)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0.5, 1.5, 2.5, 3.5, 4}, edges)
	})

	t.Run("time", func(t *testing.T) {
		edges, err := MeshCoords(AxisTime, nil, 3, p)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0.25, 0.5, 0.75}, edges)
	})

	t.Run("chroma", func(t *testing.T) {
		edges, err := MeshCoords(AxisChroma, nil, 12, CoordParams{BinsPerOctave: 36})
		require.NoError(t, err)
		assert.InDelta(t, 4.0, edges[12], 1e-12)
		assert.InDelta(t, 1.0/3, edges[1], 1e-12)
	})

	t.Run("bare positions", func(t *testing.T) {
		edges, err := MeshCoords(AxisFrames, nil, 3, p)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 1, 2, 3}, edges)

		edges, err = MeshCoords("", nil, 2, p)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 1, 2}, edges)
	})

	t.Run("mel uses default range", func(t *testing.T) {
		edges, err := MeshCoords(AxisMel, nil, 1, p)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 11025}, edges)

		edges, err = MeshCoords(AxisMel, nil, 3, CoordParams{FMin: 0, FMax: 2000})
		require.NoError(t, err)
		centers := timefreq.MelFrequencies(3, 0, 2000, false)
		assert.InDeltaSlice(t, []float64{
			0,
			(centers[0] + centers[1]) / 2,
			(centers[1] + centers[2]) / 2,
			2000,
		}, edges, 1e-9)
	})

	t.Run("cqt is shifted down half a bin from C1", func(t *testing.T) {
		edges, err := MeshCoords(AxisCQTHz, nil, 1, DefaultCoordParams())
		require.NoError(t, err)
		c1 := timefreq.MIDIToHz(24)
		assert.InDelta(t, c1*math.Pow(2, -1.0/24), edges[0], 1e-9)
		assert.InDelta(t, c1*math.Pow(2, 1.0/24), edges[1], 1e-9)

		tuned, err := MeshCoords(AxisCQT, nil, 1, CoordParams{BinsPerOctave: 12, Tuning: 0.5})
		require.NoError(t, err)
		assert.InDelta(t, c1, tuned[0], 1e-9)
	})

	t.Run("tempo edges widen each lag bin", func(t *testing.T) {
		edges, err := MeshCoords(AxisTempo, nil, 2, DefaultCoordParams())
		require.NoError(t, err)
		bpm := 60 * 22050.0 / 512
		assert.InDeltaSlice(t, []float64{bpm * 1.5, bpm / 2 * 1.25, bpm / 3 * 3.5 / 3}, edges, 1e-9)
	})

	t.Run("fourier tempo", func(t *testing.T) {
		edges, err := MeshCoords(AxisFourierTempo, nil, 3, DefaultCoordParams())
		require.NoError(t, err)
		top := 60 * 22050.0 / 512 / 2
		assert.InDeltaSlice(t, []float64{0, top / 4, 3 * top / 4, top}, edges, 1e-9)
	})
}

func TestMeshCoordsExplicit(t *testing.T) {
	explicit := []float64{5, 6, 7, 8}

	edges, err := MeshCoords(AxisMel, explicit, 3, DefaultCoordParams())
	require.NoError(t, err)
	assert.Equal(t, explicit, edges)

	edges[0] = -1
	assert.Equal(t, 5.0, explicit[0])

	// n values are enough; no edge is synthesized
	edges, err = MeshCoords(AxisTime, explicit, 4, DefaultCoordParams())
	require.NoError(t, err)
	assert.Len(t, edges, 4)

	_, err = MeshCoords(AxisTime, explicit[:2], 3, DefaultCoordParams())
	assert.ErrorIs(t, err, common.ErrShape)
}

func TestMeshCoordsErrors(t *testing.T) {
	p := DefaultCoordParams()

	_, err := MeshCoords(AxisLinear, nil, 0, p)
	assert.ErrorIs(t, err, common.ErrShape)

	_, err = MeshCoords("bark", nil, 4, p)
	assert.ErrorIs(t, err, common.ErrValue)

	_, err = MeshCoords(AxisTime, nil, 4, CoordParams{SampleRate: 22050})
	assert.ErrorIs(t, err, common.ErrValue)

	_, err = MeshCoords(AxisChroma, nil, 4, CoordParams{})
	assert.ErrorIs(t, err, common.ErrValue)

	_, err = MeshCoords(AxisMel, nil, 4, CoordParams{FMin: 5000, FMax: 100})
	assert.ErrorIs(t, err, common.ErrValue)
}

func TestParseAxisType(t *testing.T) {
	for _, a := range AxisTypes {
		got, err := ParseAxisType(string(a))
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}

	got, err := ParseAxisType("")
	require.NoError(t, err)
	assert.Equal(t, AxisNone, got)

	got, err = ParseAxisType(" CQT_Note ")
	require.NoError(t, err)
	assert.Equal(t, AxisCQTNote, got)

	_, err = ParseAxisType("bark")
	assert.ErrorIs(t, err, common.ErrValue)
}
