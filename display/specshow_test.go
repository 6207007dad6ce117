package display

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-specshow/algorithms/common"
	"github.com/RyanBlaney/sonido-specshow/algorithms/spectral"
	"github.com/RyanBlaney/sonido-specshow/logging"
)

type meshCall struct {
	x, y  []float64
	rows  int
	cols  int
	style MeshStyle
}

type fillCall struct {
	x, lower, upper []float64
	color           string
}

// recordingSurface keeps every call for inspection
type recordingSurface struct {
	meshes      []meshCall
	fills       []fillCall
	limits      map[Which][]Interval
	scales      map[Which]Scale
	decorations map[Which]Decoration
	failDraw    bool
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{
		limits:      map[Which][]Interval{},
		scales:      map[Which]Scale{},
		decorations: map[Which]Decoration{},
	}
}

func (s *recordingSurface) PColorMesh(x, y []float64, data *mat.Dense, style MeshStyle) error {
	if s.failDraw {
		return errors.New("backend closed")
	}
	r, c := data.Dims()
	s.meshes = append(s.meshes, meshCall{x: x, y: y, rows: r, cols: c, style: style})
	return nil
}

func (s *recordingSurface) FillBetween(x, lower, upper []float64, color string) error {
	s.fills = append(s.fills, fillCall{x: x, lower: lower, upper: upper, color: color})
	return nil
}

func (s *recordingSurface) SetLimits(which Which, lo, hi float64) {
	s.limits[which] = append(s.limits[which], Interval{lo, hi})
}

func (s *recordingSurface) SetScale(which Which, scale Scale) { s.scales[which] = scale }

func (s *recordingSurface) SetDecoration(which Which, d Decoration) { s.decorations[which] = d }

func (s *recordingSurface) lastLimits(which Which) Interval {
	l := s.limits[which]
	return l[len(l)-1]
}

func TestSpecshow(t *testing.T) {
	surface := newRecordingSurface()
	ctx := NewContext(surface, WithContextLogger(&logging.NoOpLogger{}))

	data := mat.NewDense(5, 3, []float64{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
		1, 1, 1,
		0, 0, 0,
	})

	opts := DefaultSpecshowOptions()
	opts.YAxis = AxisLinear
	opts.XAxis = AxisTime
	opts.Params = CoordParams{SampleRate: 8, HopLength: 2, BinsPerOctave: 12}

	mesh, err := Specshow(ctx, data, opts)
	require.NoError(t, err)

	require.Len(t, surface.meshes, 1)
	call := surface.meshes[0]
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75}, call.x)
	assert.Equal(t, []float64{0, 0.5, 1.5, 2.5, 3.5, 4}, call.y)
	assert.Len(t, call.x, call.cols+1)
	assert.Len(t, call.y, call.rows+1)
	assert.Equal(t, MeshStyle{Cmap: "magma", Rasterized: true, Shading: "flat"}, call.style)

	assert.Equal(t, Interval{0, 0.75}, surface.lastLimits(XAxis))
	assert.Equal(t, Interval{0, 4}, surface.lastLimits(YAxis))
	assert.Empty(t, surface.scales)

	assert.Equal(t, "Time", surface.decorations[XAxis].Label)
	assert.Equal(t, "Hz", surface.decorations[YAxis].Label)

	assert.Equal(t, "magma", mesh.Cmap)
	assert.Equal(t, call.x, mesh.X)
}

func TestSpecshowScalesAndColorMap(t *testing.T) {
	surface := newRecordingSurface()
	ctx := NewContext(surface, WithPalette(Palette{Sequential: "viridis", Diverging: "RdBu", Boolean: "binary"}))

	data := mat.NewDense(4, 2, []float64{-1, 1, -2, 2, -3, 3, -4, 4})
	opts := DefaultSpecshowOptions()
	opts.YAxis = AxisTempo
	opts.XAxis = AxisMel

	mesh, err := Specshow(ctx, data, opts)
	require.NoError(t, err)
	assert.Equal(t, "RdBu", mesh.Cmap)

	assert.Equal(t, ScaleLog, surface.scales[YAxis].Mode)
	assert.Equal(t, ScaleSymLog, surface.scales[XAxis].Mode)
	assert.Equal(t, Interval{16, 480}, surface.lastLimits(YAxis))
	assert.Equal(t, Interval{0, 11025}, surface.lastLimits(XAxis))

	opts.Cmap = "gray"
	mesh, err = Specshow(ctx, data, opts)
	require.NoError(t, err)
	assert.Equal(t, "gray", mesh.Cmap)
}

func TestSpecshowErrors(t *testing.T) {
	surface := newRecordingSurface()
	ctx := NewContext(surface)
	data := mat.NewDense(3, 3, nil)

	_, err := Specshow(ctx, nil, DefaultSpecshowOptions())
	assert.ErrorIs(t, err, common.ErrShape)

	opts := DefaultSpecshowOptions()
	opts.YCoords = []float64{1, 2}
	_, err = Specshow(ctx, data, opts)
	assert.ErrorIs(t, err, common.ErrShape)

	opts = DefaultSpecshowOptions()
	opts.XAxis = "bark"
	_, err = Specshow(ctx, data, opts)
	assert.ErrorIs(t, err, common.ErrValue)

	assert.Empty(t, surface.meshes, "nothing is drawn on invalid input")

	surface.failDraw = true
	_, err = Specshow(ctx, data, DefaultSpecshowOptions())
	assert.ErrorContains(t, err, "backend closed")
}

func TestSpecshowComplexWarns(t *testing.T) {
	rec := logging.NewRecorder()
	surface := newRecordingSurface()
	ctx := NewContext(surface, WithContextLogger(rec))

	S := &spectral.Spectrogram{
		Channels: 1, Bins: 2, Frames: 2,
		Data: []complex128{3 + 4i, 1, -2i, 0},
	}

	mesh, err := SpecshowComplex(ctx, S, DefaultSpecshowOptions())
	require.NoError(t, err)
	assert.Equal(t, "magma", mesh.Cmap)

	warnings := rec.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "Showing magnitude instead")

	stereo := &spectral.Spectrogram{Channels: 2, Bins: 1, Frames: 1, Data: []complex128{1, 2}}
	_, err = SpecshowComplex(ctx, stereo, DefaultSpecshowOptions())
	assert.ErrorIs(t, err, common.ErrShape)
}

func TestWaveplot(t *testing.T) {
	surface := newRecordingSurface()
	ctx := NewContext(surface)

	x := []float64{0.5, -1, 0.25, 0, -0.75}
	opts := DefaultWaveplotOptions()
	opts.MaxPoints = 0
	opts.Offset = 1

	env, err := Waveplot(ctx, spectral.Mono(x), 10, opts)
	require.NoError(t, err)

	assert.Equal(t, 1, env.HopLength)
	assert.Equal(t, []float64{0.5, 1, 0.25, 0, 0.75}, env.Upper)
	assert.Equal(t, []float64{-0.5, -1, -0.25, 0, -0.75}, env.Lower)
	assert.InDeltaSlice(t, []float64{1, 1.1, 1.2, 1.3, 1.4}, env.Times, 1e-12)
	assert.Equal(t, DefaultColorCycle[0], env.Color)

	require.Len(t, surface.fills, 1)
	assert.Equal(t, env.Times, surface.fills[0].x)
	assert.InDelta(t, 1.0, surface.lastLimits(XAxis).Min, 1e-12)
	assert.InDelta(t, 1.4, surface.lastLimits(XAxis).Max, 1e-12)
	assert.Equal(t, "Time", surface.decorations[XAxis].Label)

	env, err = Waveplot(ctx, spectral.Mono(x), 10, opts)
	require.NoError(t, err)
	assert.Equal(t, DefaultColorCycle[1], env.Color)
}

func TestWaveplotDownsamples(t *testing.T) {
	const sr = 22050
	n := 100000
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(float64(i) * 0.01)
	}

	env, err := Waveplot(NewContext(newRecordingSurface()), spectral.Mono(x), sr, DefaultWaveplotOptions())
	require.NoError(t, err)

	// target rate min(1000, 22050*n/50000) gives a hop of 22 samples
	assert.Equal(t, 22, env.HopLength)
	assert.Len(t, env.Upper, 1+(n-22)/22)
	for i, v := range env.Upper {
		assert.GreaterOrEqual(t, v, math.Abs(x[i*22]))
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestWaveplotStereo(t *testing.T) {
	sig, err := spectral.Planar([][]float64{
		{1, -2, 3, -4},
		{0.5, 0.5, -0.5, 0.25},
	})
	require.NoError(t, err)

	opts := DefaultWaveplotOptions()
	opts.Color = "black"
	env, err := Waveplot(NewContext(newRecordingSurface()), sig, 4, opts)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3, 4}, env.Upper)
	assert.Equal(t, []float64{-0.5, -0.5, -0.5, -0.25}, env.Lower)
	assert.Equal(t, "black", env.Color)
}

func TestWaveplotErrors(t *testing.T) {
	ctx := NewContext(newRecordingSurface())
	sig := spectral.Mono([]float64{1, 2, 3})

	opts := DefaultWaveplotOptions()
	opts.MaxSR = 0
	_, err := Waveplot(ctx, sig, 10, opts)
	assert.ErrorIs(t, err, common.ErrValue)

	opts = DefaultWaveplotOptions()
	opts.MaxPoints = -1
	_, err = Waveplot(ctx, sig, 10, opts)
	assert.ErrorIs(t, err, common.ErrValue)

	_, err = Waveplot(ctx, spectral.Mono([]float64{1, math.NaN()}), 10, DefaultWaveplotOptions())
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestWaveplotBadAxisDrawsNothing(t *testing.T) {
	surface := newRecordingSurface()
	ctx := NewContext(surface, WithColorCycle([]string{"a", "b"}))

	opts := DefaultWaveplotOptions()
	opts.XAxis = "bogus"
	_, err := Waveplot(ctx, spectral.Mono([]float64{1, 2, 3}), 10, opts)
	assert.ErrorIs(t, err, common.ErrValue)

	assert.Empty(t, surface.fills)
	assert.Empty(t, surface.limits)
	assert.Empty(t, surface.decorations)
	assert.Equal(t, "a", ctx.NextColor(), "color cycle is not advanced")
}

func TestSpecshowBooleanPalette(t *testing.T) {
	surface := newRecordingSurface()
	ctx := NewContext(surface)

	mesh, err := SpecshowMask(ctx, [][]bool{{true, false}, {false, true}, {true, true}}, DefaultSpecshowOptions())
	require.NoError(t, err)
	assert.Equal(t, DefaultPalette().Boolean, mesh.Cmap)
	require.Len(t, surface.meshes, 1)
	assert.Equal(t, 3, surface.meshes[0].rows)
	assert.Equal(t, 2, surface.meshes[0].cols)
	assert.Equal(t, "gray_r", surface.meshes[0].style.Cmap)

	// 0/1 data would otherwise pick the sequential map
	opts := DefaultSpecshowOptions()
	opts.Boolean = true
	data := mat.NewDense(2, 2, []float64{0, 1, 1, 0})
	mesh, err = Specshow(ctx, data, opts)
	require.NoError(t, err)
	assert.Equal(t, "gray_r", mesh.Cmap)

	opts.Cmap = "viridis"
	mesh, err = Specshow(ctx, data, opts)
	require.NoError(t, err)
	assert.Equal(t, "viridis", mesh.Cmap, "an explicit map wins")

	mesh, err = Specshow(ctx, data, DefaultSpecshowOptions())
	require.NoError(t, err)
	assert.Equal(t, "magma", mesh.Cmap)

	_, err = SpecshowMask(ctx, nil, DefaultSpecshowOptions())
	assert.ErrorIs(t, err, common.ErrShape)
	_, err = SpecshowMask(ctx, [][]bool{{true, false}, {true}}, DefaultSpecshowOptions())
	assert.ErrorIs(t, err, common.ErrShape)
}

func TestContextColorCycleIsShared(t *testing.T) {
	ctx := NewContext(newRecordingSurface(), WithColorCycle([]string{"a", "b"}))

	var (
		mu     sync.Mutex
		counts = map[string]int{}
		wg     sync.WaitGroup
	)
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := ctx.NextColor()
			mu.Lock()
			counts[c]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, map[string]int{"a": 50, "b": 50}, counts)
}
