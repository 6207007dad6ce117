package spectral

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-specshow/algorithms/common"
	"github.com/RyanBlaney/sonido-specshow/algorithms/windowing"
	"github.com/RyanBlaney/sonido-specshow/logging"
)

func sine(freq, sampleRate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}
	return out
}

func TestSTFTShape(t *testing.T) {
	x := sine(440, 22050, 22050)

	S, err := ComputeSTFT(Mono(x), 2048, WithHopLength(512), WithLogger(&logging.NoOpLogger{}))
	require.NoError(t, err)

	assert.Equal(t, 1, S.Channels)
	assert.Equal(t, 1025, S.Bins)
	assert.Equal(t, 1+22050/512, S.Frames)
	assert.Len(t, S.Data, S.Bins*S.Frames)
	assert.Equal(t, 2048, S.NFFT)
	assert.Equal(t, 512, S.HopLength)
	assert.Equal(t, 2048, S.WinLength)
	assert.True(t, S.Center)
}

func TestSTFTDefaultHopIsQuarterWindow(t *testing.T) {
	S, err := NewSTFT(WithFFTSize(16), WithWinLength(12)).Compute(Mono(ramp(64)))
	require.NoError(t, err)
	assert.Equal(t, 3, S.HopLength)
	assert.Equal(t, 12, S.WinLength)
	assert.Equal(t, 1+64/3, S.Frames)
}

func TestSTFTSinePeak(t *testing.T) {
	const sr = 22050.0
	x := sine(1000, sr, 22050)

	S, err := ComputeSTFT(Mono(x), 2048, WithHopLength(512))
	require.NoError(t, err)

	mag, err := S.Magnitude()
	require.NoError(t, err)

	want := int(math.Round(1000 / (sr / 2048)))
	require.Equal(t, 93, want)

	_, frames := mag.Dims()
	for t0 := range frames {
		peak, best := 0, -1.0
		for k := range S.Bins {
			if v := mag.At(k, t0); v > best {
				peak, best = k, v
			}
		}

		// frames overlapping the reflected edges see a phase flip at their
		// center, which splits the peak by one bin
		start := t0*512 - 1024
		if start >= 0 && start+2048 <= len(x) {
			assert.Equal(t, want, peak, "frame %d", t0)
		} else {
			assert.InDelta(t, want, peak, 1, "edge frame %d", t0)
		}
	}
}

func TestSTFTBlockSizeDoesNotChangeOutput(t *testing.T) {
	x := sine(1234.5, 22050, 10000)
	for i := range x {
		x[i] += 0.1 * math.Cos(float64(i)*0.37)
	}

	ref, err := ComputeSTFT(Mono(x), 512, WithHopLength(128))
	require.NoError(t, err)

	for _, block := range []int{1, 257 * 16, 3 * 257 * 16, 1 << 30} {
		got, err := ComputeSTFT(Mono(x), 512, WithHopLength(128), WithMaxMemBlock(block))
		require.NoError(t, err)
		assert.Equal(t, ref.Data, got.Data, "block budget %d", block)
	}
}

func TestSTFTConstantSignalRectangularWindow(t *testing.T) {
	x := make([]float64, 32)
	for i := range x {
		x[i] = 1
	}

	S, err := ComputeSTFT(Mono(x), 8,
		WithHopLength(8), WithWindow(windowing.Rectangular()), WithCenter(false))
	require.NoError(t, err)
	require.Equal(t, 4, S.Frames)

	for t0 := range S.Frames {
		assert.InDelta(t, 8.0, real(S.At(0, t0)), 1e-12)
		for k := 1; k < S.Bins; k++ {
			assert.InDelta(t, 0.0, cmplx.Abs(S.At(k, t0)), 1e-12)
		}
	}
}

func TestSTFTShortWindowIsCentered(t *testing.T) {
	x := make([]float64, 8)
	for i := range x {
		x[i] = 1
	}

	S, err := ComputeSTFT(Mono(x), 8,
		WithWinLength(4), WithHopLength(8), WithWindow(windowing.Rectangular()), WithCenter(false))
	require.NoError(t, err)
	require.Equal(t, 1, S.Frames)

	// four ones in an eight-point frame
	assert.InDelta(t, 4.0, real(S.At(0, 0)), 1e-12)
	assert.InDelta(t, 0.0, cmplx.Abs(S.At(2, 0)), 1e-12)
}

func TestSTFTInterleavedChannels(t *testing.T) {
	left := sine(300, 8000, 2000)
	right := make([]float64, len(left))
	for i, v := range left {
		right[i] = 2 * v
	}

	stereo, err := Planar([][]float64{left, right})
	require.NoError(t, err)

	S, err := ComputeSTFT(stereo, 256, WithHopLength(64), WithMaxMemBlock(4096))
	require.NoError(t, err)
	require.Equal(t, 2, S.Channels)

	mono, err := ComputeSTFT(Mono(left), 256, WithHopLength(64))
	require.NoError(t, err)

	assert.Equal(t, mono.Data, S.Channel(0).Data)
	for t0 := range S.Frames {
		for k := range S.Bins {
			assert.Equal(t, 2*S.AtChannel(0, k, t0), S.AtChannel(1, k, t0))
		}
	}

	_, err = S.Magnitude()
	assert.ErrorIs(t, err, common.ErrShape)

	m, err := S.Channel(1).Power()
	require.NoError(t, err)
	rows, cols := m.Dims()
	assert.Equal(t, S.Bins, rows)
	assert.Equal(t, S.Frames, cols)
}

func TestSTFTErrors(t *testing.T) {
	good := Mono(ramp(64))
	nan := Mono([]float64{0, math.NaN(), 0, 0, 0, 0, 0, 0})
	rows := Signal{Data: ramp(64), Shape: []int{2, 32}, Order: RowMajor}

	tests := []struct {
		name string
		sig  Signal
		opts []Option
		want error
	}{
		{"zero hop", good, []Option{WithFFTSize(16), WithHopLength(0)}, common.ErrValue},
		{"window longer than fft", good, []Option{WithFFTSize(16), WithWinLength(32)}, common.ErrValue},
		{"zero fft size", good, []Option{WithFFTSize(0)}, common.ErrValue},
		{"custom window size", good, []Option{WithFFTSize(16), WithWindow(windowing.Custom{1, 2})}, common.ErrSizeMismatch},
		{"non finite", nan, []Option{WithFFTSize(4)}, common.ErrValidation},
		{"planar layout", rows, []Option{WithFFTSize(16)}, common.ErrValidation},
		{"too short without centering", Mono(ramp(8)), []Option{WithFFTSize(16), WithCenter(false)}, common.ErrShape},
		{"zero memory budget", good, []Option{WithFFTSize(16), WithMaxMemBlock(0)}, common.ErrValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			S, err := NewSTFT(tt.opts...).Compute(tt.sig)
			require.Error(t, err)
			assert.Nil(t, S)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSTFTLogsDebugSummary(t *testing.T) {
	rec := logging.NewRecorder()
	_, err := ComputeSTFT(Mono(ramp(64)), 16, WithLogger(rec))
	require.NoError(t, err)

	records := rec.Records()
	require.Len(t, records, 1)
	assert.Equal(t, logging.DebugLevel, records[0].Level)
	assert.Equal(t, 16, records[0].Fields["n_fft"])
}
