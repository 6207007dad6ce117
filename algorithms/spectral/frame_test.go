package spectral

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-specshow/algorithms/common"
)

func ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

func TestFrameCountsAndContents(t *testing.T) {
	for _, n := range []int{1, 7, 64, 100} {
		for _, frameLength := range []int{1, 3, 7, 64} {
			for _, hop := range []int{1, 2, 5, 64} {
				if frameLength > n {
					continue
				}
				x := ramp(n)
				view, err := Frame(Mono(x), frameLength, hop, -1)
				require.NoError(t, err)

				wantFrames := 1 + (n-frameLength)/hop
				require.Equal(t, wantFrames, view.NumFrames(), "n=%d frame=%d hop=%d", n, frameLength, hop)
				require.Equal(t, frameLength, view.FrameLength())

				for i := range wantFrames {
					assert.Equal(t, x[i*hop:i*hop+frameLength], view.Frame(i))
					for j := range frameLength {
						assert.Equal(t, x[i*hop+j], view.At(j, i))
					}
				}
			}
		}
	}
}

func TestFrameDoesNotCopy(t *testing.T) {
	x := ramp(10)
	view, err := Frame(Mono(x), 4, 2, -1)
	require.NoError(t, err)

	x[2] = -1
	assert.Equal(t, -1.0, view.At(2, 0))
	assert.Equal(t, -1.0, view.At(0, 1))
	assert.Equal(t, -1.0, view.Frame(1)[0])
}

func TestFrameStrides(t *testing.T) {
	t.Run("mono", func(t *testing.T) {
		view, err := Frame(Mono(ramp(10)), 4, 3, -1)
		require.NoError(t, err)
		assert.Equal(t, []int{4, 3}, view.Shape())
		assert.Equal(t, []int{1, 3}, view.Strides())
	})

	t.Run("mono axis 0", func(t *testing.T) {
		view, err := Frame(Mono(ramp(10)), 4, 3, 0)
		require.NoError(t, err)
		assert.Equal(t, []int{3, 4}, view.Shape())
		assert.Equal(t, []int{3, 1}, view.Strides())
		assert.Equal(t, []float64{3, 4, 5, 6}, view.Frame(1))
	})

	t.Run("interleaved", func(t *testing.T) {
		sig, err := Interleaved(ramp(20), 2)
		require.NoError(t, err)

		view, err := Frame(sig, 4, 3, -1)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 4, 3}, view.Shape())
		assert.Equal(t, []int{1, 2, 6}, view.Strides())

		// channel 1, sample 2 of frame 1 is sample 5 of channel 1: index 5*2+1
		assert.Equal(t, 11.0, view.At(1, 2, 1))

		dst := make([]float64, 4)
		assert.Equal(t, []float64{6, 8, 10, 12}, view.CopyFrame(dst, 1, 0))
		assert.Equal(t, []float64{7, 9, 11, 13}, view.CopyFrame(dst, 1, 1))
		assert.Nil(t, view.Frame(0))
	})

	t.Run("row major along axis 0", func(t *testing.T) {
		sig := Signal{Data: ramp(20), Shape: []int{10, 2}, Order: RowMajor}
		view, err := Frame(sig, 4, 3, 0)
		require.NoError(t, err)
		assert.Equal(t, []int{3, 4, 2}, view.Shape())
		assert.Equal(t, []int{6, 2, 1}, view.Strides())

		dst := make([]float64, 4)
		assert.Equal(t, []float64{7, 9, 11, 13}, view.CopyFrame(dst, 1, 1))
	})

	t.Run("single channel row major is contiguous both ways", func(t *testing.T) {
		sig := Signal{Data: ramp(10), Shape: []int{1, 10}, Order: RowMajor}
		view, err := Frame(sig, 4, 3, -1)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 4, 3}, view.Shape())
		assert.Equal(t, 3, view.Strides()[2])
		assert.Equal(t, 7.0, view.At(0, 1, 2))
	})
}

func TestFrameErrors(t *testing.T) {
	stereoRows := Signal{Data: ramp(20), Shape: []int{2, 10}, Order: RowMajor}
	stereoCols, err := Interleaved(ramp(20), 2)
	require.NoError(t, err)

	tests := []struct {
		name     string
		sig      Signal
		frameLen int
		hop      int
		axis     int
		want     error
	}{
		{"too short", Mono(ramp(3)), 4, 1, -1, common.ErrShape},
		{"hop zero", Mono(ramp(8)), 4, 0, -1, common.ErrValue},
		{"axis out of range", Mono(ramp(8)), 4, 1, 1, common.ErrValue},
		{"too short with bad axis", Mono(ramp(3)), 4, 1, 2, common.ErrShape},
		{"middle axis", stereoCols, 2, 1, 1, common.ErrValue},
		{"row major along last axis", stereoRows, 4, 1, -1, common.ErrLayout},
		{"col major along first axis", Signal{Data: ramp(20), Shape: []int{10, 2}, Order: ColMajor}, 4, 1, 0, common.ErrLayout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Frame(tt.sig, tt.frameLen, tt.hop, tt.axis)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, common.ErrParameter)
		})
	}
}

func TestPadModes(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	tests := []struct {
		mode PadMode
		want []float64
	}{
		{PadReflect, []float64{4, 3, 2, 1, 2, 3, 4, 3, 2, 1}},
		{PadSymmetric, []float64{3, 2, 1, 1, 2, 3, 4, 4, 3, 2}},
		{PadEdge, []float64{1, 1, 1, 1, 2, 3, 4, 4, 4, 4}},
		{PadWrap, []float64{2, 3, 4, 1, 2, 3, 4, 1, 2, 3}},
		{PadConstant, []float64{0, 0, 0, 1, 2, 3, 4, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			out, err := Pad(Mono(x), 3, 3, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Data)
			assert.Equal(t, []int{10}, out.Shape)
		})
	}
}

func TestPadLongerThanSignal(t *testing.T) {
	out, err := Pad(Mono([]float64{1, 2, 3}), 5, 5, PadReflect)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 1, 2, 3, 2, 1, 2, 3, 2, 1, 2, 3, 2}, out.Data)

	single, err := Pad(Mono([]float64{7}), 2, 1, PadReflect)
	require.NoError(t, err)
	assert.Equal(t, []float64{7, 7, 7, 7}, single.Data)
}

func TestPadInterleaved(t *testing.T) {
	sig, err := Planar([][]float64{{1, 2, 3}, {10, 20, 30}})
	require.NoError(t, err)

	out, err := Pad(sig, 1, 1, PadReflect)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 5}, out.Shape)
	assert.Equal(t, ColMajor, out.Order)
	assert.Equal(t, []float64{2, 20, 1, 10, 2, 20, 3, 30, 2, 20}, out.Data)
}

func TestPadErrors(t *testing.T) {
	_, err := Pad(Mono(nil), 2, 2, PadReflect)
	assert.ErrorIs(t, err, common.ErrShape)

	_, err = Pad(Mono([]float64{1}), -1, 0, PadEdge)
	assert.ErrorIs(t, err, common.ErrValue)

	out, err := Pad(Mono(nil), 1, 1, PadConstant)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, out.Data)

	mode, err := ParsePadMode("Symmetric")
	require.NoError(t, err)
	assert.Equal(t, PadSymmetric, mode)

	_, err = ParsePadMode("mirror")
	assert.ErrorIs(t, err, common.ErrValue)
}

func TestSignalConstructors(t *testing.T) {
	sig, err := Planar([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3, 2, 4}, sig.Data)
	assert.Equal(t, 2, sig.Channels())
	assert.Equal(t, 2, sig.Len())
	assert.Equal(t, 4.0, sig.At(1, 1))

	_, err = Planar([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, common.ErrShape)

	_, err = Interleaved([]float64{1, 2, 3}, 2)
	assert.ErrorIs(t, err, common.ErrShape)

	_, err = Interleaved([]float64{1, 2}, 0)
	assert.ErrorIs(t, err, common.ErrValue)

	rows := Signal{Data: []float64{1, 2, 3, 4}, Shape: []int{2, 2}, Order: RowMajor}
	assert.Equal(t, []int{2, 1}, rows.Strides())
	assert.Equal(t, 3.0, rows.At(1, 0))
}
