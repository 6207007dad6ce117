package spectral

import (
	"math"

	"github.com/RyanBlaney/sonido-specshow/algorithms/common"
)

// Order is the memory layout of a rank-2 Signal
type Order int

const (
	// RowMajor stores each channel contiguously: element (c, t) at c*n + t
	RowMajor Order = iota
	// ColMajor interleaves channels: element (c, t) at t*channels + c
	ColMajor
)

func (o Order) String() string {
	switch o {
	case RowMajor:
		return "row-major"
	case ColMajor:
		return "col-major"
	default:
		return "unknown"
	}
}

// Signal is a caller-owned sample buffer of shape [n] or [channels, n].
// Rank 1 buffers are contiguous in either order.
type Signal struct {
	Data  []float64
	Shape []int
	Order Order
}

// Mono wraps data as a rank-1 signal without copying
func Mono(data []float64) Signal {
	return Signal{Data: data, Shape: []int{len(data)}, Order: ColMajor}
}

// Interleaved wraps frame-interleaved samples (L R L R ...) as a [channels, n]
// ColMajor signal without copying
func Interleaved(data []float64, channels int) (Signal, error) {
	if channels < 1 {
		return Signal{}, common.ValueError("interleaved", "channel count must be positive, got %d", channels)
	}
	if len(data)%channels != 0 {
		return Signal{}, common.ShapeError("interleaved",
			"buffer length %d is not a multiple of %d channels", len(data), channels)
	}
	return Signal{Data: data, Shape: []int{channels, len(data) / channels}, Order: ColMajor}, nil
}

// Planar copies per-channel slices into a [channels, n] ColMajor signal
func Planar(channels [][]float64) (Signal, error) {
	if len(channels) == 0 {
		return Signal{}, common.ShapeError("planar", "no channels")
	}
	n := len(channels[0])
	for c, ch := range channels {
		if len(ch) != n {
			return Signal{}, common.ShapeError("planar",
				"channel %d has %d samples, channel 0 has %d", c, len(ch), n)
		}
	}

	nch := len(channels)
	data := make([]float64, nch*n)
	for c, ch := range channels {
		for t, v := range ch {
			data[t*nch+c] = v
		}
	}
	return Signal{Data: data, Shape: []int{nch, n}, Order: ColMajor}, nil
}

// Rank is the number of dimensions
func (s Signal) Rank() int {
	return len(s.Shape)
}

// Channels is 1 for rank-1 signals
func (s Signal) Channels() int {
	if len(s.Shape) == 2 {
		return s.Shape[0]
	}
	return 1
}

// Len is the number of samples per channel
func (s Signal) Len() int {
	if len(s.Shape) == 0 {
		return 0
	}
	return s.Shape[len(s.Shape)-1]
}

// Strides returns the element stride of each dimension
func (s Signal) Strides() []int {
	switch len(s.Shape) {
	case 0:
		return []int{}
	case 1:
		return []int{1}
	}

	strides := make([]int, len(s.Shape))
	step := 1
	if s.Order == ColMajor {
		for i := range s.Shape {
			strides[i] = step
			step *= s.Shape[i]
		}
	} else {
		for i := len(s.Shape) - 1; i >= 0; i-- {
			strides[i] = step
			step *= s.Shape[i]
		}
	}
	return strides
}

// At returns sample t of channel c. Rank-1 signals ignore c.
func (s Signal) At(c, t int) float64 {
	if s.Rank() < 2 {
		return s.Data[t]
	}
	st := s.Strides()
	return s.Data[c*st[0]+t*st[1]]
}

func (s Signal) size() int {
	n := 1
	for _, d := range s.Shape {
		n *= d
	}
	return n
}

// ValidAudio checks that s can be analysed: rank 1 (or rank 2 unless mono is set),
// a buffer matching the shape, finite samples and an interleaved layout.
func ValidAudio(s Signal, mono bool) error {
	if mono && s.Rank() != 1 {
		return common.ValidationError("valid_audio", "invalid shape for monophonic audio: rank=%d, shape=%v", s.Rank(), s.Shape)
	}
	if s.Rank() < 1 || s.Rank() > 2 {
		return common.ValidationError("valid_audio",
			"audio data must have shape [samples] or [channels, samples], got %v", s.Shape)
	}
	for _, d := range s.Shape {
		if d < 0 {
			return common.ValidationError("valid_audio", "negative dimension in shape %v", s.Shape)
		}
	}
	if len(s.Data) != s.size() {
		return common.ValidationError("valid_audio", "buffer holds %d samples, shape %v needs %d", len(s.Data), s.Shape, s.size())
	}
	for _, v := range s.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return common.ValidationError("valid_audio", "audio buffer is not finite everywhere")
		}
	}
	if !fContiguous(s) {
		return common.ValidationError("valid_audio", "audio buffer is not interleaved; use Interleaved or Planar")
	}
	return nil
}
