package spectral

import (
	"fmt"

	"github.com/RyanBlaney/sonido-specshow/algorithms/common"
)

// FrameView is a non-copying view of overlapping frames over a Signal's buffer.
// It reads the caller's samples directly, so the Signal must outlive it.
type FrameView struct {
	data       []float64
	shape      []int
	strides    []int
	frameAxis  int
	sampleAxis int
}

// nonTrivialDims counts dimensions longer than one sample
func nonTrivialDims(shape []int) int {
	n := 0
	for _, d := range shape {
		if d > 1 {
			n++
		}
	}
	return n
}

// fContiguous reports whether the first axis varies fastest in memory
func fContiguous(s Signal) bool {
	return s.Rank() <= 1 || s.Order == ColMajor || nonTrivialDims(s.Shape) <= 1
}

// cContiguous reports whether the last axis varies fastest in memory
func cContiguous(s Signal) bool {
	return s.Rank() <= 1 || s.Order == RowMajor || nonTrivialDims(s.Shape) <= 1
}

// Frame slices sig into overlapping frames of frameLength samples, hopLength apart,
// along axis 0 or -1, without copying.
//
// Framing along -1 needs interleaved (ColMajor) data and yields shape
// [..., frameLength, nFrames]; framing along 0 needs RowMajor data and yields
// [nFrames, frameLength, ...]. Frame i starts at sample i*hopLength and
// nFrames = 1 + (n - frameLength) / hopLength.
func Frame(sig Signal, frameLength, hopLength, axis int) (*FrameView, error) {
	rank := sig.Rank()
	if rank == 0 {
		return nil, common.ShapeError("frame", "cannot frame a rank-0 signal")
	}
	// a rank-1 signal has one length whatever the axis
	if rank == 1 && sig.Shape[0] < frameLength {
		return nil, common.ShapeError("frame", "input is too short (n=%d) for frame_length=%d", sig.Shape[0], frameLength)
	}
	if axis < -rank || axis >= rank {
		return nil, common.ValueError("frame", "frame axis=%d must be either 0 or -1", axis)
	}

	ax := axis
	if ax < 0 {
		ax += rank
	}
	n := sig.Shape[ax]

	if n < frameLength {
		return nil, common.ShapeError("frame", "input is too short (n=%d) for frame_length=%d", n, frameLength)
	}
	if hopLength < 1 {
		return nil, common.ValueError("frame", "invalid hop_length: %d", hopLength)
	}
	if frameLength < 1 {
		return nil, common.ValueError("frame", "invalid frame_length: %d", frameLength)
	}

	nFrames := 1 + (n-frameLength)/hopLength

	srcStrides := sig.Strides()
	// product of the strides of the non-trivial source dimensions
	newStride := 1
	for i, st := range srcStrides {
		if st > 0 && sig.Shape[i] > 1 {
			newStride *= st
		}
	}

	view := &FrameView{data: sig.Data}

	switch axis {
	case -1:
		if !fContiguous(sig) {
			return nil, common.LayoutError("frame", "input must be interleaved (col-major) for framing along axis=%d", axis)
		}
		view.shape = append(append([]int{}, sig.Shape[:rank-1]...), frameLength, nFrames)
		view.strides = append(append([]int{}, srcStrides...), hopLength*newStride)
		view.sampleAxis = rank - 1
		view.frameAxis = rank

	case 0:
		if !cContiguous(sig) {
			return nil, common.LayoutError("frame", "input must be row-major for framing along axis=%d", axis)
		}
		view.shape = append([]int{nFrames, frameLength}, sig.Shape[1:]...)
		view.strides = append([]int{hopLength * newStride}, srcStrides...)
		view.frameAxis = 0
		view.sampleAxis = 1

	default:
		return nil, common.ValueError("frame", "frame axis=%d must be either 0 or -1", axis)
	}

	return view, nil
}

// Shape returns the view's dimensions
func (v *FrameView) Shape() []int {
	return append([]int{}, v.shape...)
}

// Strides returns the element stride of each view dimension
func (v *FrameView) Strides() []int {
	return append([]int{}, v.strides...)
}

func (v *FrameView) Rank() int        { return len(v.shape) }
func (v *FrameView) NumFrames() int   { return v.shape[v.frameAxis] }
func (v *FrameView) FrameLength() int { return v.shape[v.sampleAxis] }

// At indexes the view like an array of its Shape
func (v *FrameView) At(idx ...int) float64 {
	if len(idx) != len(v.shape) {
		panic(fmt.Sprintf("spectral: %d indices for a rank-%d frame view", len(idx), len(v.shape)))
	}
	off := 0
	for i, x := range idx {
		if x < 0 || x >= v.shape[i] {
			panic(fmt.Sprintf("spectral: index %d out of range [0, %d) on axis %d", x, v.shape[i], i))
		}
		off += x * v.strides[i]
	}
	return v.data[off]
}

// base returns the buffer offset of the first sample of frame, with the other
// (channel) indices given in view order
func (v *FrameView) base(frame int, rest []int) int {
	if frame < 0 || frame >= v.NumFrames() {
		panic(fmt.Sprintf("spectral: frame %d out of range [0, %d)", frame, v.NumFrames()))
	}
	if len(rest) != len(v.shape)-2 {
		panic(fmt.Sprintf("spectral: %d channel indices for a rank-%d frame view", len(rest), len(v.shape)))
	}

	off := frame * v.strides[v.frameAxis]
	r := 0
	for i := range v.shape {
		if i == v.frameAxis || i == v.sampleAxis {
			continue
		}
		if rest[r] < 0 || rest[r] >= v.shape[i] {
			panic(fmt.Sprintf("spectral: index %d out of range [0, %d) on axis %d", rest[r], v.shape[i], i))
		}
		off += rest[r] * v.strides[i]
		r++
	}
	return off
}

// CopyFrame gathers one frame into dst and returns dst[:FrameLength()].
// rest selects the channel for views over rank-2 signals.
func (v *FrameView) CopyFrame(dst []float64, frame int, rest ...int) []float64 {
	off := v.base(frame, rest)
	step := v.strides[v.sampleAxis]
	n := v.FrameLength()

	dst = dst[:n]
	if step == 1 {
		copy(dst, v.data[off:off+n])
		return dst
	}
	for j := range dst {
		dst[j] = v.data[off+j*step]
	}
	return dst
}

// Frame returns frame i as a sub-slice of the source buffer. It returns nil
// unless the view was built over a rank-1 signal.
func (v *FrameView) Frame(i int) []float64 {
	if len(v.shape) != 2 || v.strides[v.sampleAxis] != 1 {
		return nil
	}
	off := v.base(i, nil)
	n := v.FrameLength()
	return v.data[off : off+n : off+n]
}
