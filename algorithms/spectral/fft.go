package spectral

import (
	"github.com/mjibson/go-dsp/fft"
)

// FFT computes real-input transforms of a fixed length with mjibson/go-dsp.
// go-dsp handles every size, including non-powers of two.
type FFT struct {
	size int
}

// NewFFT creates a transform for frames of size samples
func NewFFT(size int) *FFT {
	return &FFT{size: size}
}

// Size is the input length
func (f *FFT) Size() int { return f.size }

// Bins is the number of non-negative frequency bins, 1 + size/2
func (f *FFT) Bins() int { return 1 + f.size/2 }

// RFFT writes the Bins() non-negative frequency coefficients of frame into dst
// and returns dst[:Bins()]
func (f *FFT) RFFT(dst []complex128, frame []float64) []complex128 {
	spectrum := fft.FFTReal(frame[:f.size])
	dst = dst[:f.Bins()]
	copy(dst, spectrum)
	return dst
}
