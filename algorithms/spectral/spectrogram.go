package spectral

import (
	"fmt"

	vecmath "github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-specshow/algorithms/common"
)

// Spectrogram is a complex STFT matrix per channel. Rows are frequency bins
// from DC to Nyquist and columns are frames in time order. Each column is
// contiguous: bin k of frame t of channel c is Data[(c*Frames+t)*Bins+k].
type Spectrogram struct {
	Channels int
	Bins     int
	Frames   int
	Data     []complex128

	NFFT      int
	HopLength int
	WinLength int
	Center    bool
}

func (s *Spectrogram) index(c, k, t int) int {
	if c < 0 || c >= s.Channels || k < 0 || k >= s.Bins || t < 0 || t >= s.Frames {
		panic(fmt.Sprintf("spectral: index (%d, %d, %d) out of range for %dx%dx%d spectrogram",
			c, k, t, s.Channels, s.Bins, s.Frames))
	}
	return (c*s.Frames+t)*s.Bins + k
}

// At returns bin k of frame t of the first channel
func (s *Spectrogram) At(k, t int) complex128 {
	return s.Data[s.index(0, k, t)]
}

// AtChannel returns bin k of frame t of channel c
func (s *Spectrogram) AtChannel(c, k, t int) complex128 {
	return s.Data[s.index(c, k, t)]
}

// Column returns frame t of channel c as a view into Data
func (s *Spectrogram) Column(c, t int) []complex128 {
	start := s.index(c, 0, t)
	return s.Data[start : start+s.Bins : start+s.Bins]
}

// Channel returns a single-channel view sharing Data
func (s *Spectrogram) Channel(c int) *Spectrogram {
	if c < 0 || c >= s.Channels {
		panic(fmt.Sprintf("spectral: channel %d out of range [0, %d)", c, s.Channels))
	}
	size := s.Frames * s.Bins
	view := *s
	view.Channels = 1
	view.Data = s.Data[c*size : (c+1)*size : (c+1)*size]
	return &view
}

// Magnitude returns |S| as a bins x frames matrix. Multi-channel spectrograms
// must be split with Channel first.
func (s *Spectrogram) Magnitude() (*mat.Dense, error) {
	return s.real("magnitude", vecmath.Magnitude)
}

// Power returns |S|^2 as a bins x frames matrix
func (s *Spectrogram) Power() (*mat.Dense, error) {
	return s.real("power", vecmath.Power)
}

func (s *Spectrogram) real(op string, kernel func(dst, re, im []float64)) (*mat.Dense, error) {
	if s.Channels != 1 {
		return nil, common.ShapeError(op, "spectrogram has %d channels; select one with Channel", s.Channels)
	}
	if s.Bins < 1 || s.Frames < 1 {
		return nil, common.ShapeError(op, "empty spectrogram (%d x %d)", s.Bins, s.Frames)
	}

	re := make([]float64, s.Bins)
	im := make([]float64, s.Bins)
	col := make([]float64, s.Bins)

	out := mat.NewDense(s.Bins, s.Frames, nil)
	for t := range s.Frames {
		for k, v := range s.Column(0, t) {
			re[k] = real(v)
			im[k] = imag(v)
		}
		kernel(col, re, im)
		out.SetCol(t, col)
	}
	return out, nil
}
