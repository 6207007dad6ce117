package spectral

import (
	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/RyanBlaney/sonido-specshow/algorithms/common"
	"github.com/RyanBlaney/sonido-specshow/algorithms/windowing"
	"github.com/RyanBlaney/sonido-specshow/logging"
)

// MaxMemBlock bounds the bytes of output computed per block of frames (256 KiB)
const MaxMemBlock = 1 << 18

// DefaultFFTSize is the default transform length
const DefaultFFTSize = 2048

const complexBytes = 16

// STFT computes short-time Fourier transforms
type STFT struct {
	nFFT        int
	hopLength   int
	hopSet      bool
	winLength   int
	winSet      bool
	window      windowing.Spec
	center      bool
	padMode     PadMode
	maxMemBlock int
	logger      logging.Logger
}

// Option configures an STFT
type Option func(*STFT)

// WithFFTSize sets the transform length n_fft
func WithFFTSize(n int) Option {
	return func(s *STFT) { s.nFFT = n }
}

// WithHopLength sets the frame hop. The default is a quarter of the window length.
func WithHopLength(hop int) Option {
	return func(s *STFT) {
		s.hopLength = hop
		s.hopSet = true
	}
}

// WithWinLength sets the window length, at most n_fft. The default is n_fft.
func WithWinLength(n int) Option {
	return func(s *STFT) {
		s.winLength = n
		s.winSet = true
	}
}

// WithWindow sets the analysis window (default Hann)
func WithWindow(spec windowing.Spec) Option {
	return func(s *STFT) { s.window = spec }
}

// WithCenter controls whether frames are centered by padding n_fft/2 samples on each side
func WithCenter(center bool) Option {
	return func(s *STFT) { s.center = center }
}

// WithPadMode sets the edge extension used when centering
func WithPadMode(mode PadMode) Option {
	return func(s *STFT) { s.padMode = mode }
}

// WithMaxMemBlock sets the per-block output budget in bytes
func WithMaxMemBlock(bytes int) Option {
	return func(s *STFT) { s.maxMemBlock = bytes }
}

// WithLogger sets the diagnostics logger
func WithLogger(l logging.Logger) Option {
	return func(s *STFT) { s.logger = l }
}

// NewSTFT creates an STFT with n_fft 2048, Hann window, reflect-padded centering
func NewSTFT(opts ...Option) *STFT {
	s := &STFT{
		nFFT:        DefaultFFTSize,
		window:      windowing.Hann(),
		center:      true,
		padMode:     PadReflect,
		maxMemBlock: MaxMemBlock,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrGlobal(s.logger, "stft")
	return s
}

// ComputeSTFT is NewSTFT(WithFFTSize(nFFT), opts...).Compute(sig)
func ComputeSTFT(sig Signal, nFFT int, opts ...Option) (*Spectrogram, error) {
	return NewSTFT(append([]Option{WithFFTSize(nFFT)}, opts...)...).Compute(sig)
}

// params resolves the defaulted lengths and checks them
func (s *STFT) params() (winLength, hopLength int, err error) {
	if s.nFFT < 1 {
		return 0, 0, common.ValueError("stft", "n_fft must be positive, got %d", s.nFFT)
	}

	winLength = s.nFFT
	if s.winSet {
		winLength = s.winLength
	}
	if winLength < 1 || winLength > s.nFFT {
		return 0, 0, common.ValueError("stft", "win_length must be in [1, %d], got %d", s.nFFT, winLength)
	}

	hopLength = winLength / 4
	if s.hopSet {
		hopLength = s.hopLength
	}
	if hopLength < 1 {
		return 0, 0, common.ValueError("stft", "invalid hop_length: %d", hopLength)
	}

	if s.maxMemBlock < 1 {
		return 0, 0, common.ValueError("stft", "max_mem_block must be positive, got %d", s.maxMemBlock)
	}

	return winLength, hopLength, nil
}

// Compute returns the complex spectrogram of sig, with 1 + n_fft/2 bins per frame.
//
// Frames are windowed and transformed in blocks of columns whose output fits in
// the memory budget; the result does not depend on the block size.
func (s *STFT) Compute(sig Signal) (*Spectrogram, error) {
	winLength, hopLength, err := s.params()
	if err != nil {
		return nil, err
	}

	win, err := windowing.Get(s.window, winLength, true)
	if err != nil {
		return nil, err
	}
	win, err = windowing.PadCenter(win, s.nFFT)
	if err != nil {
		return nil, err
	}

	if err := ValidAudio(sig, false); err != nil {
		return nil, err
	}

	padded := sig
	if s.center {
		padded, err = Pad(sig, s.nFFT/2, s.nFFT/2, s.padMode)
		if err != nil {
			return nil, err
		}
	}

	frames, err := Frame(padded, s.nFFT, hopLength, -1)
	if err != nil {
		return nil, err
	}

	transform := NewFFT(s.nFFT)
	bins := transform.Bins()
	nFrames := frames.NumFrames()
	channels := padded.Channels()

	out := &Spectrogram{
		Channels:  channels,
		Bins:      bins,
		Frames:    nFrames,
		Data:      make([]complex128, channels*nFrames*bins),
		NFFT:      s.nFFT,
		HopLength: hopLength,
		WinLength: winLength,
		Center:    s.center,
	}

	nColumns := max(1, s.maxMemBlock/(bins*complexBytes))
	nColumns = min(nColumns, nFrames)
	scratch := make([]float64, nColumns*s.nFFT)

	var rest []int
	for c := range channels {
		if frames.Rank() == 3 {
			rest = []int{c}
		}

		for start := 0; start < nFrames; start += nColumns {
			stop := min(start+nColumns, nFrames)

			for t := start; t < stop; t++ {
				buf := scratch[(t-start)*s.nFFT : (t-start+1)*s.nFFT]
				frames.CopyFrame(buf, t, rest...)
				vecmath.MulBlockInPlace(buf, win)
			}

			for t := start; t < stop; t++ {
				buf := scratch[(t-start)*s.nFFT : (t-start+1)*s.nFFT]
				transform.RFFT(out.Column(c, t), buf)
			}
		}
	}

	s.logger.Debug("stft computed", logging.Fields{
		"n_fft":      s.nFFT,
		"hop_length": hopLength,
		"win_length": winLength,
		"frames":     nFrames,
		"channels":   channels,
		"block_cols": nColumns,
	})

	return out, nil
}
