// Package chroma folds power spectrograms onto the twelve pitch classes and
// projects chromagrams into tonal centroid (tonnetz) space.
package chroma

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-specshow/algorithms/common"
	"github.com/RyanBlaney/sonido-specshow/algorithms/timefreq"
)

// Bins is the number of pitch classes, C through B
const Bins = 12

// Default frequency range folded into the chromagram
const (
	DefaultMinFreq = 80.0   // about E2
	DefaultMaxFreq = 8000.0 // high enough for harmonics
)

type options struct {
	tuning  float64
	minFreq float64
	maxFreq float64
}

// Option configures FromPower
type Option func(*options)

// WithTuning shifts the pitch-class boundaries by a fraction of a semitone
func WithTuning(tuning float64) Option {
	return func(o *options) { o.tuning = tuning }
}

// WithRange restricts the FFT bins that contribute to [minFreq, maxFreq]
func WithRange(minFreq, maxFreq float64) Option {
	return func(o *options) {
		o.minFreq = minFreq
		o.maxFreq = maxFreq
	}
}

// FromPower folds a bins x frames power spectrogram with 1 + nFFT/2 rows
// into a 12 x frames chromagram. Each bin's energy goes to the pitch class
// of its nearest semitone, and every frame is normalized to unit sum.
// Silent frames stay zero.
func FromPower(power *mat.Dense, sampleRate float64, nFFT int, opts ...Option) (*mat.Dense, error) {
	o := options{minFreq: DefaultMinFreq, maxFreq: DefaultMaxFreq}
	for _, opt := range opts {
		opt(&o)
	}

	if power == nil || power.IsEmpty() {
		return nil, common.ShapeError("chroma", "empty spectrogram")
	}
	if !(sampleRate > 0) {
		return nil, common.ValueError("chroma", "sample rate must be positive, got %g", sampleRate)
	}
	if !(o.minFreq >= 0) || !(o.maxFreq > o.minFreq) {
		return nil, common.ValueError("chroma", "invalid frequency range [%g, %g]", o.minFreq, o.maxFreq)
	}

	rows, frames := power.Dims()
	freqs := timefreq.FFTFrequencies(sampleRate, nFFT)
	if rows != len(freqs) {
		return nil, common.ShapeError("chroma", "spectrogram has %d bins, n_fft=%d gives %d", rows, nFFT, len(freqs))
	}

	mapping := pitchClasses(freqs, o)

	out := mat.NewDense(Bins, frames, nil)
	col := make([]float64, rows)
	frame := make([]float64, Bins)
	for t := range frames {
		mat.Col(col, t, power)
		clear(frame)
		for k, pc := range mapping {
			if pc >= 0 {
				frame[pc] += col[k]
			}
		}
		if total := floats.Sum(frame); total > 1e-10 {
			floats.Scale(1/total, frame)
		}
		out.SetCol(t, frame)
	}
	return out, nil
}

// pitchClasses maps each FFT bin to its pitch class, or -1 outside the range
func pitchClasses(freqs []float64, o options) []int {
	mapping := make([]int, len(freqs))
	for k, f := range freqs {
		if f <= 0 || f < o.minFreq || f > o.maxFreq {
			mapping[k] = -1
			continue
		}
		midi := timefreq.HzToMIDI(f) - o.tuning
		mapping[k] = common.Mod(int(math.Round(midi)), Bins)
	}
	return mapping
}

// Dominant returns the strongest pitch class of each frame. Ties go to the
// lower class.
func Dominant(chroma *mat.Dense) []int {
	_, frames := chroma.Dims()
	out := make([]int, frames)
	col := make([]float64, Bins)
	for t := range frames {
		mat.Col(col, t, chroma)
		out[t] = floats.MaxIdx(col)
	}
	return out
}

// Histogram counts how often each pitch class dominates
func Histogram(dominant []int) [Bins]int {
	var counts [Bins]int
	for _, pc := range dominant {
		counts[common.Mod(pc, Bins)]++
	}
	return counts
}
