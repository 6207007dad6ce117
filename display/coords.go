package display

import (
	"math"

	"github.com/RyanBlaney/sonido-specshow/algorithms/common"
	"github.com/RyanBlaney/sonido-specshow/algorithms/timefreq"
)

// CoordParams describes how bins along an axis were produced.
// Zero FMin/FMax select the generator defaults (mel: 0 and 11025 Hz, cqt: C1).
type CoordParams struct {
	SampleRate    float64
	HopLength     int
	FMin          float64
	FMax          float64
	Tuning        float64
	BinsPerOctave int
	HTK           bool
}

const defaultMelFMax = 11025.0

// DefaultCoordParams matches a default STFT of 22050 Hz audio
func DefaultCoordParams() CoordParams {
	return CoordParams{
		SampleRate:    22050,
		HopLength:     512,
		BinsPerOctave: 12,
	}
}

type coordFunc func(n int, p CoordParams) []float64

var coordFuncs = map[AxisType]coordFunc{
	AxisLinear:       fftCoords,
	AxisHz:           fftCoords,
	AxisLog:          fftCoords,
	AxisMel:          melCoords,
	AxisCQT:          cqtCoords,
	AxisCQTHz:        cqtCoords,
	AxisCQTNote:      cqtCoords,
	AxisChroma:       chromaCoords,
	AxisTime:         timeCoords,
	AxisSeconds:      timeCoords,
	AxisMilliseconds: timeCoords,
	AxisLag:          timeCoords,
	AxisLagSeconds:   timeCoords,
	AxisLagMillis:    timeCoords,
	AxisTonnetz:      indexCoords,
	AxisOff:          indexCoords,
	AxisFrames:       indexCoords,
	AxisNone:         indexCoords,
	AxisTempo:        tempoCoords,
	AxisFourierTempo: fourierTempoCoords,
}

// MeshCoords returns the n+1 cell edges of an axis with n bins.
//
// Explicit coordinates, when non-nil, are returned as a copy and must hold at
// least n values. Otherwise the edges are generated from the bin centers of
// the axis type, shifted by half a bin so each cell is centered on the value
// it represents.
func MeshCoords(axis AxisType, explicit []float64, n int, p CoordParams) ([]float64, error) {
	if n < 1 {
		return nil, common.ShapeError("mesh_coords", "need at least one bin, got %d", n)
	}

	if explicit != nil {
		if len(explicit) < n {
			return nil, common.ShapeError("mesh_coords", "coordinate shape mismatch: %d<%d", len(explicit), n)
		}
		return append([]float64(nil), explicit...), nil
	}

	if axis == "" {
		axis = AxisNone
	}
	fn, ok := coordFuncs[axis]
	if !ok {
		return nil, common.ValueError("mesh_coords", "unknown axis type: %q", axis)
	}
	if err := p.validate(axis); err != nil {
		return nil, err
	}
	return fn(n, p), nil
}

func (p CoordParams) validate(axis AxisType) error {
	switch axis {
	case AxisLinear, AxisHz, AxisLog, AxisTime, AxisSeconds, AxisMilliseconds,
		AxisLag, AxisLagSeconds, AxisLagMillis, AxisTempo, AxisFourierTempo:
		if !(p.SampleRate > 0) {
			return common.ValueError("mesh_coords", "sample rate must be positive, got %g", p.SampleRate)
		}
	}
	switch axis {
	case AxisTime, AxisSeconds, AxisMilliseconds, AxisLag, AxisLagSeconds, AxisLagMillis,
		AxisTempo, AxisFourierTempo:
		if p.HopLength < 1 {
			return common.ValueError("mesh_coords", "hop length must be positive, got %d", p.HopLength)
		}
	case AxisCQT, AxisCQTHz, AxisCQTNote, AxisChroma:
		if p.BinsPerOctave < 1 {
			return common.ValueError("mesh_coords", "bins per octave must be positive, got %d", p.BinsPerOctave)
		}
	case AxisMel:
		if p.FMin < 0 || p.melFMax() < p.FMin {
			return common.ValueError("mesh_coords", "invalid mel range [%g, %g]", p.FMin, p.melFMax())
		}
	}
	return nil
}

func (p CoordParams) melFMax() float64 {
	if p.FMax == 0 {
		return defaultMelFMax
	}
	return p.FMax
}

// halfBinEdges turns linearly spaced centers into edges: shift down by half a
// bin, clamp at zero and close with the last center
func halfBinEdges(centers []float64) []float64 {
	top := centers[len(centers)-1]
	width := 0.0
	if len(centers) > 1 {
		width = centers[1] - centers[0]
	}

	edges := make([]float64, len(centers), len(centers)+1)
	for i, c := range centers {
		edges[i] = math.Max(0, c-0.5*width)
	}
	return append(edges, top)
}

func fftCoords(n int, p CoordParams) []float64 {
	return halfBinEdges(timefreq.FFTFrequencies(p.SampleRate, 2*(n-1)))
}

func fourierTempoCoords(n int, p CoordParams) []float64 {
	return halfBinEdges(timefreq.FourierTempoFrequencies(p.SampleRate, 2*(n-1), p.HopLength))
}

func melCoords(n int, p CoordParams) []float64 {
	fmax := p.melFMax()
	centers := timefreq.MelFrequencies(n, p.FMin, fmax, p.HTK)
	widths := common.Diff(centers)

	edges := make([]float64, n, n+1)
	edges[0] = math.Max(0, centers[0])
	for i := 1; i < n; i++ {
		edges[i] = math.Max(0, centers[i]-0.5*widths[i-1])
	}
	return append(edges, fmax)
}

func cqtCoords(n int, p CoordParams) []float64 {
	fmin := p.FMin
	if fmin == 0 {
		fmin = timefreq.MIDIToHz(24) // C1
	}
	bpo := float64(p.BinsPerOctave)
	return timefreq.CQTFrequencies(n+1, fmin/math.Pow(2.0, 0.5/bpo), p.BinsPerOctave, p.Tuning)
}

func chromaCoords(n int, p CoordParams) []float64 {
	return common.Linspace(0, 12.0*float64(n)/float64(p.BinsPerOctave), n+1)
}

func timeCoords(n int, p CoordParams) []float64 {
	edges := make([]float64, n+1)
	for i := range edges {
		edges[i] = timefreq.FramesToTime(i, p.SampleRate, p.HopLength, 0)
	}
	return edges
}

func indexCoords(n int, _ CoordParams) []float64 {
	return common.Arange(n + 1)
}

// tempoCoords widens each lag bin by (k+0.5)/k. The edges are in BPM and so
// decrease with lag.
func tempoCoords(n int, p CoordParams) []float64 {
	basis := timefreq.TempoFrequencies(n+2, p.HopLength, p.SampleRate)[1:]
	for i := range basis {
		k := float64(i + 1)
		basis[i] *= (k + 0.5) / k
	}
	return basis
}
