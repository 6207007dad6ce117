package display

import (
	vecmath "github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-specshow/algorithms/common"
	"github.com/RyanBlaney/sonido-specshow/algorithms/spectral"
	"github.com/RyanBlaney/sonido-specshow/algorithms/timefreq"
	"github.com/RyanBlaney/sonido-specshow/logging"
)

// WaveplotOptions configures Waveplot
type WaveplotOptions struct {
	// MaxPoints bounds the number of envelope points; 0 disables downsampling
	MaxPoints int
	// MaxSR bounds the envelope rate when downsampling
	MaxSR  int
	XAxis  AxisType
	Offset float64
	Color  string // empty takes the next color of the cycle
}

// DefaultWaveplotOptions returns 50000 points at most 1000 Hz on a time axis
func DefaultWaveplotOptions() WaveplotOptions {
	return WaveplotOptions{
		MaxPoints: 50000,
		MaxSR:     1000,
		XAxis:     AxisTime,
	}
}

// Envelope is what Waveplot drew: the upper envelope of the first channel
// and the negated envelope of the last, at Times
type Envelope struct {
	Times     []float64
	Upper     []float64
	Lower     []float64
	HopLength int
	Color     string
}

// Waveplot draws the amplitude envelope of sig. Long signals are reduced to
// the peak absolute value of consecutive blocks so that at most MaxPoints
// points are drawn at a rate no higher than MaxSR.
func Waveplot(ctx *Context, sig spectral.Signal, sampleRate int, opts WaveplotOptions) (*Envelope, error) {
	if err := spectral.ValidAudio(sig, false); err != nil {
		return nil, err
	}
	if opts.MaxSR < 1 {
		return nil, common.ValueError("waveplot", "max_sr must be a positive integer, got %d", opts.MaxSR)
	}
	if opts.MaxPoints < 0 {
		return nil, common.ValueError("waveplot", "max_points must be strictly positive, got %d", opts.MaxPoints)
	}
	if sampleRate < 1 {
		return nil, common.ValueError("waveplot", "sample rate must be positive, got %d", sampleRate)
	}
	dec, err := Decorate(opts.XAxis)
	if err != nil {
		return nil, err
	}

	n := sig.Len()
	hopLength := 1
	if opts.MaxPoints > 0 {
		targetSR := sampleRate
		if opts.MaxPoints < n {
			targetSR = min(opts.MaxSR, sampleRate*n/opts.MaxPoints)
		}
		hopLength = max(1, sampleRate/targetSR)
	}

	upper, lower, err := envelope(sig, hopLength)
	if err != nil {
		return nil, err
	}
	for i := range lower {
		lower[i] = -lower[i]
	}

	times := timefreq.TimesLike(len(upper), float64(sampleRate), hopLength, 0)
	floats.AddConst(opts.Offset, times)

	color := opts.Color
	if color == "" {
		color = ctx.NextColor()
	}

	if err := ctx.surface.FillBetween(times, lower, upper, color); err != nil {
		return nil, err
	}
	ctx.surface.SetLimits(XAxis, floats.Min(times), floats.Max(times))
	ctx.surface.SetDecoration(XAxis, dec)

	ctx.logger.Debug("waveplot drawn", logging.Fields{
		"samples":    n,
		"points":     len(times),
		"hop_length": hopLength,
	})

	return &Envelope{Times: times, Upper: upper, Lower: lower, HopLength: hopLength, Color: color}, nil
}

// envelope returns the per-block peak magnitude of the first and last channel
func envelope(sig spectral.Signal, hopLength int) (first, last []float64, err error) {
	frames, err := spectral.Frame(sig, hopLength, hopLength, -1)
	if err != nil {
		return nil, nil, err
	}

	peaks := func(channel int) []float64 {
		var rest []int
		if frames.Rank() == 3 {
			rest = []int{channel}
		}
		buf := make([]float64, hopLength)
		out := make([]float64, frames.NumFrames())
		for t := range out {
			out[t] = vecmath.MaxAbs(frames.CopyFrame(buf, t, rest...))
		}
		return out
	}

	return peaks(0), peaks(sig.Channels() - 1), nil
}
