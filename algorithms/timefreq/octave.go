package timefreq

import (
	"math"

	"github.com/RyanBlaney/sonido-specshow/logging"
)

type octaveOptions struct {
	tuning        float64
	binsPerOctave int
	a440          float64
	hasA440       bool
	logger        logging.Logger
}

// OctaveOption configures HzToOcts and OctsToHz
type OctaveOption func(*octaveOptions)

// WithTuning sets the tuning deviation from A440 in fractions of a bin
func WithTuning(tuning float64) OctaveOption {
	return func(o *octaveOptions) { o.tuning = tuning }
}

// WithBinsPerOctave sets the bin resolution used to interpret the tuning (default 12)
func WithBinsPerOctave(bpo int) OctaveOption {
	return func(o *octaveOptions) { o.binsPerOctave = bpo }
}

// WithA440 overrides the reference pitch directly.
//
// Deprecated: use WithTuning. Each use emits a warning diagnostic.
func WithA440(hz float64) OctaveOption {
	return func(o *octaveOptions) {
		o.a440 = hz
		o.hasA440 = true
	}
}

// WithOctaveLogger sets the diagnostics channel used for deprecation warnings
func WithOctaveLogger(l logging.Logger) OctaveOption {
	return func(o *octaveOptions) { o.logger = l }
}

func resolveReference(op string, opts []OctaveOption) float64 {
	o := octaveOptions{binsPerOctave: 12}
	for _, opt := range opts {
		opt(&o)
	}

	if o.hasA440 {
		logging.OrGlobal(o.logger, "timefreq").Warn("deprecated parameter A440, use tuning instead", logging.Fields{
			"function": op,
			"A440":     o.a440,
		})
		return o.a440
	}

	bpo := o.binsPerOctave
	if bpo <= 0 {
		bpo = 12
	}
	return 440.0 * math.Pow(2.0, o.tuning/float64(bpo))
}

// HzToOcts converts frequency to octave number, where octave 0 starts at A440/16 (about C0)
func HzToOcts(hz float64, opts ...OctaveOption) float64 {
	a440 := resolveReference("hz_to_octs", opts)
	return math.Log2(hz / (a440 / 16))
}

// OctsToHz is the inverse of HzToOcts
func OctsToHz(octs float64, opts ...OctaveOption) float64 {
	a440 := resolveReference("octs_to_hz", opts)
	return (a440 / 16) * math.Pow(2.0, octs)
}
