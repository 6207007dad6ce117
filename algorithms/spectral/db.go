package spectral

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-specshow/algorithms/common"
	"github.com/RyanBlaney/sonido-specshow/logging"
)

// Level conversion defaults
const (
	DefaultPowerAmin     = 1e-10
	DefaultAmplitudeAmin = 1e-5
	DefaultTopDB         = 80.0
)

type dbOptions struct {
	ref     float64
	refFunc func(*mat.Dense) float64
	amin    float64
	aminSet bool
	topDB   float64
	clamp   bool
	logger  logging.Logger
}

// DBOption configures the decibel conversions
type DBOption func(*dbOptions)

// WithRef scales relative to a fixed reference; its absolute value is used
func WithRef(ref float64) DBOption {
	return func(o *dbOptions) {
		o.ref = ref
		o.refFunc = nil
	}
}

// WithRefFunc computes the reference from the input magnitudes, e.g. RefMax
func WithRefFunc(fn func(*mat.Dense) float64) DBOption {
	return func(o *dbOptions) { o.refFunc = fn }
}

// WithAmin sets the floor applied before taking logarithms; it must be positive
func WithAmin(amin float64) DBOption {
	return func(o *dbOptions) {
		o.amin = amin
		o.aminSet = true
	}
}

// WithTopDB clamps the output to at least max(output) - topDB
func WithTopDB(topDB float64) DBOption {
	return func(o *dbOptions) {
		o.topDB = topDB
		o.clamp = true
	}
}

// WithoutTopDB disables the dynamic range clamp
func WithoutTopDB() DBOption {
	return func(o *dbOptions) { o.clamp = false }
}

// WithDBLogger sets the diagnostics logger
func WithDBLogger(l logging.Logger) DBOption {
	return func(o *dbOptions) { o.logger = l }
}

// RefMax uses the largest input value as the reference
func RefMax(m *mat.Dense) float64 {
	return mat.Max(m)
}

func newDBOptions(defaultAmin float64, opts []DBOption) (*dbOptions, error) {
	o := &dbOptions{
		ref:   1.0,
		amin:  defaultAmin,
		topDB: DefaultTopDB,
		clamp: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = logging.OrGlobal(o.logger, "db")

	if !(o.amin > 0) {
		return nil, common.ValueError("power_to_db", "amin must be strictly positive, got %g", o.amin)
	}
	if o.clamp && !(o.topDB >= 0) {
		return nil, common.ValueError("power_to_db", "top_db must be non-negative, got %g", o.topDB)
	}
	return o, nil
}

func (o *dbOptions) refValue(magnitude *mat.Dense) float64 {
	if o.refFunc != nil {
		return o.refFunc(magnitude)
	}
	return math.Abs(o.ref)
}

// powerToDB assumes validated options and a resolved reference
func powerToDB(power *mat.Dense, ref, amin, topDB float64, clamp bool) *mat.Dense {
	offset := 10.0 * math.Log10(math.Max(amin, ref))

	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 {
		return 10.0*math.Log10(math.Max(amin, v)) - offset
	}, power)

	if clamp {
		floor := mat.Max(&out) - topDB
		out.Apply(func(_, _ int, v float64) float64 {
			return math.Max(v, floor)
		}, &out)
	}
	return &out
}

// PowerToDB converts a power matrix to decibels:
//
//	10*log10(max(amin, S)) - 10*log10(max(amin, ref))
//
// then, unless disabled, clamps from below at max(result) - top_db.
// Defaults: ref 1.0, amin 1e-10, top_db 80.
func PowerToDB(S *mat.Dense, opts ...DBOption) (*mat.Dense, error) {
	o, err := newDBOptions(DefaultPowerAmin, opts)
	if err != nil {
		return nil, err
	}
	if isEmpty(S) {
		return nil, common.ShapeError("power_to_db", "empty input matrix")
	}
	return powerToDB(S, o.refValue(S), o.amin, o.topDB, o.clamp), nil
}

// PowerToDBComplex converts |S| of a single-channel spectrogram to decibels.
// Phase is discarded and a warning diagnostic reports it; pass S.Power() to
// PowerToDB to avoid the warning.
func PowerToDBComplex(S *Spectrogram, opts ...DBOption) (*mat.Dense, error) {
	o, err := newDBOptions(DefaultPowerAmin, opts)
	if err != nil {
		return nil, err
	}
	magnitude, err := S.Magnitude()
	if err != nil {
		return nil, err
	}

	o.logger.Warn("power_to_db was called on complex input so phase information will be discarded", logging.Fields{
		"bins":   S.Bins,
		"frames": S.Frames,
	})

	return powerToDB(magnitude, o.refValue(magnitude), o.amin, o.topDB, o.clamp), nil
}

// AmplitudeToDB converts an amplitude matrix to decibels, equivalent to
// PowerToDB(|S|^2) with ref and amin squared. The default amin is 1e-5.
func AmplitudeToDB(S *mat.Dense, opts ...DBOption) (*mat.Dense, error) {
	o, err := newDBOptions(DefaultAmplitudeAmin, opts)
	if err != nil {
		return nil, err
	}
	if isEmpty(S) {
		return nil, common.ShapeError("amplitude_to_db", "empty input matrix")
	}

	var magnitude mat.Dense
	magnitude.Apply(func(_, _ int, v float64) float64 { return math.Abs(v) }, S)

	ref := o.refValue(&magnitude)

	var power mat.Dense
	power.MulElem(&magnitude, &magnitude)

	return powerToDB(&power, ref*ref, o.amin*o.amin, o.topDB, o.clamp), nil
}

// DBToPower inverts PowerToDB without clamping: ref * 10^(S/10)
func DBToPower(S *mat.Dense, ref float64) *mat.Dense {
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 {
		return ref * math.Pow(10.0, 0.1*v)
	}, S)
	return &out
}

// DBToAmplitude inverts AmplitudeToDB without clamping
func DBToAmplitude(S *mat.Dense, ref float64) *mat.Dense {
	out := DBToPower(S, ref*ref)
	out.Apply(func(_, _ int, v float64) float64 { return math.Sqrt(v) }, out)
	return out
}

func isEmpty(m *mat.Dense) bool {
	if m == nil {
		return true
	}
	return m.IsEmpty()
}
