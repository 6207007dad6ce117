package windowing

import (
	"math"

	"gonum.org/v1/gonum/dsp/window"

	"github.com/RyanBlaney/sonido-specshow/algorithms/common"
)

// shapeFunc returns m symmetric coefficients
type shapeFunc func(m int, params []float64) ([]float64, error)

var shapes = map[string]shapeFunc{}

func init() {
	plain := map[string]func([]float64) []float64{
		NameHann:            window.Hann,
		"hanning":           window.Hann,
		NameHamming:         window.Hamming,
		NameBlackman:        window.Blackman,
		NameBlackmanHarris:  window.BlackmanHarris,
		NameNuttall:         window.Nuttall,
		NameBlackmanNuttall: window.BlackmanNuttall,
		NameFlatTop:         window.FlatTop,
		NameBartlettHann:    window.BartlettHann,
		NameTriangular:      window.Triangular,
		"triangular":        window.Triangular,
		"bartlett":          window.Triangular,
		NameSine:            window.Sine,
		"cosine":            window.Sine,
		NameLanczos:         window.Lanczos,
		NameRectangular:     window.Rectangular,
		"rectangular":       window.Rectangular,
		"ones":              window.Rectangular,
	}
	for name, fn := range plain {
		shapes[name] = transform(fn)
	}

	shapes[NameGaussian] = gaussian
	shapes[NameTukey] = tukey
	shapes[NameKaiser] = kaiser
}

func ones(m int) []float64 {
	seq := make([]float64, m)
	for i := range seq {
		seq[i] = 1
	}
	return seq
}

func transform(fn func([]float64) []float64) shapeFunc {
	return func(m int, _ []float64) ([]float64, error) {
		if m == 1 {
			return []float64{1}, nil
		}
		return fn(ones(m)), nil
	}
}

func gaussian(m int, params []float64) ([]float64, error) {
	if len(params) < 1 {
		return nil, common.ValueError("get_window", "gaussian window requires a standard deviation")
	}
	std := params[0]
	if std <= 0 {
		return nil, common.ValueError("get_window", "gaussian standard deviation must be positive, got %g", std)
	}
	if m == 1 {
		return []float64{1}, nil
	}

	// the window's sigma is relative to the half-length
	half := float64(m-1) / 2
	return window.Gaussian{Sigma: std / half}.Transform(ones(m)), nil
}

func tukey(m int, params []float64) ([]float64, error) {
	alpha := 0.5
	if len(params) > 0 {
		alpha = params[0]
	}
	if m == 1 {
		return []float64{1}, nil
	}
	return window.Tukey{Alpha: alpha}.Transform(ones(m)), nil
}

func kaiser(m int, params []float64) ([]float64, error) {
	if len(params) < 1 {
		return nil, common.ValueError("get_window", "kaiser window requires a beta parameter")
	}
	beta := params[0]
	if m == 1 {
		return []float64{1}, nil
	}

	coeffs := make([]float64, m)
	i0Beta := besselI0(beta)
	denominator := float64(m - 1)

	for i := range coeffs {
		arg := 2.0*float64(i)/denominator - 1.0
		coeffs[i] = besselI0(beta*math.Sqrt(1-arg*arg)) / i0Beta
	}
	return coeffs, nil
}

// besselI0 is the zero-order modified Bessel function of the first kind, by power series
func besselI0(x float64) float64 {
	sum := 1.0
	term := 1.0

	for i := 1; i < 500; i++ {
		half := x / (2.0 * float64(i))
		term *= half * half
		sum += term

		if term < 1e-17*sum {
			break
		}
	}

	return sum
}
