package windowing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/RyanBlaney/sonido-specshow/algorithms/common"
)

// Spec describes a window. It is one of Named, Custom or Generator.
type Spec interface {
	isSpec()
}

// Named selects a standard window shape by name, with optional shape parameters
// (Kaiser beta, Gaussian standard deviation in samples, Tukey alpha)
type Named struct {
	Name   string
	Params []float64
}

// Custom supplies explicit coefficients; their length must match the requested length
type Custom []float64

// Generator computes coefficients for a requested length
type Generator func(n int) []float64

func (Named) isSpec()     {}
func (Custom) isSpec()    {}
func (Generator) isSpec() {}

func (n Named) String() string {
	if len(n.Params) == 0 {
		return n.Name
	}
	parts := make([]string, 0, len(n.Params)+1)
	parts = append(parts, n.Name)
	for _, p := range n.Params {
		parts = append(parts, strconv.FormatFloat(p, 'g', -1, 64))
	}
	return strings.Join(parts, ":")
}

// Shape names
const (
	NameHann            = "hann"
	NameHamming         = "hamming"
	NameBlackman        = "blackman"
	NameBlackmanHarris  = "blackmanharris"
	NameNuttall         = "nuttall"
	NameBlackmanNuttall = "blackmannuttall"
	NameFlatTop         = "flattop"
	NameBartlettHann    = "bartletthann"
	NameTriangular      = "triang"
	NameSine            = "sine"
	NameLanczos         = "lanczos"
	NameRectangular     = "boxcar"
	NameGaussian        = "gaussian"
	NameTukey           = "tukey"
	NameKaiser          = "kaiser"
)

// Hann is the default analysis window
func Hann() Named { return Named{Name: NameHann} }

// Hamming window
func Hamming() Named { return Named{Name: NameHamming} }

// Rectangular window
func Rectangular() Named { return Named{Name: NameRectangular} }

// Kaiser window with shape parameter beta
func Kaiser(beta float64) Named { return Named{Name: NameKaiser, Params: []float64{beta}} }

// Gaussian window with standard deviation std, in samples
func Gaussian(std float64) Named { return Named{Name: NameGaussian, Params: []float64{std}} }

// Tukey window with taper fraction alpha
func Tukey(alpha float64) Named { return Named{Name: NameTukey, Params: []float64{alpha}} }

// Get resolves spec to n coefficients. With fftBins set, named shapes are
// periodic (n+1 symmetric points with the last dropped), as used for spectral
// analysis; otherwise they are symmetric.
func Get(spec Spec, n int, fftBins bool) ([]float64, error) {
	if n < 1 {
		return nil, common.ValueError("get_window", "window length must be positive, got %d", n)
	}

	switch s := spec.(type) {
	case Named:
		return named(s, n, fftBins)

	case Custom:
		if len(s) != n {
			return nil, common.SizeMismatchError("get_window",
				"window size mismatch: %d != %d", len(s), n)
		}
		out := make([]float64, n)
		copy(out, s)
		return out, nil

	case Generator:
		if s == nil {
			return nil, common.ValueError("get_window", "nil window generator")
		}
		out := s(n)
		if len(out) != n {
			return nil, common.SizeMismatchError("get_window",
				"generator returned %d coefficients, want %d", len(out), n)
		}
		return out, nil

	case nil:
		return nil, common.ValueError("get_window", "missing window specification")

	default:
		return nil, common.ValueError("get_window", "unsupported window specification %T", spec)
	}
}

// ParseSpec parses "name" or "name:param[:param...]", e.g. "hann", "kaiser:14", "tukey:0.25"
func ParseSpec(s string) (Named, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	name := normalizeName(parts[0])
	if name == "" {
		return Named{}, common.ValueError("parse_window", "empty window name")
	}
	if _, ok := shapes[name]; !ok {
		return Named{}, common.ValueError("parse_window", "unknown window %q", parts[0])
	}

	params := make([]float64, 0, len(parts)-1)
	for _, p := range parts[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Named{}, common.ValueError("parse_window", "invalid parameter %q for %s", p, name)
		}
		params = append(params, v)
	}

	return Named{Name: name, Params: params}, nil
}

// PadCenter zero-pads coeffs to size, centered. The left pad is (size-n)/2 and
// the remainder goes on the right.
func PadCenter(coeffs []float64, size int) ([]float64, error) {
	n := len(coeffs)
	if size < n {
		return nil, common.ValueError("pad_center", "target size (%d) must be at least input size (%d)", size, n)
	}

	out := make([]float64, size)
	copy(out[(size-n)/2:], coeffs)
	return out, nil
}

func normalizeName(name string) string {
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(name)))
}

func named(spec Named, n int, fftBins bool) ([]float64, error) {
	name := normalizeName(spec.Name)
	shape, ok := shapes[name]
	if !ok {
		return nil, common.ValueError("get_window", "unknown window %q", spec.Name)
	}

	if n == 1 {
		return []float64{1}, nil
	}

	m := n
	if fftBins {
		m = n + 1
	}

	w, err := shape(m, spec.Params)
	if err != nil {
		return nil, fmt.Errorf("%s window: %w", name, err)
	}
	return w[:n], nil
}
