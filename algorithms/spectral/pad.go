package spectral

import (
	"strings"

	"github.com/RyanBlaney/sonido-specshow/algorithms/common"
)

// PadMode selects how a signal is extended past its edges
type PadMode int

const (
	// PadReflect mirrors about the edge sample without repeating it: d c b | a b c d | c b a
	PadReflect PadMode = iota
	// PadConstant fills with zeros
	PadConstant
	// PadEdge repeats the edge sample
	PadEdge
	// PadSymmetric mirrors including the edge sample: c b a | a b c d | d c b
	PadSymmetric
	// PadWrap continues periodically from the other end
	PadWrap
)

func (m PadMode) String() string {
	switch m {
	case PadReflect:
		return "reflect"
	case PadConstant:
		return "constant"
	case PadEdge:
		return "edge"
	case PadSymmetric:
		return "symmetric"
	case PadWrap:
		return "wrap"
	default:
		return "unknown"
	}
}

// ParsePadMode maps a config string to a PadMode
func ParsePadMode(s string) (PadMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reflect", "":
		return PadReflect, nil
	case "constant", "zeros":
		return PadConstant, nil
	case "edge":
		return PadEdge, nil
	case "symmetric":
		return PadSymmetric, nil
	case "wrap":
		return PadWrap, nil
	default:
		return PadReflect, common.ValueError("pad", "unknown pad mode %q", s)
	}
}

// sourceIndex maps a position p outside [0, n) back into the signal.
// ok is false when the position is filled with zero.
func sourceIndex(p, n int, mode PadMode) (int, bool) {
	if p >= 0 && p < n {
		return p, true
	}

	switch mode {
	case PadConstant:
		return 0, false

	case PadEdge:
		if p < 0 {
			return 0, true
		}
		return n - 1, true

	case PadReflect:
		if n == 1 {
			return 0, true
		}
		period := 2 * (n - 1)
		p = common.Mod(p, period)
		if p >= n {
			p = period - p
		}
		return p, true

	case PadSymmetric:
		period := 2 * n
		p = common.Mod(p, period)
		if p >= n {
			p = period - 1 - p
		}
		return p, true

	case PadWrap:
		return common.Mod(p, n), true
	}

	return 0, false
}

// Pad extends every channel of sig by left and right samples along its last axis.
// The result is a new interleaved (ColMajor) signal.
func Pad(sig Signal, left, right int, mode PadMode) (Signal, error) {
	if left < 0 || right < 0 {
		return Signal{}, common.ValueError("pad", "pad widths must be non-negative, got (%d, %d)", left, right)
	}
	if mode < PadReflect || mode > PadWrap {
		return Signal{}, common.ValueError("pad", "unknown pad mode %d", int(mode))
	}

	n := sig.Len()
	if n == 0 && mode != PadConstant && left+right > 0 {
		return Signal{}, common.ShapeError("pad", "cannot %s-pad an empty signal", mode)
	}

	channels := sig.Channels()
	outLen := n + left + right
	out := make([]float64, outLen*channels)

	for c := range channels {
		for t := range outLen {
			src, ok := sourceIndex(t-left, n, mode)
			if ok {
				out[t*channels+c] = sig.At(c, src)
			}
		}
	}

	if sig.Rank() == 1 {
		return Mono(out), nil
	}
	return Signal{Data: out, Shape: []int{channels, outLen}, Order: ColMajor}, nil
}
