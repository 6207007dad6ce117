package stats

import (
	"math"
	"sort"

	"github.com/RyanBlaney/sonido-specshow/algorithms/common"
)

// PercentileMethod selects how a percentile falling between two ranks is resolved
type PercentileMethod int

const (
	// Linear interpolation between closest ranks: h = (n-1)*q
	Linear PercentileMethod = iota

	// Lower value of the two closest ranks
	Lower

	// Higher value of the two closest ranks
	Higher

	// Midpoint of the two closest ranks
	Midpoint

	// Nearest rank, ties to the even index
	Nearest
)

func (m PercentileMethod) String() string {
	switch m {
	case Linear:
		return "linear"
	case Lower:
		return "lower"
	case Higher:
		return "higher"
	case Midpoint:
		return "midpoint"
	case Nearest:
		return "nearest"
	default:
		return "unknown"
	}
}

// Percentiles computes order statistics of sample data.
//
// All methods place percentile p at fractional rank h = (n-1)*p/100 of the
// sorted data and differ only in how a non-integer h is resolved.
type Percentiles struct {
	method PercentileMethod
}

// NewPercentiles creates a percentile calculator with linear interpolation
func NewPercentiles() *Percentiles {
	return &Percentiles{method: Linear}
}

// NewPercentilesWithMethod creates a percentile calculator with the given method
func NewPercentilesWithMethod(method PercentileMethod) *Percentiles {
	return &Percentiles{method: method}
}

// CalculatePercentile computes a single percentile of data without modifying it
func (p *Percentiles) CalculatePercentile(data []float64, percentile float64) (float64, error) {
	values, err := p.Range(data, percentile)
	if err != nil {
		return 0, err
	}
	return values[0], nil
}

// Range computes several percentiles of data with a single sort
func (p *Percentiles) Range(data []float64, percentiles ...float64) ([]float64, error) {
	if len(data) == 0 {
		return nil, common.ShapeError("percentile", "empty data")
	}
	for _, pct := range percentiles {
		if !(pct >= 0 && pct <= 100) {
			return nil, common.ValueError("percentile", "percentile must be between 0 and 100, got %g", pct)
		}
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	out := make([]float64, len(percentiles))
	for i, pct := range percentiles {
		out[i] = p.fromSorted(sorted, pct/100.0)
	}
	return out, nil
}

func (p *Percentiles) fromSorted(data []float64, q float64) float64 {
	n := len(data)
	if n == 1 {
		return data[0]
	}

	h := float64(n-1) * q
	lower := int(math.Floor(h))
	if lower >= n-1 {
		return data[n-1]
	}
	upper := lower + 1
	fraction := h - float64(lower)

	switch p.method {
	case Lower:
		return data[lower]
	case Higher:
		if fraction == 0 {
			return data[lower]
		}
		return data[upper]
	case Midpoint:
		if fraction == 0 {
			return data[lower]
		}
		return (data[lower] + data[upper]) / 2.0
	case Nearest:
		return data[int(math.RoundToEven(h))]
	default:
		if fraction == 0 {
			return data[lower]
		}
		return data[lower] + fraction*(data[upper]-data[lower])
	}
}
