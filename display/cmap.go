package display

import (
	"github.com/RyanBlaney/sonido-specshow/algorithms/common"
	"github.com/RyanBlaney/sonido-specshow/algorithms/stats"
)

// Palette names the color maps used for each kind of data
type Palette struct {
	Sequential string
	Diverging  string
	Boolean    string
}

// DefaultPalette returns magma / coolwarm / gray_r
func DefaultPalette() Palette {
	return Palette{
		Sequential: "magma",
		Diverging:  "coolwarm",
		Boolean:    "gray_r",
	}
}

// Choose picks a color map for data. Non-finite values are ignored. With
// robust set, the range is taken between the 2nd and 98th percentiles;
// otherwise between the extremes. A range straddling zero gets the diverging
// map, anything else the sequential one.
func (p Palette) Choose(data []float64, robust bool) (string, error) {
	finite := common.FiniteValues(data)
	if len(finite) == 0 {
		return p.Sequential, nil
	}

	lo, hi := 0.0, 100.0
	if robust {
		lo, hi = 2, 98
	}
	bounds, err := stats.NewPercentiles().Range(finite, lo, hi)
	if err != nil {
		return "", err
	}

	if bounds[0] >= 0 || bounds[1] <= 0 {
		return p.Sequential, nil
	}
	return p.Diverging, nil
}

// ChooseBool returns the two-tone map used for boolean data
func (p Palette) ChooseBool() string {
	return p.Boolean
}
