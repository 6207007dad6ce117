package chroma

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-specshow/algorithms/common"
)

// TonnetzDims is the number of tonal centroid coordinates: x and y of the
// circles of fifths, minor thirds and major thirds
const TonnetzDims = 6

// tonnetzBasis holds the angle step and radius of each circle, one row per
// coordinate pair
var tonnetzBasis = [3]struct{ step, radius float64 }{
	{7 * math.Pi / 6, 1},   // fifths
	{3 * math.Pi / 2, 1},   // minor thirds
	{2 * math.Pi / 3, 0.5}, // major thirds
}

// tonnetzMatrix is the 6 x 12 projection from pitch classes
var tonnetzMatrix = func() *mat.Dense {
	m := mat.NewDense(TonnetzDims, Bins, nil)
	for i, b := range tonnetzBasis {
		for pc := range Bins {
			angle := b.step * float64(pc)
			m.Set(2*i, pc, b.radius*math.Sin(angle))
			m.Set(2*i+1, pc, b.radius*math.Cos(angle))
		}
	}
	return m
}()

// Tonnetz projects a 12 x frames chromagram onto the six tonal centroid
// coordinates. Frames are L1-normalized first; silent frames map to the
// origin. Rows follow the order 5_x, 5_y, m3_x, m3_y, M3_x, M3_y.
func Tonnetz(chroma *mat.Dense) (*mat.Dense, error) {
	if chroma == nil || chroma.IsEmpty() {
		return nil, common.ShapeError("tonnetz", "empty chromagram")
	}
	rows, frames := chroma.Dims()
	if rows != Bins {
		return nil, common.ShapeError("tonnetz", "chromagram has %d rows, want %d", rows, Bins)
	}

	normalized := mat.NewDense(Bins, frames, nil)
	col := make([]float64, Bins)
	for t := range frames {
		mat.Col(col, t, chroma)
		if norm := floats.Norm(col, 1); norm > 0 {
			floats.Scale(1/norm, col)
		}
		normalized.SetCol(t, col)
	}

	out := mat.NewDense(TonnetzDims, frames, nil)
	out.Mul(tonnetzMatrix, normalized)
	return out, nil
}
