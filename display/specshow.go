package display

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-specshow/algorithms/common"
	"github.com/RyanBlaney/sonido-specshow/algorithms/spectral"
	"github.com/RyanBlaney/sonido-specshow/logging"
)

// SpecshowOptions configures Specshow. Nil coordinates are generated from
// the axis type and Params.
type SpecshowOptions struct {
	XAxis   AxisType
	YAxis   AxisType
	XCoords []float64
	YCoords []float64
	Params  CoordParams
	Cmap    string // empty chooses from the palette
	Robust  bool
	// Boolean marks 0/1 mask data, which always gets the palette's
	// two-tone map when Cmap is empty
	Boolean bool
}

// DefaultSpecshowOptions returns unlabelled axes, default coordinate
// parameters and robust color-map selection
func DefaultSpecshowOptions() SpecshowOptions {
	return SpecshowOptions{
		XAxis:  AxisNone,
		YAxis:  AxisNone,
		Params: DefaultCoordParams(),
		Robust: true,
	}
}

// Mesh is what Specshow drew
type Mesh struct {
	X, Y        []float64
	Cmap        string
	XDecoration Decoration
	YDecoration Decoration
}

// Specshow draws a bins x frames matrix as a color mesh. Rows are
// frequency bins in ascending order and columns are frames in time order.
func Specshow(ctx *Context, data *mat.Dense, opts SpecshowOptions) (*Mesh, error) {
	if data == nil || data.IsEmpty() {
		return nil, common.ShapeError("specshow", "empty data")
	}
	rows, cols := data.Dims()

	cmap := opts.Cmap
	switch {
	case cmap != "":
	case opts.Boolean:
		cmap = ctx.palette.ChooseBool()
	default:
		var err error
		cmap, err = ctx.palette.Choose(data.RawMatrix().Data, opts.Robust)
		if err != nil {
			return nil, err
		}
	}

	y, err := MeshCoords(opts.YAxis, opts.YCoords, rows, opts.Params)
	if err != nil {
		return nil, fmt.Errorf("y axis: %w", err)
	}
	x, err := MeshCoords(opts.XAxis, opts.XCoords, cols, opts.Params)
	if err != nil {
		return nil, fmt.Errorf("x axis: %w", err)
	}

	xDec, err := Decorate(opts.XAxis)
	if err != nil {
		return nil, err
	}
	yDec, err := Decorate(opts.YAxis)
	if err != nil {
		return nil, err
	}

	style := MeshStyle{Cmap: cmap, Rasterized: true, Shading: "flat"}
	if err := ctx.surface.PColorMesh(x, y, data, style); err != nil {
		return nil, fmt.Errorf("failed to draw mesh: %w", err)
	}

	ctx.surface.SetLimits(XAxis, floats.Min(x), floats.Max(x))
	ctx.surface.SetLimits(YAxis, floats.Min(y), floats.Max(y))

	applyScale(ctx.surface, XAxis, xDec.Scale)
	applyScale(ctx.surface, YAxis, yDec.Scale)

	ctx.surface.SetDecoration(XAxis, xDec)
	ctx.surface.SetDecoration(YAxis, yDec)

	ctx.logger.Debug("specshow drawn", logging.Fields{
		"rows":   rows,
		"cols":   cols,
		"x_axis": string(xDec.Axis),
		"y_axis": string(yDec.Axis),
		"cmap":   cmap,
	})

	return &Mesh{X: x, Y: y, Cmap: cmap, XDecoration: xDec, YDecoration: yDec}, nil
}

// SpecshowMask draws a bins x frames boolean mask as 0/1 cells with the
// two-tone color map
func SpecshowMask(ctx *Context, mask [][]bool, opts SpecshowOptions) (*Mesh, error) {
	if len(mask) == 0 || len(mask[0]) == 0 {
		return nil, common.ShapeError("specshow", "empty mask")
	}
	rows, cols := len(mask), len(mask[0])
	data := mat.NewDense(rows, cols, nil)
	for i, row := range mask {
		if len(row) != cols {
			return nil, common.ShapeError("specshow", "mask row %d has %d cells, want %d", i, len(row), cols)
		}
		for j, v := range row {
			if v {
				data.Set(i, j, 1)
			}
		}
	}
	opts.Boolean = true
	return Specshow(ctx, data, opts)
}

// SpecshowComplex shows the magnitude of a single-channel spectrogram and
// reports that the phase was dropped
func SpecshowComplex(ctx *Context, S *spectral.Spectrogram, opts SpecshowOptions) (*Mesh, error) {
	magnitude, err := S.Magnitude()
	if err != nil {
		return nil, err
	}
	ctx.logger.Warn("Trying to display complex-valued input. Showing magnitude instead.", logging.Fields{
		"bins":   S.Bins,
		"frames": S.Frames,
	})
	return Specshow(ctx, magnitude, opts)
}

func applyScale(s Surface, which Which, scale Scale) {
	if scale.Mode == ScaleLinear {
		return
	}
	s.SetScale(which, scale)
	if scale.Limits != nil {
		s.SetLimits(which, scale.Limits.Min, scale.Limits.Max)
	}
}
