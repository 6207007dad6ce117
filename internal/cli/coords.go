package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-specshow/display"
	"github.com/RyanBlaney/sonido-specshow/logging"
)

// CoordsReport is the output of the coords command
type CoordsReport struct {
	Axis  string     `yaml:"axis" json:"axis"`
	Bins  int        `yaml:"bins" json:"bins"`
	Edges []float64  `yaml:"edges" json:"edges"`
	Minor []Tick     `yaml:"minor_ticks,omitempty" json:"minor_ticks,omitempty"`
	View  AxisLayout `yaml:"layout" json:"layout"`
}

type coordsFlags struct {
	axis  string
	bins  int
	minor bool
}

func newCoordsCommand(a *app) *cobra.Command {
	f := &coordsFlags{}

	cmd := &cobra.Command{
		Use:   "coords",
		Short: "Print mesh edges and tick labels for an axis type",
		Long: `Print the n+1 cell edges of an axis holding n bins, along with the scale,
tick positions and labels used to decorate it. Coordinates follow the stft
and display sections of the configuration.

Examples:
  specinfo coords --axis cqt_note --bins 84
  specinfo coords --axis time --bins 100 --hop-length 256`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCoords(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.axis, "axis", string(display.AxisLinear), "axis type")
	flags.IntVar(&f.bins, "bins", 1025, "number of bins along the axis")
	flags.BoolVar(&f.minor, "minor", false, "include minor ticks")

	flags.Int("hop-length", 0, "frame hop (default win_length/4)")
	flags.Int("sample-rate", 22050, "sample rate")
	flags.Float64("fmin", 0, "lowest frequency (0 selects the axis default)")
	flags.Float64("fmax", 0, "highest frequency (0 selects the axis default)")
	flags.Int("bins-per-octave", 12, "bins per octave for cqt and chroma axes")
	flags.Float64("tuning", 0, "tuning offset in fractions of a bin")
	configFlag(flags, "hop-length", "stft.hop_length")
	configFlag(flags, "sample-rate", "display.sample_rate")
	configFlag(flags, "fmin", "display.fmin")
	configFlag(flags, "fmax", "display.fmax")
	configFlag(flags, "bins-per-octave", "display.bins_per_octave")
	configFlag(flags, "tuning", "display.tuning")

	return cmd
}

func (a *app) runCoords(cmd *cobra.Command, f *coordsFlags) error {
	axis, err := display.ParseAxisType(f.axis)
	if err != nil {
		return err
	}

	if f.bins < 1 {
		return fmt.Errorf("bins must be positive, got %d", f.bins)
	}

	// lay the axis out as the rows of a single-column mesh
	surface := newLayoutSurface()
	ctx := display.NewContext(surface, display.WithContextLogger(a.logger))

	opts := display.DefaultSpecshowOptions()
	opts.YAxis = axis
	opts.Params = a.config.CoordParams()

	mesh, err := display.Specshow(ctx, mat.NewDense(f.bins, 1, nil), opts)
	if err != nil {
		return err
	}
	d := mesh.YDecoration

	report := &CoordsReport{
		Axis:  string(axis),
		Bins:  f.bins,
		Edges: mesh.Y,
		View:  surface.layout(display.YAxis),
	}

	if f.minor {
		view := surface.limits[display.YAxis]
		ticks, labels := d.MinorTicks(display.TickContext{View: view, Data: view})
		for i, v := range ticks {
			report.Minor = append(report.Minor, Tick{Value: v, Label: labels[i]})
		}
	}

	a.logger.Debug("Axis coordinates computed", logging.Fields{
		"axis": string(axis),
		"bins": f.bins,
	})
	return a.write(cmd, report)
}
