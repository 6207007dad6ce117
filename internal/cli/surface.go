package cli

import (
	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-specshow/display"
)

// Tick is a labelled tick position
type Tick struct {
	Value float64 `yaml:"value" json:"value"`
	Label string  `yaml:"label" json:"label"`
}

// AxisLayout is how one axis of a figure would be drawn
type AxisLayout struct {
	Type   string  `yaml:"type" json:"type"`
	Label  string  `yaml:"label,omitempty" json:"label,omitempty"`
	Min    float64 `yaml:"min" json:"min"`
	Max    float64 `yaml:"max" json:"max"`
	Scale  string  `yaml:"scale" json:"scale"`
	Cells  int     `yaml:"cells,omitempty" json:"cells,omitempty"`
	Ticks  []Tick  `yaml:"ticks,omitempty" json:"ticks,omitempty"`
	Hidden bool    `yaml:"hidden,omitempty" json:"hidden,omitempty"`
}

// layoutSurface is a display.Surface that records the figure layout
// instead of rasterizing it
type layoutSurface struct {
	cmap   string
	cells  map[display.Which]int
	limits map[display.Which]display.Interval
	scales map[display.Which]display.Scale
	decors map[display.Which]display.Decoration
	fills  int
}

func newLayoutSurface() *layoutSurface {
	return &layoutSurface{
		cells:  map[display.Which]int{},
		limits: map[display.Which]display.Interval{},
		scales: map[display.Which]display.Scale{},
		decors: map[display.Which]display.Decoration{},
	}
}

func (s *layoutSurface) PColorMesh(x, y []float64, data *mat.Dense, style display.MeshStyle) error {
	rows, cols := data.Dims()
	s.cells[display.XAxis] = cols
	s.cells[display.YAxis] = rows
	s.cmap = style.Cmap
	return nil
}

func (s *layoutSurface) FillBetween(x, lower, upper []float64, color string) error {
	s.fills++
	return nil
}

func (s *layoutSurface) SetLimits(which display.Which, lo, hi float64) {
	s.limits[which] = display.Interval{Min: lo, Max: hi}
}

func (s *layoutSurface) SetScale(which display.Which, scale display.Scale) {
	s.scales[which] = scale
}

func (s *layoutSurface) SetDecoration(which display.Which, d display.Decoration) {
	s.decors[which] = d
}

// layout reports an axis with its major ticks over the drawn range
func (s *layoutSurface) layout(which display.Which) AxisLayout {
	d := s.decors[which]
	view := s.limits[which]
	scale, ok := s.scales[which]
	if !ok {
		scale = display.Scale{Mode: display.ScaleLinear}
	}

	out := AxisLayout{
		Type:   string(d.Axis),
		Label:  d.Label,
		Min:    view.Min,
		Max:    view.Max,
		Scale:  scale.Mode.String(),
		Cells:  s.cells[which],
		Hidden: d.HideTicks,
	}

	ticks, labels := d.MajorTicks(display.TickContext{View: view, Data: view})
	for i, v := range ticks {
		out.Ticks = append(out.Ticks, Tick{Value: v, Label: labels[i]})
	}
	return out
}
