package display

import (
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-specshow/logging"
)

// Which selects the horizontal or vertical axis of a surface
type Which int

const (
	XAxis Which = iota
	YAxis
)

func (w Which) String() string {
	if w == XAxis {
		return "x"
	}
	return "y"
}

// MeshStyle carries the drawing attributes of a color mesh
type MeshStyle struct {
	Cmap       string
	Rasterized bool
	Shading    string
}

// Surface is the plotting backend a Context draws on. Implementations must
// copy any slice they keep.
type Surface interface {
	// PColorMesh draws data with cell edges x (columns+1) and y (rows+1)
	PColorMesh(x, y []float64, data *mat.Dense, style MeshStyle) error
	// FillBetween fills the area between lower and upper along x
	FillBetween(x, lower, upper []float64, color string) error
	SetLimits(which Which, lo, hi float64)
	SetScale(which Which, scale Scale)
	SetDecoration(which Which, d Decoration)
}

// DefaultColorCycle is the line color cycle used by Waveplot
var DefaultColorCycle = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Context is the rendering state threaded through every plotting call.
// The color cycle is the only mutable state and is safe for concurrent use.
type Context struct {
	surface Surface
	palette Palette
	logger  logging.Logger

	mu     sync.Mutex
	colors []string
	next   int
}

// ContextOption configures a Context
type ContextOption func(*Context)

// WithPalette overrides the default color maps
func WithPalette(p Palette) ContextOption {
	return func(c *Context) { c.palette = p }
}

// WithColorCycle overrides the line color cycle
func WithColorCycle(colors []string) ContextOption {
	return func(c *Context) { c.colors = append([]string(nil), colors...) }
}

// WithContextLogger sets the diagnostics logger
func WithContextLogger(l logging.Logger) ContextOption {
	return func(c *Context) { c.logger = l }
}

// NewContext binds a surface
func NewContext(surface Surface, opts ...ContextOption) *Context {
	c := &Context{
		surface: surface,
		palette: DefaultPalette(),
		colors:  DefaultColorCycle,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrGlobal(c.logger, "display")
	return c
}

// Surface returns the bound surface
func (c *Context) Surface() Surface { return c.surface }

// Palette returns the color maps in use
func (c *Context) Palette() Palette { return c.palette }

// NextColor returns the next color of the cycle
func (c *Context) NextColor() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.colors) == 0 {
		return ""
	}
	color := c.colors[c.next%len(c.colors)]
	c.next++
	return color
}
