package display

import (
	"math"

	"github.com/RyanBlaney/sonido-specshow/algorithms/common"
)

// Decoration is the complete labelling policy of one axis
type Decoration struct {
	Axis         AxisType
	Label        string
	Major        Formatter
	Minor        Formatter
	MajorLocator Locator
	MinorLocator Locator
	HideTicks    bool
	Scale        Scale
}

// MajorTicks returns the major tick positions and labels for a view
func (d Decoration) MajorTicks(ctx TickContext) ([]float64, []string) {
	return ticksAndLabels(d.HideTicks, d.MajorLocator, d.Major, ctx)
}

// MinorTicks returns the minor tick positions and labels for a view
func (d Decoration) MinorTicks(ctx TickContext) ([]float64, []string) {
	return ticksAndLabels(d.HideTicks, d.MinorLocator, d.Minor, ctx)
}

func ticksAndLabels(hide bool, l Locator, f Formatter, ctx TickContext) ([]float64, []string) {
	if hide {
		return nil, nil
	}
	ticks := l.Ticks(ctx.View)
	labels := make([]string, len(ticks))
	for i, t := range ticks {
		labels[i] = f.Format(t, ctx)
	}
	return ticks, labels
}

var (
	// pitch classes of the white keys, one octave
	whiteKeys = []float64{0, 2, 4, 5, 7, 9, 11}

	// semitone subdivisions of an octave on a base-2 log axis
	semitoneSubs = func() []float64 {
		subs := make([]float64, 11)
		for i := range subs {
			subs[i] = math.Pow(2.0, float64(i+1)/12.0)
		}
		return subs
	}()
)

func chromaTicks() []float64 {
	ticks := make([]float64, 0, 10*len(whiteKeys))
	for octave := range 10 {
		for _, pc := range whiteKeys {
			ticks = append(ticks, 0.5+12*float64(octave)+pc)
		}
	}
	return ticks
}

func tonnetzTicks() []float64 {
	ticks := common.Arange(len(TonnetzLabels))
	for i := range ticks {
		ticks[i] += 0.5
	}
	return ticks
}

var timeLabels = map[AxisType]string{
	AxisTime:         "Time",
	AxisSeconds:      "Time (s)",
	AxisMilliseconds: "Time (ms)",
	AxisLag:          "Lag",
	AxisLagSeconds:   "Lag (s)",
	AxisLagMillis:    "Lag (ms)",
}

var timeUnits = map[AxisType]string{
	AxisTime:         "",
	AxisSeconds:      "s",
	AxisMilliseconds: "ms",
	AxisLag:          "",
	AxisLagSeconds:   "s",
	AxisLagMillis:    "ms",
}

// Decorate returns the labelling policy of an axis type
func Decorate(axis AxisType) (Decoration, error) {
	if axis == "" {
		axis = AxisNone
	}
	if _, ok := coordFuncs[axis]; !ok {
		return Decoration{}, common.ValueError("decorate_axis", "unknown axis type: %q", axis)
	}

	scale := ScaleFor(axis)
	d := Decoration{
		Axis:         axis,
		Major:        ScalarFormatter(),
		MajorLocator: AutoLocator(),
		Scale:        scale,
	}

	switch axis {
	case AxisTonnetz:
		d.Major = TonnetzFormatter()
		d.MajorLocator = FixedLocator(tonnetzTicks())
		d.Label = "Tonnetz"

	case AxisChroma:
		d.Major = ChromaFormatter()
		d.MajorLocator = FixedLocator(chromaTicks())
		d.Label = "Pitch class"

	case AxisTempo, AxisFourierTempo:
		d.MajorLocator = LogLocator(2)
		d.Label = "BPM"

	case AxisTime, AxisSeconds, AxisMilliseconds, AxisLag, AxisLagSeconds, AxisLagMillis:
		f, err := TimeFormatter(timeUnits[axis], axis.isLag())
		if err != nil {
			return Decoration{}, err
		}
		d.Major = f
		d.MajorLocator = MaxNLocator(defaultMaxNBins, timeSteps)
		d.Label = timeLabels[axis]

	case AxisCQTNote:
		d.Major = NoteFormatter(true, true)
		d.MajorLocator = LogLocator(2)
		d.Minor = NoteFormatter(true, false)
		d.MinorLocator = LogLocator(2, semitoneSubs...)
		d.Label = "Note"

	case AxisCQTHz:
		d.Major = LogHzFormatter(true)
		d.MajorLocator = LogLocator(2)
		d.Minor = LogHzFormatter(false)
		d.MinorLocator = LogLocator(2, semitoneSubs...)
		d.Label = "Hz"

	case AxisCQT:
		d.MajorLocator = LogLocator(2)

	case AxisMel, AxisLog:
		d.MajorLocator = SymLogLocator(scale.Base, scale.LinThresh)
		d.Label = "Hz"

	case AxisLinear, AxisHz:
		d.Label = "Hz"

	case AxisFrames:
		d.Label = "Frames"

	case AxisOff, AxisNone:
		d.Major = Formatter{}
		d.MajorLocator = Locator{}
		d.HideTicks = true
	}

	return d, nil
}
