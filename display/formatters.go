package display

import (
	"fmt"
	"math"
	"strconv"

	"github.com/RyanBlaney/sonido-specshow/algorithms/common"
	"github.com/RyanBlaney/sonido-specshow/algorithms/timefreq"
)

// Interval is a closed range of axis values
type Interval struct {
	Min, Max float64
}

// Span returns Max - Min
func (i Interval) Span() float64 { return i.Max - i.Min }

// TickContext is what a formatter may know about the axis being labelled:
// the visible range and the range covered by data
type TickContext struct {
	View Interval
	Data Interval
}

// FormatterKind selects the labelling rule of a Formatter
type FormatterKind int

const (
	FormatNone FormatterKind = iota
	FormatScalar
	FormatTime
	FormatNote
	FormatLogHz
	FormatChroma
	FormatTonnetz
)

func (k FormatterKind) String() string {
	switch k {
	case FormatNone:
		return "none"
	case FormatScalar:
		return "scalar"
	case FormatTime:
		return "time"
	case FormatNote:
		return "note"
	case FormatLogHz:
		return "log_hz"
	case FormatChroma:
		return "chroma"
	case FormatTonnetz:
		return "tonnetz"
	default:
		return "unknown"
	}
}

// TimeConfig configures time and lag labels. Unit is "", "s" or "ms".
type TimeConfig struct {
	Unit string
	Lag  bool
}

// NoteConfig configures note-name labels of a frequency axis
type NoteConfig struct {
	Octave bool
	Major  bool
}

// LogHzConfig configures plain frequency labels of a log axis
type LogHzConfig struct {
	Major bool
}

// Formatter turns a tick position into a label. Only the config matching
// Kind is consulted.
type Formatter struct {
	Kind  FormatterKind
	Time  TimeConfig
	Note  NoteConfig
	LogHz LogHzConfig
}

// TonnetzLabels are the lattice directions of the six tonnetz dimensions
var TonnetzLabels = [6]string{"5_x", "5_y", "m3_x", "m3_y", "M3_x", "M3_y"}

// ScalarFormatter labels positions with their value
func ScalarFormatter() Formatter { return Formatter{Kind: FormatScalar} }

// TimeFormatter labels positions as elapsed time; lag axes mirror the second
// half of the data range into negative time
func TimeFormatter(unit string, lag bool) (Formatter, error) {
	switch unit {
	case "", "s", "ms":
	default:
		return Formatter{}, common.ValueError("time_formatter", "unknown time unit: %q", unit)
	}
	return Formatter{Kind: FormatTime, Time: TimeConfig{Unit: unit, Lag: lag}}, nil
}

// NoteFormatter labels frequencies with note names
func NoteFormatter(octave, major bool) Formatter {
	return Formatter{Kind: FormatNote, Note: NoteConfig{Octave: octave, Major: major}}
}

// LogHzFormatter labels frequencies in Hz
func LogHzFormatter(major bool) Formatter {
	return Formatter{Kind: FormatLogHz, LogHz: LogHzConfig{Major: major}}
}

// ChromaFormatter labels bins with pitch-class names
func ChromaFormatter() Formatter { return Formatter{Kind: FormatChroma} }

// TonnetzFormatter labels bins with tonnetz directions
func TonnetzFormatter() Formatter { return Formatter{Kind: FormatTonnetz} }

// Format returns the label for position x
func (f Formatter) Format(x float64, ctx TickContext) string {
	switch f.Kind {
	case FormatScalar:
		return formatG(x, 6)
	case FormatTime:
		return f.formatTime(x, ctx)
	case FormatNote:
		return f.formatNote(x, ctx)
	case FormatLogHz:
		if x <= 0 || hideMinor(f.LogHz.Major, ctx.View) {
			return ""
		}
		return formatG(x, 6)
	case FormatChroma:
		label, _ := timefreq.MIDIToNote(math.Trunc(x), false, false)
		return label
	case FormatTonnetz:
		i := int(x)
		if x < 0 || i >= len(TonnetzLabels) {
			return ""
		}
		return TonnetzLabels[i]
	default:
		return ""
	}
}

func (f Formatter) formatTime(x float64, ctx TickContext) string {
	value, sign := x, ""
	if f.Time.Lag && x >= ctx.Data.Max*0.5 {
		if x > ctx.Data.Max {
			return ""
		}
		value, sign = math.Abs(x-ctx.Data.Max), "-"
	}

	var s string
	switch f.Time.Unit {
	case "s":
		s = formatG(value, 3)
	case "ms":
		s = formatG(value*1000, 3)
	default:
		span := ctx.View.Span()
		switch {
		case span > 3600:
			s = fmt.Sprintf("%d:%02d:%02d", int(value/3600), int(floorMod(value/60, 60)), int(floorMod(value, 60)))
		case span > 60:
			s = fmt.Sprintf("%d:%02d", int(value/60), int(floorMod(value, 60)))
		default:
			s = formatG(value, 2)
		}
	}
	return sign + s
}

func (f Formatter) formatNote(x float64, ctx TickContext) string {
	if x <= 0 || hideMinor(f.Note.Major, ctx.View) {
		return ""
	}

	// cents only within one octave, and only alongside the octave number
	cents := f.Note.Octave && ctx.View.Max <= 2*math.Max(1, ctx.View.Min)

	label, err := timefreq.HzToNote(math.Trunc(x), f.Note.Octave, cents)
	if err != nil {
		return ""
	}
	return label
}

// hideMinor drops minor labels once the view spans more than two octaves
func hideMinor(major bool, view Interval) bool {
	return !major && view.Max > 4*math.Max(1, view.Min)
}

func formatG(x float64, precision int) string {
	return strconv.FormatFloat(x, 'g', precision, 64)
}

func floorMod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m < 0 {
		m += b
	}
	return m
}
