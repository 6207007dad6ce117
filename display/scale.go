package display

import "github.com/RyanBlaney/sonido-specshow/algorithms/timefreq"

// ScaleMode is the transform from axis value to screen position
type ScaleMode int

const (
	ScaleLinear ScaleMode = iota
	ScaleLog
	ScaleSymLog
)

func (m ScaleMode) String() string {
	switch m {
	case ScaleLinear:
		return "linear"
	case ScaleLog:
		return "log"
	case ScaleSymLog:
		return "symlog"
	default:
		return "unknown"
	}
}

// Scale describes an axis transform. LinThresh and LinScale apply to symlog
// only; Limits, when set, overrides the data limits.
type Scale struct {
	Mode      ScaleMode
	Base      float64
	LinThresh float64
	LinScale  float64
	Limits    *Interval
}

// tempoLimits is the displayed BPM range of tempo axes
var tempoLimits = Interval{Min: 16, Max: 480}

// c2Hz is the frequency of C2, where log-frequency axes become logarithmic
var c2Hz = timefreq.MIDIToHz(36)

// ScaleFor returns the scale of an axis type
func ScaleFor(axis AxisType) Scale {
	switch axis {
	case AxisMel:
		return Scale{Mode: ScaleSymLog, Base: 2, LinThresh: 1000, LinScale: 1}
	case AxisLog:
		return Scale{Mode: ScaleSymLog, Base: 2, LinThresh: c2Hz, LinScale: 0.5}
	case AxisCQT, AxisCQTHz, AxisCQTNote:
		return Scale{Mode: ScaleLog, Base: 2}
	case AxisTempo, AxisFourierTempo:
		limits := tempoLimits
		return Scale{Mode: ScaleLog, Base: 2, Limits: &limits}
	default:
		return Scale{Mode: ScaleLinear}
	}
}
