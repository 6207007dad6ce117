// Package display maps spectrogram bins to axis coordinates and decides how
// each axis is scaled, ticked and labelled. Drawing is delegated to a Surface.
package display

import (
	"strings"

	"github.com/RyanBlaney/sonido-specshow/algorithms/common"
)

// AxisType names the physical quantity along one axis of a spectrogram
type AxisType string

const (
	AxisNone         AxisType = "none"
	AxisLinear       AxisType = "linear"
	AxisHz           AxisType = "hz"
	AxisLog          AxisType = "log"
	AxisMel          AxisType = "mel"
	AxisCQT          AxisType = "cqt"
	AxisCQTHz        AxisType = "cqt_hz"
	AxisCQTNote      AxisType = "cqt_note"
	AxisChroma       AxisType = "chroma"
	AxisTime         AxisType = "time"
	AxisSeconds      AxisType = "s"
	AxisMilliseconds AxisType = "ms"
	AxisLag          AxisType = "lag"
	AxisLagSeconds   AxisType = "lag_s"
	AxisLagMillis    AxisType = "lag_ms"
	AxisTonnetz      AxisType = "tonnetz"
	AxisOff          AxisType = "off"
	AxisFrames       AxisType = "frames"
	AxisTempo        AxisType = "tempo"
	AxisFourierTempo AxisType = "fourier_tempo"
)

// AxisTypes lists every supported axis type
var AxisTypes = []AxisType{
	AxisLinear, AxisHz, AxisLog, AxisMel,
	AxisCQT, AxisCQTHz, AxisCQTNote, AxisChroma,
	AxisTime, AxisSeconds, AxisMilliseconds,
	AxisLag, AxisLagSeconds, AxisLagMillis,
	AxisTonnetz, AxisOff, AxisFrames, AxisNone,
	AxisTempo, AxisFourierTempo,
}

// ParseAxisType accepts the names above case-insensitively; "" means none
func ParseAxisType(s string) (AxisType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return AxisNone, nil
	}
	for _, a := range AxisTypes {
		if string(a) == s {
			return a, nil
		}
	}
	return "", common.ValueError("axis", "unknown axis type: %q", s)
}

func (a AxisType) String() string { return string(a) }

func (a AxisType) isLag() bool {
	return a == AxisLag || a == AxisLagSeconds || a == AxisLagMillis
}
