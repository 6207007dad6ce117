package timefreq

import "math"

// Slaney mel scale: linear below minLogHz, logarithmic above.
// The constants are part of the scale definition and must not be re-derived.
const (
	melFSP      = 200.0 / 3
	minLogHz    = 1000.0
	minLogMel   = minLogHz / melFSP
	htkMelScale = 2595.0
	htkMelBreak = 700.0
)

var melLogstep = math.Log(6.4) / 27

// HzToMel converts frequency to mels. htk selects 2595*log10(1 + hz/700);
// otherwise the Slaney scale is used.
func HzToMel(hz float64, htk bool) float64 {
	if htk {
		return htkMelScale * math.Log10(1.0+hz/htkMelBreak)
	}

	mel := hz / melFSP
	if hz >= minLogHz {
		mel = minLogMel + math.Log(hz/minLogHz)/melLogstep
	}
	return mel
}

// MelToHz is the inverse of HzToMel for the same htk flag
func MelToHz(mel float64, htk bool) float64 {
	if htk {
		return htkMelBreak * (math.Pow(10.0, mel/htkMelScale) - 1.0)
	}

	hz := melFSP * mel
	if mel >= minLogMel {
		hz = minLogHz * math.Exp(melLogstep*(mel-minLogMel))
	}
	return hz
}
