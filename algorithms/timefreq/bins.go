package timefreq

import (
	"math"

	"github.com/RyanBlaney/sonido-specshow/algorithms/common"
)

// FFTFrequencies returns the center frequency of each of the 1 + nFFT/2 real FFT bins
func FFTFrequencies(sampleRate float64, nFFT int) []float64 {
	return common.Linspace(0, sampleRate/2, 1+nFFT/2)
}

// CQTFrequencies returns nBins geometrically spaced frequencies starting at fmin,
// corrected by tuning (fractions of a bin)
func CQTFrequencies(nBins int, fmin float64, binsPerOctave int, tuning float64) []float64 {
	bpo := float64(binsPerOctave)
	correction := math.Pow(2.0, tuning/bpo)

	freqs := common.Arange(nBins)
	for i, k := range freqs {
		freqs[i] = correction * fmin * math.Pow(2.0, k/bpo)
	}
	return freqs
}

// MelFrequencies returns nMels frequencies uniformly spaced on the mel scale between fmin and fmax
func MelFrequencies(nMels int, fmin, fmax float64, htk bool) []float64 {
	mels := common.Linspace(HzToMel(fmin, htk), HzToMel(fmax, htk), nMels)
	for i, m := range mels {
		mels[i] = MelToHz(m, htk)
	}
	return mels
}

// TempoFrequencies returns the BPM of each autocorrelation lag bin.
// Bin 0 (zero lag) is +Inf.
func TempoFrequencies(nBins int, hopLength int, sampleRate float64) []float64 {
	if nBins <= 0 {
		return []float64{}
	}
	freqs := make([]float64, nBins)
	freqs[0] = math.Inf(1)
	for k := 1; k < nBins; k++ {
		freqs[k] = 60.0 * sampleRate / (float64(hopLength) * float64(k))
	}
	return freqs
}

// FourierTempoFrequencies returns the BPM of each Fourier tempogram bin:
// FFT bins evaluated at a frame rate expressed in frames per minute
func FourierTempoFrequencies(sampleRate float64, winLength, hopLength int) []float64 {
	return FFTFrequencies(sampleRate*60/float64(hopLength), winLength)
}

// AWeighting returns the A-weighting in dB of each frequency, floored at minDB.
// Pass math.Inf(-1) to disable the floor.
func AWeighting(freqs []float64, minDB float64) []float64 {
	c0 := 12200.0 * 12200.0
	c1 := 20.6 * 20.6
	c2 := 107.7 * 107.7
	c3 := 737.9 * 737.9

	weights := make([]float64, len(freqs))
	for i, f := range freqs {
		fsq := f * f
		w := 2.0 + 20.0*(math.Log10(c0)+4*math.Log10(f)-
			math.Log10(fsq+c0)-
			math.Log10(fsq+c1)-
			0.5*math.Log10(fsq+c2)-
			0.5*math.Log10(fsq+c3))
		weights[i] = math.Max(minDB, w)
	}
	return weights
}
