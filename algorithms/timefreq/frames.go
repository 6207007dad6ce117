package timefreq

import "github.com/RyanBlaney/sonido-specshow/algorithms/common"

// A non-zero nFFT in the conversions below offsets frame positions by nFFT/2 samples,
// matching frames produced without centering.

// FramesToSamples returns the first sample index of a frame
func FramesToSamples(frame, hopLength, nFFT int) int {
	return frame*hopLength + nFFT/2
}

// SamplesToFrames returns the frame containing a sample index
func SamplesToFrames(sample, hopLength, nFFT int) int {
	return common.FloorDiv(sample-nFFT/2, hopLength)
}

// FramesToTime converts a frame index to seconds
func FramesToTime(frame int, sampleRate float64, hopLength, nFFT int) float64 {
	return SamplesToTime(FramesToSamples(frame, hopLength, nFFT), sampleRate)
}

// TimeToFrames converts seconds to a frame index
func TimeToFrames(seconds, sampleRate float64, hopLength, nFFT int) int {
	return SamplesToFrames(TimeToSamples(seconds, sampleRate), hopLength, nFFT)
}

// TimeToSamples converts seconds to a sample index, truncating
func TimeToSamples(seconds, sampleRate float64) int {
	return int(seconds * sampleRate)
}

// SamplesToTime converts a sample index to seconds
func SamplesToTime(sample int, sampleRate float64) float64 {
	return float64(sample) / sampleRate
}

// BlocksToFrames converts a block index to its first frame
func BlocksToFrames(block, blockLength int) int {
	return block * blockLength
}

// BlocksToSamples converts a block index to its first sample
func BlocksToSamples(block, blockLength, hopLength int) int {
	return FramesToSamples(BlocksToFrames(block, blockLength), hopLength, 0)
}

// BlocksToTime converts a block index to seconds
func BlocksToTime(block, blockLength, hopLength int, sampleRate float64) float64 {
	return SamplesToTime(BlocksToSamples(block, blockLength, hopLength), sampleRate)
}

// SamplesLike returns the sample index of each of nFrames frames
func SamplesLike(nFrames, hopLength, nFFT int) []int {
	if nFrames <= 0 {
		return []int{}
	}
	out := make([]int, nFrames)
	for i := range out {
		out[i] = FramesToSamples(i, hopLength, nFFT)
	}
	return out
}

// TimesLike returns the time in seconds of each of nFrames frames
func TimesLike(nFrames int, sampleRate float64, hopLength, nFFT int) []float64 {
	samples := SamplesLike(nFrames, hopLength, nFFT)
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = SamplesToTime(s, sampleRate)
	}
	return out
}
