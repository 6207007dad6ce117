// Package transcode decodes audio files to float64 PCM through ffmpeg
package transcode

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/RyanBlaney/sonido-specshow/algorithms/spectral"
	"github.com/RyanBlaney/sonido-specshow/logging"
)

// Audio is decoded PCM. Multi-channel samples are interleaved.
type Audio struct {
	PCM        []float64     `json:"-"`
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"`
	Duration   time.Duration `json:"duration"`
	Source     *Metadata     `json:"source,omitempty"`
}

// Signal wraps the samples for analysis without copying
func (a *Audio) Signal() (spectral.Signal, error) {
	if a.Channels <= 1 {
		return spectral.Mono(a.PCM), nil
	}
	return spectral.Interleaved(a.PCM, a.Channels)
}

// Metadata holds the properties ffprobe reports for the input
type Metadata struct {
	SampleRate int     `json:"sample_rate"`
	Channels   int     `json:"channels"`
	Codec      string  `json:"codec"`
	Duration   float64 `json:"duration"`
	Bitrate    int     `json:"bitrate"`
	Format     string  `json:"format"`
}

// Config holds decoder configuration
type Config struct {
	SampleRate      int           `json:"sample_rate"`
	Channels        int           `json:"channels"`
	MaxDuration     time.Duration `json:"max_duration"`     // 0 decodes everything
	ResampleQuality string        `json:"resample_quality"` // "fast", "medium", "high"
	FFmpegPath      string        `json:"ffmpeg_path"`
	FFprobePath     string        `json:"ffprobe_path"`
	Timeout         time.Duration `json:"timeout"`
}

// DefaultConfig decodes to mono at 22050 Hz
func DefaultConfig() *Config {
	return &Config{
		SampleRate:      22050,
		Channels:        1,
		ResampleQuality: "medium",
		FFmpegPath:      "ffmpeg",
		FFprobePath:     "ffprobe",
		Timeout:         30 * time.Second,
	}
}

// Validate checks the configuration without touching the filesystem
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("target sample rate must be positive: %d", c.SampleRate)
	}
	if c.Channels <= 0 || c.Channels > 8 {
		return fmt.Errorf("target channels must be between 1 and 8: %d", c.Channels)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %v", c.Timeout)
	}
	switch c.ResampleQuality {
	case "", "fast", "medium", "high":
	default:
		return fmt.Errorf("unknown resample quality: %q", c.ResampleQuality)
	}
	return nil
}

// Decoder runs ffprobe and ffmpeg as subprocesses
type Decoder struct {
	config *Config
	logger logging.Logger
}

// NewDecoder creates a decoder; a nil config uses DefaultConfig and a nil
// logger the global one
func NewDecoder(config *Config, logger logging.Logger) *Decoder {
	if config == nil {
		config = DefaultConfig()
	}
	return &Decoder{
		config: config,
		logger: logging.OrGlobal(logger, "audio_decoder"),
	}
}

// DecodeFile probes and decodes an audio file
func (d *Decoder) DecodeFile(ctx context.Context, filename string) (*Audio, error) {
	if err := d.config.Validate(); err != nil {
		return nil, err
	}
	logger := d.logger.WithFields(logging.Fields{"filename": filename})

	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}

	metadata, err := d.Probe(ctx, filename)
	if err != nil {
		logger.Error(err, "Failed to probe audio file")
		return nil, err
	}

	logger.Debug("Audio metadata detected", logging.Fields{
		"input_sample_rate": metadata.SampleRate,
		"input_channels":    metadata.Channels,
		"input_codec":       metadata.Codec,
		"input_duration":    metadata.Duration,
	})

	args := append([]string{"-i", filename}, d.ffmpegArgs(metadata)...)
	args = append(args, "pipe:1")

	logger.Debug("Running ffmpeg command", logging.Fields{
		"args": strings.Join(args, " "),
	})

	output, err := exec.CommandContext(ctx, d.config.FFmpegPath, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logger.Error(err, "FFmpeg decode failed", logging.Fields{
				"stderr": string(exitErr.Stderr),
			})
		}
		return nil, fmt.Errorf("ffmpeg decode failed: %w", err)
	}

	return d.audioFromOutput(output, metadata)
}

// Probe reads the first audio stream's properties with ffprobe
func (d *Decoder) Probe(ctx context.Context, filename string) (*Metadata, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "a:0",
		filename,
	}

	output, err := exec.CommandContext(ctx, d.config.FFprobePath, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("ffprobe failed: %w, stderr: %s", err, string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseProbeOutput(output)
}

func parseProbeOutput(jsonData []byte) (*Metadata, error) {
	var probe struct {
		Streams []struct {
			CodecType     string `json:"codec_type"`
			CodecName     string `json:"codec_name"`
			SampleRate    string `json:"sample_rate"`
			Channels      int    `json:"channels"`
			Duration      string `json:"duration"`
			BitRate       string `json:"bit_rate"`
			CodecLongName string `json:"codec_long_name"`
		} `json:"streams"`
	}

	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	if len(probe.Streams) == 0 {
		return nil, errors.New("no audio streams found")
	}

	stream := probe.Streams[0]
	if stream.CodecType != "audio" {
		return nil, fmt.Errorf("stream is not audio type: %s", stream.CodecType)
	}
	if stream.Channels <= 0 || stream.Channels > 8 {
		return nil, fmt.Errorf("invalid channel count: %d", stream.Channels)
	}

	// missing or malformed numbers are reported as zero
	sampleRate, _ := strconv.Atoi(stream.SampleRate)
	duration, _ := strconv.ParseFloat(stream.Duration, 64)
	bitrate, _ := strconv.Atoi(stream.BitRate)

	return &Metadata{
		SampleRate: sampleRate,
		Channels:   stream.Channels,
		Codec:      stream.CodecName,
		Duration:   duration,
		Bitrate:    bitrate,
		Format:     stream.CodecLongName,
	}, nil
}

// ffmpegArgs builds the output arguments: raw little-endian float64 at the
// target rate and channel count
func (d *Decoder) ffmpegArgs(metadata *Metadata) []string {
	args := []string{
		"-f", "f64le",
		"-ac", strconv.Itoa(d.config.Channels),
		"-ar", strconv.Itoa(d.config.SampleRate),
	}

	if metadata.SampleRate != d.config.SampleRate {
		switch d.config.ResampleQuality {
		case "fast":
			args = append(args, "-af", "aresample=resampler=soxr:precision=16")
		case "medium":
			args = append(args, "-af", "aresample=resampler=soxr:precision=20")
		case "high":
			args = append(args, "-af", "aresample=resampler=soxr:precision=28")
		}
	}

	if d.config.MaxDuration > 0 {
		args = append(args, "-t", fmt.Sprintf("%.2f", d.config.MaxDuration.Seconds()))
	}

	return append(args, "-v", "error")
}

func (d *Decoder) audioFromOutput(output []byte, metadata *Metadata) (*Audio, error) {
	samples := bytesToFloat64(output)
	if len(samples) == 0 {
		return nil, errors.New("no audio samples decoded")
	}

	// drop a trailing partial frame
	channels := d.config.Channels
	samples = samples[:len(samples)-len(samples)%channels]

	perChannel := len(samples) / channels
	duration := time.Duration(perChannel) * time.Second / time.Duration(d.config.SampleRate)

	d.logger.Debug("FFmpeg decode completed", logging.Fields{
		"output_samples":     len(samples),
		"output_sample_rate": d.config.SampleRate,
		"output_channels":    channels,
		"output_duration":    duration.Seconds(),
	})

	return &Audio{
		PCM:        samples,
		SampleRate: d.config.SampleRate,
		Channels:   channels,
		Duration:   duration,
		Source:     metadata,
	}, nil
}

// bytesToFloat64 converts raw f64le bytes, ignoring a trailing partial sample
func bytesToFloat64(data []byte) []float64 {
	n := len(data) / 8
	if n == 0 {
		return nil
	}
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8 : i*8+8]))
	}
	return samples
}
