package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/sonido-specshow/algorithms/chroma"
	"github.com/RyanBlaney/sonido-specshow/algorithms/spectral"
	"github.com/RyanBlaney/sonido-specshow/algorithms/timefreq"
	"github.com/RyanBlaney/sonido-specshow/display"
	"github.com/RyanBlaney/sonido-specshow/logging"
	"github.com/RyanBlaney/sonido-specshow/transcode"
)

// Summary holds descriptive statistics of a series
type Summary struct {
	Mean float64 `yaml:"mean" json:"mean"`
	Std  float64 `yaml:"std" json:"std"`
	Min  float64 `yaml:"min" json:"min"`
	Max  float64 `yaml:"max" json:"max"`
}

func summarize(values []float64) Summary {
	mean, std := stat.MeanStdDev(values, nil)
	if len(values) < 2 {
		std = 0
	}
	return Summary{
		Mean: mean,
		Std:  std,
		Min:  floats.Min(values),
		Max:  floats.Max(values),
	}
}

// WaveformReport describes the waveform envelope
type WaveformReport struct {
	Points    int     `yaml:"points" json:"points"`
	HopLength int     `yaml:"hop_length" json:"hop_length"`
	Peak      float64 `yaml:"peak" json:"peak"`
}

// STFTReport is the output of the stft command
type STFTReport struct {
	Source        string         `yaml:"source" json:"source"`
	SampleRate    int            `yaml:"sample_rate" json:"sample_rate"`
	Samples       int            `yaml:"samples" json:"samples"`
	NFFT          int            `yaml:"n_fft" json:"n_fft"`
	HopLength     int            `yaml:"hop_length" json:"hop_length"`
	WinLength     int            `yaml:"win_length" json:"win_length"`
	Bins          int            `yaml:"bins" json:"bins"`
	Frames        int            `yaml:"frames" json:"frames"`
	PeakFrequency Summary        `yaml:"peak_frequency" json:"peak_frequency"`
	Level         Summary        `yaml:"level_db" json:"level_db"`
	Cmap          string         `yaml:"cmap" json:"cmap"`
	X             AxisLayout     `yaml:"x_axis" json:"x_axis"`
	Y             AxisLayout     `yaml:"y_axis" json:"y_axis"`
	Waveform      WaveformReport `yaml:"waveform" json:"waveform"`
	Chroma        *ChromaReport  `yaml:"chroma,omitempty" json:"chroma,omitempty"`
}

// ChromaReport describes the pitch-class content and how the chromagram
// and its tonnetz would be displayed
type ChromaReport struct {
	Dominant  string         `yaml:"dominant" json:"dominant"`
	Histogram map[string]int `yaml:"histogram" json:"histogram"`
	Cmap      string         `yaml:"cmap" json:"cmap"`
	Y         AxisLayout     `yaml:"y_axis" json:"y_axis"`
	Tonnetz   AxisLayout     `yaml:"tonnetz_axis" json:"tonnetz_axis"`
}

type stftFlags struct {
	input     string
	tone      float64
	duration  float64
	amplitude float64
	chroma    bool
}

func newSTFTCommand(a *app) *cobra.Command {
	f := &stftFlags{}

	cmd := &cobra.Command{
		Use:   "stft",
		Short: "Compute a spectrogram and report its layout",
		Long: `Compute the short-time Fourier transform of an audio file or a synthesized
sine tone, convert it to decibels and report level statistics, the dominant
frequency per frame and how the spectrogram would be displayed.

Examples:
  # 440 Hz tone for one second
  specinfo stft

  # decode a file with ffmpeg and show a log-frequency axis
  specinfo stft --input song.flac --y-axis log`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSTFT(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.input, "input", "i", "", "audio file to decode (default synthesizes a tone)")
	flags.Float64Var(&f.tone, "tone", 440, "tone frequency in Hz")
	flags.Float64Var(&f.duration, "duration", 1, "tone duration in seconds")
	flags.Float64Var(&f.amplitude, "amplitude", 0.5, "tone amplitude")
	flags.BoolVar(&f.chroma, "chroma", false, "also report the chromagram and tonnetz")

	flags.Int("n-fft", spectral.DefaultFFTSize, "FFT size")
	flags.Int("hop-length", 0, "frame hop (default win_length/4)")
	flags.String("window", "hann", "window, e.g. hann, kaiser:14")
	flags.Int("sample-rate", 22050, "analysis sample rate")
	flags.String("x-axis", string(display.AxisTime), "x axis type")
	flags.String("y-axis", string(display.AxisLinear), "y axis type")
	configFlag(flags, "n-fft", "stft.n_fft")
	configFlag(flags, "hop-length", "stft.hop_length")
	configFlag(flags, "window", "stft.window")
	configFlag(flags, "sample-rate", "display.sample_rate")
	configFlag(flags, "x-axis", "display.x_axis")
	configFlag(flags, "y-axis", "display.y_axis")

	return cmd
}

func (a *app) loadSignal(cmd *cobra.Command, f *stftFlags) (*transcode.Audio, string, error) {
	sr := a.config.Display.SampleRate

	if f.input != "" {
		audio, err := transcode.NewDecoder(a.config.DecoderConfig(), a.logger).DecodeFile(cmd.Context(), f.input)
		if err != nil {
			return nil, "", fmt.Errorf("failed to decode %s: %w", f.input, err)
		}
		return audio, f.input, nil
	}

	if !(f.duration > 0) {
		return nil, "", fmt.Errorf("duration must be positive, got %g", f.duration)
	}
	if !(f.tone >= 0) || f.tone >= float64(sr)/2 {
		return nil, "", fmt.Errorf("tone must be in [0, %d) Hz, got %g", sr/2, f.tone)
	}
	return synthesizeTone(f.tone, f.duration, f.amplitude, sr), fmt.Sprintf("tone:%gHz", f.tone), nil
}

func synthesizeTone(freq, seconds, amplitude float64, sampleRate int) *transcode.Audio {
	n := timefreq.TimeToSamples(seconds, float64(sampleRate))
	pcm := make([]float64, n)
	w := 2 * math.Pi * freq / float64(sampleRate)
	for i := range pcm {
		pcm[i] = amplitude * math.Sin(w*float64(i))
	}
	return &transcode.Audio{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   1,
	}
}

func (a *app) runSTFT(cmd *cobra.Command, f *stftFlags) error {
	audio, source, err := a.loadSignal(cmd, f)
	if err != nil {
		return err
	}
	sig, err := audio.Signal()
	if err != nil {
		return err
	}

	opts, err := a.config.STFTOptions(a.logger)
	if err != nil {
		return err
	}
	S, err := spectral.NewSTFT(opts...).Compute(sig)
	if err != nil {
		return err
	}
	power, err := S.Power()
	if err != nil {
		return err
	}
	db, err := spectral.PowerToDB(power, a.config.DBOptions(a.logger)...)
	if err != nil {
		return err
	}

	a.logger.Debug("Spectrogram computed", logging.Fields{
		"source": source,
		"bins":   S.Bins,
		"frames": S.Frames,
	})

	report := &STFTReport{
		Source:        source,
		SampleRate:    audio.SampleRate,
		Samples:       len(audio.PCM),
		NFFT:          S.NFFT,
		HopLength:     S.HopLength,
		WinLength:     S.WinLength,
		Bins:          S.Bins,
		Frames:        S.Frames,
		PeakFrequency: summarize(peakFrequencies(power, float64(audio.SampleRate), S.NFFT)),
		Level:         summarize(db.RawMatrix().Data),
	}

	if err := a.layout(report, db, sig, S); err != nil {
		return err
	}
	if f.chroma {
		report.Chroma, err = a.chromaReport(power, report)
		if err != nil {
			return err
		}
	}
	return a.write(cmd, report)
}

// peakFrequencies returns the frequency of the strongest bin of each frame
func peakFrequencies(power *mat.Dense, sampleRate float64, nFFT int) []float64 {
	freqs := timefreq.FFTFrequencies(sampleRate, nFFT)
	_, frames := power.Dims()

	peaks := make([]float64, frames)
	col := make([]float64, len(freqs))
	for t := range frames {
		mat.Col(col, t, power)
		peaks[t] = freqs[floats.MaxIdx(col)]
	}
	return peaks
}

// layout draws the dB spectrogram and the waveform on a recording surface
func (a *app) layout(report *STFTReport, db *mat.Dense, sig spectral.Signal, S *spectral.Spectrogram) error {
	xAxis, err := display.ParseAxisType(a.config.Display.XAxis)
	if err != nil {
		return err
	}
	yAxis, err := display.ParseAxisType(a.config.Display.YAxis)
	if err != nil {
		return err
	}

	params := a.config.CoordParams()
	params.SampleRate = float64(report.SampleRate)
	params.HopLength = S.HopLength

	surface := newLayoutSurface()
	ctx := display.NewContext(surface,
		display.WithPalette(a.config.Palette()),
		display.WithContextLogger(a.logger))

	opts := display.DefaultSpecshowOptions()
	opts.XAxis = xAxis
	opts.YAxis = yAxis
	opts.Params = params
	opts.Robust = a.config.Display.Robust

	mesh, err := display.Specshow(ctx, db, opts)
	if err != nil {
		return err
	}
	report.Cmap = mesh.Cmap
	report.X = surface.layout(display.XAxis)
	report.Y = surface.layout(display.YAxis)

	env, err := display.Waveplot(ctx, sig, report.SampleRate, display.DefaultWaveplotOptions())
	if err != nil {
		return err
	}
	report.Waveform = WaveformReport{
		Points:    len(env.Times),
		HopLength: env.HopLength,
		Peak:      floats.Max(env.Upper),
	}
	return nil
}

// chromaReport folds the power spectrogram onto pitch classes and lays out
// the chromagram and its tonnetz
func (a *app) chromaReport(power *mat.Dense, report *STFTReport) (*ChromaReport, error) {
	tuning := a.config.Display.Tuning * 12 / float64(a.config.Display.BinsPerOctave)
	C, err := chroma.FromPower(power, float64(report.SampleRate), report.NFFT, chroma.WithTuning(tuning))
	if err != nil {
		return nil, err
	}
	T, err := chroma.Tonnetz(C)
	if err != nil {
		return nil, err
	}

	hist := chroma.Histogram(chroma.Dominant(C))
	out := &ChromaReport{Histogram: map[string]int{}}
	best := 0
	for pc, count := range hist {
		if count == 0 {
			continue
		}
		out.Histogram[timefreq.PitchClassNames[pc]] = count
		if count > hist[best] {
			best = pc
		}
	}
	out.Dominant = timefreq.PitchClassNames[best]

	params := a.config.CoordParams()
	params.SampleRate = float64(report.SampleRate)
	params.HopLength = report.HopLength
	params.BinsPerOctave = chroma.Bins

	opts := display.DefaultSpecshowOptions()
	opts.XAxis = display.AxisTime
	opts.Params = params
	opts.Robust = a.config.Display.Robust

	surface := newLayoutSurface()
	ctx := display.NewContext(surface,
		display.WithPalette(a.config.Palette()),
		display.WithContextLogger(a.logger))

	opts.YAxis = display.AxisChroma
	mesh, err := display.Specshow(ctx, C, opts)
	if err != nil {
		return nil, err
	}
	out.Cmap = mesh.Cmap
	out.Y = surface.layout(display.YAxis)

	opts.YAxis = display.AxisTonnetz
	if _, err := display.Specshow(ctx, T, opts); err != nil {
		return nil, err
	}
	out.Tonnetz = surface.layout(display.YAxis)

	return out, nil
}
