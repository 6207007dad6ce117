// Package config loads specinfo settings from defaults, a YAML file, the
// environment and bound flags through viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/RyanBlaney/sonido-specshow/algorithms/spectral"
	"github.com/RyanBlaney/sonido-specshow/algorithms/windowing"
	"github.com/RyanBlaney/sonido-specshow/display"
	"github.com/RyanBlaney/sonido-specshow/logging"
	"github.com/RyanBlaney/sonido-specshow/transcode"
)

// EnvPrefix namespaces environment overrides, e.g. SPECINFO_STFT_N_FFT
const EnvPrefix = "SPECINFO"

// Config is the full application configuration
type Config struct {
	LogLevel string        `mapstructure:"log_level"`
	Output   string        `mapstructure:"output"`
	STFT     STFTConfig    `mapstructure:"stft"`
	DB       DBConfig      `mapstructure:"db"`
	Display  DisplayConfig `mapstructure:"display"`
	Decode   DecodeConfig  `mapstructure:"decode"`
}

// STFTConfig contains transform settings. Zero hop or window length selects
// the transform's own default.
type STFTConfig struct {
	NFFT      int    `mapstructure:"n_fft"`
	HopLength int    `mapstructure:"hop_length"`
	WinLength int    `mapstructure:"win_length"`
	Window    string `mapstructure:"window"`
	Center    bool   `mapstructure:"center"`
	PadMode   string `mapstructure:"pad_mode"`
}

// DBConfig contains level conversion settings. A negative TopDB disables
// the dynamic range clamp.
type DBConfig struct {
	Ref   float64 `mapstructure:"ref"`
	Amin  float64 `mapstructure:"amin"`
	TopDB float64 `mapstructure:"top_db"`
}

// DisplayConfig contains axis and color settings
type DisplayConfig struct {
	SampleRate    int     `mapstructure:"sample_rate"`
	XAxis         string  `mapstructure:"x_axis"`
	YAxis         string  `mapstructure:"y_axis"`
	FMin          float64 `mapstructure:"fmin"`
	FMax          float64 `mapstructure:"fmax"`
	Tuning        float64 `mapstructure:"tuning"`
	BinsPerOctave int     `mapstructure:"bins_per_octave"`
	Robust        bool    `mapstructure:"robust"`
	CmapSeq       string  `mapstructure:"cmap_seq"`
	CmapDiv       string  `mapstructure:"cmap_div"`
	CmapBool      string  `mapstructure:"cmap_bool"`
}

// DecodeConfig contains ffmpeg settings for file input. Files are decoded
// at display.sample_rate.
type DecodeConfig struct {
	FFmpegPath      string        `mapstructure:"ffmpeg_path"`
	FFprobePath     string        `mapstructure:"ffprobe_path"`
	ResampleQuality string        `mapstructure:"resample_quality"`
	MaxDuration     time.Duration `mapstructure:"max_duration"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// SetDefaults registers every key's default on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("output", "yaml")

	v.SetDefault("stft.n_fft", spectral.DefaultFFTSize)
	v.SetDefault("stft.hop_length", 0)
	v.SetDefault("stft.win_length", 0)
	v.SetDefault("stft.window", windowing.NameHann)
	v.SetDefault("stft.center", true)
	v.SetDefault("stft.pad_mode", "reflect")

	v.SetDefault("db.ref", 1.0)
	v.SetDefault("db.amin", spectral.DefaultPowerAmin)
	v.SetDefault("db.top_db", spectral.DefaultTopDB)

	palette := display.DefaultPalette()
	params := display.DefaultCoordParams()
	v.SetDefault("display.sample_rate", int(params.SampleRate))
	v.SetDefault("display.x_axis", string(display.AxisTime))
	v.SetDefault("display.y_axis", string(display.AxisLinear))
	v.SetDefault("display.fmin", 0.0)
	v.SetDefault("display.fmax", 0.0)
	v.SetDefault("display.tuning", 0.0)
	v.SetDefault("display.bins_per_octave", params.BinsPerOctave)
	v.SetDefault("display.robust", true)
	v.SetDefault("display.cmap_seq", palette.Sequential)
	v.SetDefault("display.cmap_div", palette.Diverging)
	v.SetDefault("display.cmap_bool", palette.Boolean)

	decode := transcode.DefaultConfig()
	v.SetDefault("decode.ffmpeg_path", decode.FFmpegPath)
	v.SetDefault("decode.ffprobe_path", decode.FFprobePath)
	v.SetDefault("decode.resample_quality", decode.ResampleQuality)
	v.SetDefault("decode.max_duration", decode.MaxDuration)
	v.SetDefault("decode.timeout", decode.Timeout)
}

// New returns a viper instance with defaults and environment overrides
// wired. When file is non-empty it is read as the config file.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}
	return v, nil
}

// Load decodes and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.Output {
	case "yaml", "json":
	default:
		errs = append(errs, fmt.Errorf("output must be yaml or json, got %q", c.Output))
	}

	if c.STFT.NFFT <= 0 {
		errs = append(errs, fmt.Errorf("stft.n_fft must be positive"))
	}
	if c.STFT.HopLength < 0 {
		errs = append(errs, fmt.Errorf("stft.hop_length cannot be negative"))
	}
	if c.STFT.WinLength < 0 || c.STFT.WinLength > c.STFT.NFFT {
		errs = append(errs, fmt.Errorf("stft.win_length must be between 0 and n_fft"))
	}
	if _, err := windowing.ParseSpec(c.STFT.Window); err != nil {
		errs = append(errs, err)
	}
	if _, err := spectral.ParsePadMode(c.STFT.PadMode); err != nil {
		errs = append(errs, err)
	}

	if !(c.DB.Amin > 0) {
		errs = append(errs, fmt.Errorf("db.amin must be positive"))
	}

	if c.Display.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("display.sample_rate must be positive"))
	}
	if c.Display.BinsPerOctave <= 0 {
		errs = append(errs, fmt.Errorf("display.bins_per_octave must be positive"))
	}
	if c.Display.FMin < 0 || c.Display.FMax < 0 {
		errs = append(errs, fmt.Errorf("display frequency limits cannot be negative"))
	}
	for _, axis := range []string{c.Display.XAxis, c.Display.YAxis} {
		if _, err := display.ParseAxisType(axis); err != nil {
			errs = append(errs, err)
		}
	}

	if err := c.DecoderConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("decode: %w", err))
	}
	if c.Decode.MaxDuration < 0 {
		errs = append(errs, fmt.Errorf("decode.max_duration cannot be negative"))
	}

	return errors.Join(errs...)
}

// STFTOptions converts the stft section into transform options
func (c *Config) STFTOptions(logger logging.Logger) ([]spectral.Option, error) {
	window, err := windowing.ParseSpec(c.STFT.Window)
	if err != nil {
		return nil, err
	}
	padMode, err := spectral.ParsePadMode(c.STFT.PadMode)
	if err != nil {
		return nil, err
	}

	opts := []spectral.Option{
		spectral.WithFFTSize(c.STFT.NFFT),
		spectral.WithWindow(window),
		spectral.WithCenter(c.STFT.Center),
		spectral.WithPadMode(padMode),
		spectral.WithLogger(logger),
	}
	if c.STFT.HopLength > 0 {
		opts = append(opts, spectral.WithHopLength(c.STFT.HopLength))
	}
	if c.STFT.WinLength > 0 {
		opts = append(opts, spectral.WithWinLength(c.STFT.WinLength))
	}
	return opts, nil
}

// DBOptions converts the db section into level conversion options
func (c *Config) DBOptions(logger logging.Logger) []spectral.DBOption {
	opts := []spectral.DBOption{
		spectral.WithRef(c.DB.Ref),
		spectral.WithAmin(c.DB.Amin),
		spectral.WithDBLogger(logger),
	}
	if c.DB.TopDB < 0 {
		return append(opts, spectral.WithoutTopDB())
	}
	return append(opts, spectral.WithTopDB(c.DB.TopDB))
}

// CoordParams returns the axis parameters. The hop length follows the stft
// section so frame axes line up with computed spectrograms.
func (c *Config) CoordParams() display.CoordParams {
	hop := c.STFT.HopLength
	if hop <= 0 {
		win := c.STFT.WinLength
		if win <= 0 {
			win = c.STFT.NFFT
		}
		hop = max(1, win/4)
	}
	return display.CoordParams{
		SampleRate:    float64(c.Display.SampleRate),
		HopLength:     hop,
		FMin:          c.Display.FMin,
		FMax:          c.Display.FMax,
		Tuning:        c.Display.Tuning,
		BinsPerOctave: c.Display.BinsPerOctave,
	}
}

// DecoderConfig returns mono decoding at the display sample rate
func (c *Config) DecoderConfig() *transcode.Config {
	return &transcode.Config{
		SampleRate:      c.Display.SampleRate,
		Channels:        1,
		MaxDuration:     c.Decode.MaxDuration,
		ResampleQuality: c.Decode.ResampleQuality,
		FFmpegPath:      c.Decode.FFmpegPath,
		FFprobePath:     c.Decode.FFprobePath,
		Timeout:         c.Decode.Timeout,
	}
}

// Palette returns the configured color maps
func (c *Config) Palette() display.Palette {
	return display.Palette{
		Sequential: c.Display.CmapSeq,
		Diverging:  c.Display.CmapDiv,
		Boolean:    c.Display.CmapBool,
	}
}
