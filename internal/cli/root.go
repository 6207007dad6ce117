// Package cli implements the specinfo command tree
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sonido-specshow/internal/config"
	"github.com/RyanBlaney/sonido-specshow/logging"
)

// app holds state shared by every subcommand once the root has loaded
// configuration
type app struct {
	configFile string
	viper      *viper.Viper
	config     *config.Config
	logger     logging.Logger
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "specinfo",
		Short: "Inspect spectrograms, display axes and pitch conversions",
		Long: `specinfo computes short-time Fourier transforms of audio files or
synthesized tones, and reports how a spectrogram would be laid out on screen:
mesh coordinates, scales, tick positions and labels for every axis type.

Settings come from defaults, an optional YAML config file, SPECINFO_*
environment variables and flags, in increasing priority.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (YAML)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringP("output", "o", "yaml", "output format (yaml, json)")

	root.AddCommand(newSTFTCommand(a), newCoordsCommand(a), newPitchCommand(a))
	return root
}

// Execute runs the command tree against the process arguments
func Execute() error {
	return NewRootCommand().Execute()
}

func (a *app) initialize(cmd *cobra.Command) error {
	v, err := config.New(a.configFile)
	if err != nil {
		return err
	}
	if err := v.BindPFlag("log_level", cmd.Root().PersistentFlags().Lookup("log-level")); err != nil {
		return err
	}
	if err := v.BindPFlag("output", cmd.Root().PersistentFlags().Lookup("output")); err != nil {
		return err
	}
	if err := bindFlags(cmd, v); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.viper = v
	a.config = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	a.logger.Debug("Configuration loaded", logging.Fields{
		"config_file": v.ConfigFileUsed(),
		"output":      cfg.Output,
	})
	return nil
}

// bindFlags binds a subcommand's local flags to the config key of the same
// name with dashes replaced, e.g. --n-fft to stft.n_fft
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var bindErr error
	cmd.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		key, ok := f.Annotations[configKeyAnnotation]
		if !ok || len(key) == 0 || bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(key[0], f)
	})
	return bindErr
}

const configKeyAnnotation = "specinfo_config_key"

// configFlag marks a flag as overriding a config key
func configFlag(flags *pflag.FlagSet, name, key string) {
	_ = flags.SetAnnotation(name, configKeyAnnotation, []string{key})
}

func newLogger(w io.Writer, level string) logging.Logger {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		lvl = logging.InfoLevel
	}
	return logging.NewWriterLogger(w, lvl)
}

// write encodes v to the command's output in the configured format
func (a *app) write(cmd *cobra.Command, v any) error {
	out := cmd.OutOrStdout()
	switch strings.ToLower(a.config.Output) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		return enc.Close()
	}
}
