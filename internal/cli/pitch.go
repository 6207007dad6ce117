package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-specshow/algorithms/timefreq"
)

// Pitch is one converted value
type Pitch struct {
	Input string  `yaml:"input" json:"input"`
	Hz    float64 `yaml:"hz" json:"hz"`
	MIDI  float64 `yaml:"midi" json:"midi"`
	Note  string  `yaml:"note" json:"note"`
	Octs  float64 `yaml:"octs" json:"octs"`
}

type pitchFlags struct {
	octave bool
	cents  bool
}

func newPitchCommand(a *app) *cobra.Command {
	f := &pitchFlags{}

	cmd := &cobra.Command{
		Use:   "pitch VALUE...",
		Short: "Convert between note names, frequencies and MIDI numbers",
		Long: `Convert each value to frequency, MIDI number, note name and octave number.
Numbers are read as frequencies in Hz, anything else as a note name such as
A4, C#3, Eb-1 or G4+25.

Examples:
  specinfo pitch A4 440 C#3
  specinfo pitch --cents 445`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPitch(cmd, f, args)
		},
	}

	cmd.Flags().BoolVar(&f.octave, "octave", true, "include the octave in note names")
	cmd.Flags().BoolVar(&f.cents, "cents", false, "include the cents offset in note names")
	cmd.Flags().Float64("tuning", 0, "tuning offset in fractions of a bin")
	configFlag(cmd.Flags(), "tuning", "display.tuning")

	return cmd
}

func (a *app) runPitch(cmd *cobra.Command, f *pitchFlags, args []string) error {
	octOpts := []timefreq.OctaveOption{
		timefreq.WithTuning(a.config.Display.Tuning),
		timefreq.WithBinsPerOctave(a.config.Display.BinsPerOctave),
		timefreq.WithOctaveLogger(a.logger),
	}

	out := make([]Pitch, 0, len(args))
	for _, arg := range args {
		p, err := convertPitch(strings.TrimSpace(arg), f.octave, f.cents)
		if err != nil {
			return err
		}
		p.Octs = timefreq.HzToOcts(p.Hz, octOpts...)
		out = append(out, p)
	}
	return a.write(cmd, out)
}

func convertPitch(arg string, octave, cents bool) (Pitch, error) {
	p := Pitch{Input: arg}

	if hz, err := strconv.ParseFloat(arg, 64); err == nil {
		if !(hz > 0) {
			return p, fmt.Errorf("frequency must be positive, got %s", arg)
		}
		p.Hz = hz
		p.MIDI = timefreq.HzToMIDI(hz)
	} else {
		midi, err := timefreq.NoteToFractionalMIDI(arg)
		if err != nil {
			return p, err
		}
		p.MIDI = midi
		p.Hz = timefreq.MIDIToHz(midi)
	}

	note, err := timefreq.MIDIToNote(p.MIDI, octave, cents)
	if err != nil {
		return p, err
	}
	p.Note = note
	return p, nil
}
