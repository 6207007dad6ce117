package timefreq

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/RyanBlaney/sonido-specshow/algorithms/common"
)

// Semitone offsets of the natural pitch letters from C
var pitchMap = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

var accidentalMap = map[rune]int{'#': 1, 'b': -1, '!': -1}

// PitchClassNames lists the twelve pitch classes starting from C
var PitchClassNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var notePattern = regexp.MustCompile(`^(?P<note>[A-Ga-g])` +
	`(?P<accidental>[#b!]*)` +
	`(?P<octave>[+-]?\d+)?` +
	`(?P<cents>[+-]\d+)?$`)

// NoteToMIDI converts a note name such as "C4", "Eb3" or "A#2-25" to a MIDI number,
// rounded to the nearest integer
func NoteToMIDI(note string) (float64, error) {
	value, err := NoteToFractionalMIDI(note)
	if err != nil {
		return 0, err
	}
	return math.RoundToEven(value), nil
}

// NoteToFractionalMIDI is NoteToMIDI without rounding, so cents are preserved
func NoteToFractionalMIDI(note string) (float64, error) {
	match := notePattern.FindStringSubmatch(note)
	if match == nil {
		return 0, common.ValueError("note_to_midi", "improper note format: %q", note)
	}

	pitch := pitchMap[strings.ToUpper(match[1])[0]]

	offset := 0
	for _, acc := range match[2] {
		offset += accidentalMap[acc]
	}

	octave := 0
	if match[3] != "" {
		o, err := strconv.Atoi(match[3])
		if err != nil {
			return 0, common.ValueError("note_to_midi", "invalid octave in %q", note)
		}
		octave = o
	}

	cents := 0.0
	if match[4] != "" {
		c, err := strconv.Atoi(match[4])
		if err != nil {
			return 0, common.ValueError("note_to_midi", "invalid cents in %q", note)
		}
		cents = float64(c) * 1e-2
	}

	return float64(12*(octave+1)+pitch+offset) + cents, nil
}

// NotesToMIDI converts each note name with NoteToMIDI
func NotesToMIDI(notes []string) ([]float64, error) {
	out := make([]float64, len(notes))
	for i, n := range notes {
		m, err := NoteToMIDI(n)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

// MIDIToNote formats a MIDI number as a note name. The octave suffix is
// note/12 - 1; the cents suffix is signed. Cents require the octave.
func MIDIToNote(midi float64, octave, cents bool) (string, error) {
	if cents && !octave {
		return "", common.ValueError("midi_to_note", "cannot encode cents without octave information")
	}

	noteNum := int(math.RoundToEven(midi))
	noteCents := int(math.RoundToEven((midi - float64(noteNum)) * 100))

	note := PitchClassNames[common.Mod(noteNum, 12)]
	if octave {
		// octave division truncates toward zero, so -1 is B-1 and -13 is B-2
		note = fmt.Sprintf("%s%d", note, noteNum/12-1)
	}
	if cents {
		note = fmt.Sprintf("%s%+02d", note, noteCents)
	}

	return note, nil
}

// MIDIToNotes formats each MIDI number with MIDIToNote
func MIDIToNotes(midi []float64, octave, cents bool) ([]string, error) {
	out := make([]string, len(midi))
	for i, m := range midi {
		n, err := MIDIToNote(m, octave, cents)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// MIDIToHz converts MIDI numbers to frequency, with A4 = 69 = 440 Hz
func MIDIToHz(midi float64) float64 {
	return 440.0 * math.Pow(2.0, (midi-69.0)/12.0)
}

// HzToMIDI converts frequency to a (fractional) MIDI number
func HzToMIDI(hz float64) float64 {
	return 12*(math.Log2(hz)-math.Log2(440.0)) + 69
}

// NoteToHz converts a note name to frequency via NoteToMIDI
func NoteToHz(note string) (float64, error) {
	midi, err := NoteToMIDI(note)
	if err != nil {
		return 0, err
	}
	return MIDIToHz(midi), nil
}

// HzToNote converts frequency to the nearest note name
func HzToNote(hz float64, octave, cents bool) (string, error) {
	return MIDIToNote(HzToMIDI(hz), octave, cents)
}

// Map applies a scalar conversion to every element, e.g. Map(freqs, HzToMIDI)
func Map(values []float64, fn func(float64) float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = fn(v)
	}
	return out
}
