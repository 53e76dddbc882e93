package audio

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rest is returned by ParseNote for "-".
const Rest = -1

// noteFrequencies holds MIDI notes 0-127, A4 (69) = 440Hz, equal temperament.
var noteFrequencies [128]float64

func init() {
	for i := range noteFrequencies {
		noteFrequencies[i] = 440.0 * math.Pow(2, (float64(i)-69.0)/12.0)
	}
}

// NoteFreq returns the frequency in Hz for a MIDI note number, or 0 if out of range.
func NoteFreq(midi int) float64 {
	if midi < 0 || midi >= len(noteFrequencies) {
		return 0
	}
	return noteFrequencies[midi]
}

var semitones = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// ParseNote converts scientific pitch notation ("A4", "C#3", "Bb2") to a
// MIDI note number. "-" is a rest.
func ParseNote(s string) (int, error) {
	if s == "-" {
		return Rest, nil
	}
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid note %q", s)
	}
	base, ok := semitones[strings.ToUpper(s[:1])[0]]
	if !ok {
		return 0, fmt.Errorf("invalid note name %q", s)
	}
	rest := s[1:]
	switch rest[0] {
	case '#':
		base++
		rest = rest[1:]
	case 'b':
		base--
		rest = rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("invalid octave in note %q", s)
	}
	midi := (octave+1)*12 + base
	if midi < 0 || midi > 127 {
		return 0, fmt.Errorf("note %q out of range", s)
	}
	return midi, nil
}

// ParseNotes splits a whitespace separated note string.
func ParseNotes(s string) ([]int, error) {
	fields := strings.Fields(s)
	notes := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := ParseNote(f)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, nil
}
