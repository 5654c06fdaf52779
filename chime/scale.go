package chime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Note is one chime tube. The frequency is only ever consumed by the
// tone engine, the striker picks tubes by index.
type Note struct {
	Name      string
	Frequency float64
}

// Scale is the ordered set of tubes hung on the chime.
type Scale []Note

var semitones = map[string]int{
	"C": 0, "C#": 1, "DB": 1,
	"D": 2, "D#": 3, "EB": 3,
	"E": 4,
	"F": 5, "F#": 6, "GB": 6,
	"G": 7, "G#": 8, "AB": 8,
	"A": 9, "A#": 10, "BB": 10,
	"B": 11,
}

// ParseNote converts scientific pitch notation ("A4", "F#5") to a Note.
// A4 is 440Hz.
func ParseNote(name string) (Note, error) {
	s := strings.ToUpper(strings.TrimSpace(name))
	if len(s) < 2 {
		return Note{}, fmt.Errorf("bad note [%v]", name)
	}
	split := 1
	if s[1] == '#' || s[1] == 'B' {
		split = 2
	}
	semi, ok := semitones[s[:split]]
	if !ok {
		return Note{}, fmt.Errorf("bad note [%v]", name)
	}
	octave, err := strconv.Atoi(s[split:])
	if err != nil {
		return Note{}, fmt.Errorf("bad octave in note [%v]", name)
	}
	midi := (octave+1)*12 + semi
	freq := 440.0 * math.Pow(2, float64(midi-69)/12.0)
	return Note{Name: s, Frequency: freq}, nil
}

// NewScale builds a scale from note names, in the order the tubes hang.
func NewScale(names ...string) (Scale, error) {
	scale := make(Scale, 0, len(names))
	for _, n := range names {
		note, err := ParseNote(n)
		if err != nil {
			return nil, err
		}
		scale = append(scale, note)
	}
	return scale, nil
}

func mustScale(names ...string) Scale {
	s, err := NewScale(names...)
	if err != nil {
		panic(err)
	}
	return s
}

// The tube sets this firmware has been cut for. HavaNegila matches the
// six tube heirloom chime the project started with.
var scales = map[string]Scale{
	"pentatonic":  mustScale("C5", "D5", "E5", "G5", "A5", "C6"),
	"havanegila":  mustScale("E4", "F4", "G#4", "A4", "B4", "C5"),
	"westminster": mustScale("G#4", "F#4", "E4", "B3"),
}

// ScaleByName looks up a preset tube set.
func ScaleByName(name string) (Scale, error) {
	s, ok := scales[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown scale [%v]", ErrBadScale, name)
	}
	return s, nil
}

// ScaleNames lists the presets, for the usage text.
func ScaleNames() []string {
	names := make([]string, 0, len(scales))
	for n := range scales {
		names = append(names, n)
	}
	return names
}
