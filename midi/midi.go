package midi

import (
	"errors"
	"fmt"

	"github.com/jsphweid/scorexml/model"
	gomidi "gitlab.com/gomidi/midi/v2"
)

var ErrOutOfRange = errors.New("pitch outside midi range")

var stepSemitones = map[string]int{"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11}

// Value is the midi key number of p, with C4 = 60. It may fall outside
// 0-127 for pitches recognized in a wrong register.
func Value(p model.Pitch) int {
	return (p.Octave+1)*12 + stepSemitones[p.Step] + p.Alteration()
}

func Note(p model.Pitch) (gomidi.Note, error) {
	v := Value(p)
	if v < 0 || v > 127 {
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, p)
	}
	return gomidi.Note(uint8(v)), nil
}

// Describe names the sounding pitch, so B#3 and C4 both read "C4".
func Describe(p model.Pitch) string {
	n, err := Note(p)
	if err != nil {
		return p.String()
	}
	return fmt.Sprintf("%s%d", n.Name(), int(n)/12-1)
}

// OctaveShift is the number of octaves every note has to be raised so that
// the lowest octave across staffs is no longer negative. Rests are ignored.
func OctaveShift(staffs []model.Staff) int {
	lowest, seen := 0, false
	model.EachNote(staffs, func(n model.Note) {
		if !seen || n.Pitch.Octave < lowest {
			lowest = n.Pitch.Octave
			seen = true
		}
	})
	if lowest >= 0 {
		return 0
	}
	return -lowest
}

// Range reports the lowest and highest sounding pitch of a staff.
func Range(staff model.Staff) (low, high model.Pitch, ok bool) {
	model.EachNote([]model.Staff{staff}, func(n model.Note) {
		if !ok || Value(n.Pitch) < Value(low) {
			low = n.Pitch
		}
		if !ok || Value(n.Pitch) > Value(high) {
			high = n.Pitch
		}
		ok = true
	})
	return low, high, ok
}
