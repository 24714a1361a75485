package chord

import (
	"sort"
	"strings"

	"github.com/jsphweid/scorexml/midi"
	"github.com/jsphweid/scorexml/model"
)

// MaxDuration is the longest individual note in the chord. Rests have no
// notes and fall back to the chord's own duration.
func MaxDuration(c model.Chord) int {
	if len(c.Notes) == 0 {
		return c.Duration.Value
	}
	longest := c.Notes[0].Duration.Value
	for _, n := range c.Notes[1:] {
		if n.Duration.Value > longest {
			longest = n.Duration.Value
		}
	}
	return longest
}

// Backup is how far the time cursor has to be rewound after the chord's
// notes so that chord duration plus backup equals MaxDuration. Only
// shortfalls are compensated; a chord longer than all its notes gets 0.
func Backup(c model.Chord) int {
	diff := MaxDuration(c) - c.Duration.Value
	if diff < 0 {
		return 0
	}
	return diff
}

// CreateChordKey names the chord by its pitches, lowest first, e.g. "C4-E4-G4".
func CreateChordKey(c model.Chord) string {
	if c.IsRest {
		return "rest"
	}
	notes := make([]model.Note, len(c.Notes))
	copy(notes, c.Notes)
	sort.SliceStable(notes, func(i, j int) bool {
		return midi.Value(notes[i].Pitch) < midi.Value(notes[j].Pitch)
	})
	names := make([]string, 0, len(notes))
	for _, n := range notes {
		names = append(names, n.Pitch.String())
	}
	return strings.Join(names, "-")
}
