package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

var quarter = Duration{Value: 16, Name: "quarter"}

func scoreWith(symbols ...Symbol) Score {
	return Score{Staffs: []Staff{{Measures: []Measure{{Symbols: symbols}}}}}
}

func c4() Note {
	return Note{Pitch: Pitch{Step: "C", Octave: 4}, Duration: quarter}
}

func TestValidateAcceptsWellFormedScore(t *testing.T) {
	score := scoreWith(
		Clef{Sign: "F", Line: 4, Fifths: -3},
		TimeSignature{Numerator: 6, Denominator: 8},
		Chord{Notes: []Note{c4()}, Duration: quarter},
		Chord{IsRest: true, Duration: quarter},
	)

	assert.NoError(t, score.Validate())
}

func TestValidateAcceptsNegativeOctaves(t *testing.T) {
	n := c4()
	n.Pitch.Octave = -2

	assert.NoError(t, scoreWith(Chord{Notes: []Note{n}, Duration: quarter}).Validate())
}

func TestValidateRejects(t *testing.T) {
	badStep := c4()
	badStep.Pitch.Step = "H"
	zeroNote := c4()
	zeroNote.Duration.Value = 0

	cases := []struct {
		name   string
		symbol Symbol
	}{
		{"nil symbol", nil},
		{"step outside A-G", Chord{Notes: []Note{badStep}, Duration: quarter}},
		{"zero chord duration", Chord{Notes: []Note{c4()}, Duration: Duration{Name: "quarter"}}},
		{"zero note duration", Chord{Notes: []Note{zeroNote}, Duration: quarter}},
		{"rest with notes", Chord{IsRest: true, Notes: []Note{c4()}, Duration: quarter}},
		{"chord without notes", Chord{Duration: quarter}},
		{"missing duration name", Chord{IsRest: true, Duration: Duration{Value: 16}}},
		{"zero time denominator", TimeSignature{Numerator: 4}},
		{"unknown clef sign", Clef{Sign: "X", Line: 2}},
		{"key beyond seven sharps", Clef{Sign: "G", Line: 2, Fifths: 8}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := scoreWith(tc.symbol).Validate()
			assert.True(t, errors.Is(err, ErrInvalidScore), "got %v", err)
		})
	}
}
