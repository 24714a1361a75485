package model

import (
	"fmt"
	"strings"
)

type Pitch struct {
	Step   string `validate:"oneof=A B C D E F G"`
	Alter  *int   // nil when no alteration was recognized
	Octave int
}

func (p Pitch) Alteration() int {
	if p.Alter == nil {
		return 0
	}
	return *p.Alter
}

func (p Pitch) String() string {
	var accidental string
	switch a := p.Alteration(); {
	case a > 0:
		accidental = strings.Repeat("#", a)
	case a < 0:
		accidental = strings.Repeat("b", -a)
	}
	return fmt.Sprintf("%s%s%d", p.Step, accidental, p.Octave)
}

type DurationModifier uint8

const (
	NoModifier DurationModifier = iota
	Dotted
	Triplet
)

func (m DurationModifier) String() string {
	switch m {
	case Dotted:
		return "dotted"
	case Triplet:
		return "triplet"
	default:
		return "none"
	}
}

func ParseDurationModifier(s string) (DurationModifier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return NoModifier, nil
	case "dot", "dotted":
		return Dotted, nil
	case "triplet":
		return Triplet, nil
	}
	return NoModifier, fmt.Errorf("unknown duration modifier %q", s)
}

// Duration values are in divisions of a quarter note.
type Duration struct {
	Value    int              `validate:"gt=0"`
	Name     string           `validate:"required"`
	Modifier DurationModifier `validate:"lte=2"`
}

type Note struct {
	Pitch    Pitch
	Duration Duration
}

type Chord struct {
	Notes    []Note `validate:"dive"`
	Duration Duration
	IsRest   bool
}
