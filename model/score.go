package model

// Symbol is one of Clef, TimeSignature or Chord. The set is closed: only
// types in this package can satisfy it.
type Symbol interface {
	symbol()
}

type Clef struct {
	Sign   string `validate:"oneof=G F C percussion TAB jianpu none"`
	Line   int    `validate:"gte=0,lte=5"`
	Fifths int    `validate:"gte=-7,lte=7"`
}

type TimeSignature struct {
	Numerator   int `validate:"gt=0"`
	Denominator int `validate:"gt=0"`
}

func (Clef) symbol()          {}
func (TimeSignature) symbol() {}
func (Chord) symbol()         {}

type Measure struct {
	Symbols   []Symbol
	IsNewLine bool
}

type Staff struct {
	Measures []Measure
}

type Score struct {
	Title  string
	Staffs []Staff
}

// EachNote calls fn for every sounding note across staffs, skipping rests.
func EachNote(staffs []Staff, fn func(Note)) {
	for _, staff := range staffs {
		for _, measure := range staff.Measures {
			for _, sym := range measure.Symbols {
				c, ok := sym.(Chord)
				if !ok || c.IsRest {
					continue
				}
				for _, n := range c.Notes {
					fn(n)
				}
			}
		}
	}
}
