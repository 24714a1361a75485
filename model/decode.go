package model

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// Score files are YAML; JSON documents decode through the same path.
//
//	title: Minuet
//	staffs:
//	  - measures:
//	      - symbols:
//	          - clef: {sign: G, line: 2, fifths: 0}
//	          - time: {beats: 3, beat_type: 4}
//	          - chord:
//	              duration: {value: 16, name: quarter}
//	              notes:
//	                - {step: C, octave: 4, duration: {value: 16, name: quarter}}
type scoreFile struct {
	Title  string      `yaml:"title"`
	Staffs []staffFile `yaml:"staffs"`
}

type staffFile struct {
	Measures []measureFile `yaml:"measures"`
}

type measureFile struct {
	NewLine bool         `yaml:"new_line"`
	Symbols []symbolFile `yaml:"symbols"`
}

type symbolFile struct {
	Clef  *clefFile  `yaml:"clef"`
	Time  *timeFile  `yaml:"time"`
	Chord *chordFile `yaml:"chord"`
}

type clefFile struct {
	Sign   string `yaml:"sign"`
	Line   int    `yaml:"line"`
	Fifths int    `yaml:"fifths"`
}

type timeFile struct {
	Beats    int `yaml:"beats"`
	BeatType int `yaml:"beat_type"`
}

type durationFile struct {
	Value    int    `yaml:"value"`
	Name     string `yaml:"name"`
	Modifier string `yaml:"modifier"`
}

type noteFile struct {
	Step     string       `yaml:"step"`
	Alter    *int         `yaml:"alter"`
	Octave   int          `yaml:"octave"`
	Duration durationFile `yaml:"duration"`
}

type chordFile struct {
	Rest     bool         `yaml:"rest"`
	Duration durationFile `yaml:"duration"`
	Notes    []noteFile   `yaml:"notes"`
}

func Decode(r io.Reader) (Score, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Score{}, err
	}
	return DecodeBytes(data)
}

func DecodeBytes(data []byte) (Score, error) {
	var f scoreFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Score{}, fmt.Errorf("%w: %v", ErrInvalidScore, err)
	}

	score := Score{Title: f.Title}
	for si, sf := range f.Staffs {
		var staff Staff
		for mi, mf := range sf.Measures {
			measure := Measure{IsNewLine: mf.NewLine}
			for yi, yf := range mf.Symbols {
				sym, err := yf.symbol()
				if err != nil {
					return Score{}, fmt.Errorf("%w: staff %d measure %d symbol %d: %v", ErrInvalidScore, si+1, mi+1, yi+1, err)
				}
				measure.Symbols = append(measure.Symbols, sym)
			}
			staff.Measures = append(staff.Measures, measure)
		}
		score.Staffs = append(score.Staffs, staff)
	}
	return score, nil
}

func (f symbolFile) symbol() (Symbol, error) {
	var kinds int
	for _, set := range []bool{f.Clef != nil, f.Time != nil, f.Chord != nil} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		return nil, fmt.Errorf("expected exactly one of clef, time or chord, got %d", kinds)
	}

	switch {
	case f.Clef != nil:
		return Clef{Sign: f.Clef.Sign, Line: f.Clef.Line, Fifths: f.Clef.Fifths}, nil
	case f.Time != nil:
		return TimeSignature{Numerator: f.Time.Beats, Denominator: f.Time.BeatType}, nil
	}

	d, err := f.Chord.Duration.duration()
	if err != nil {
		return nil, err
	}
	c := Chord{Duration: d, IsRest: f.Chord.Rest}
	for _, nf := range f.Chord.Notes {
		nd, err := nf.Duration.duration()
		if err != nil {
			return nil, err
		}
		c.Notes = append(c.Notes, Note{
			Pitch:    Pitch{Step: nf.Step, Alter: nf.Alter, Octave: nf.Octave},
			Duration: nd,
		})
	}
	return c, nil
}

func (f durationFile) duration() (Duration, error) {
	m, err := ParseDurationModifier(f.Modifier)
	if err != nil {
		return Duration{}, err
	}
	return Duration{Value: f.Value, Name: f.Name, Modifier: m}, nil
}
