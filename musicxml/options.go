package musicxml

import (
	"github.com/jsphweid/scorexml/constants"
	"github.com/jsphweid/scorexml/partlist"
)

// Options is everything a build depends on besides the score itself. Two
// builders with different options can run side by side.
type Options struct {
	// LargePage emits a page layout of PageWidth x PageHeight tenths.
	LargePage  bool
	PageWidth  int
	PageHeight int

	// Metronome adds a quarter = Metronome marking to the first measure of
	// the first part when non-zero. Tempo overrides the sounding tempo.
	Metronome int
	Tempo     int

	Divisions  int
	Instrument partlist.Instrument
	Namespace  string
	Version    string
}

func DefaultOptions() Options {
	return Options{
		LargePage:  true,
		PageWidth:  constants.PageWidth,
		PageHeight: constants.PageHeight,
		Divisions:  constants.DivisionsPerQuarter,
		Instrument: partlist.Piano,
		Namespace:  constants.MusicXMLNamespace,
		Version:    constants.MusicXMLVersion,
	}
}

func (o Options) soundingTempo() int {
	if o.Tempo > 0 {
		return o.Tempo
	}
	return o.Metronome
}
