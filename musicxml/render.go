package musicxml

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/jsphweid/scorexml/chord"
	"github.com/jsphweid/scorexml/model"
	"github.com/jsphweid/scorexml/partlist"
)

// Render emits the part, measure and note level elements. Staff and voice
// are always 1: a part holds exactly one staff.
type Render struct {
	opts  Options
	shift int
}

// Shift is the number of octaves added to every note.
func (r *Render) Shift() int {
	return r.shift
}

type MeasurePosition struct {
	Number int

	// First measure of its part; never starts a new system.
	First bool

	// First measure of the first part; carries the tempo marking.
	FirstOfFirstPart bool
}

func (r *Render) Part(staff model.Staff, index int) (*etree.Element, error) {
	part := etree.NewElement("part")
	part.CreateAttr("id", partlist.PartID(index))
	for i, m := range staff.Measures {
		measure, err := r.Measure(m, MeasurePosition{
			Number:           i + 1,
			First:            i == 0,
			FirstOfFirstPart: index == 0 && i == 0,
		})
		if err != nil {
			return nil, fmt.Errorf("part %s: %w", partlist.PartID(index), err)
		}
		part.AddChild(measure)
	}
	return part, nil
}

func (r *Render) Measure(m model.Measure, pos MeasurePosition) (*etree.Element, error) {
	measure := etree.NewElement("measure")
	measure.CreateAttr("number", strconv.Itoa(pos.Number))

	if pos.FirstOfFirstPart {
		if direction := r.tempoDirection(); direction != nil {
			measure.AddChild(direction)
		}
	}
	if m.IsNewLine && !pos.First {
		measure.CreateElement("print").CreateAttr("new-system", "yes")
	}

	for i, sym := range m.Symbols {
		switch s := sym.(type) {
		case model.Clef:
			partlist.ApplyClef(partlist.AttributesFor(measure), s, r.opts.Divisions)
		case model.TimeSignature:
			partlist.ApplyTimeSignature(partlist.AttributesFor(measure), s)
		case model.Chord:
			for _, e := range r.Chord(s) {
				measure.AddChild(e)
			}
		default:
			return nil, fmt.Errorf("%w: measure %d symbol %d: %T", ErrUnknownSymbol, pos.Number, i+1, sym)
		}
	}
	return measure, nil
}

func (r *Render) tempoDirection() *etree.Element {
	if r.opts.Metronome <= 0 {
		return nil
	}
	direction := etree.NewElement("direction")
	metronome := direction.CreateElement("direction-type").CreateElement("metronome")
	metronome.CreateElement("beat-unit").SetText("quarter")
	metronome.CreateElement("per-minute").SetText(strconv.Itoa(r.opts.Metronome))
	direction.CreateElement("sound").CreateAttr("tempo", strconv.Itoa(r.opts.soundingTempo()))
	return direction
}

func (r *Render) Chord(c model.Chord) []*etree.Element {
	if c.IsRest {
		return []*etree.Element{r.Rest(c)}
	}
	return r.NoteGroup(c)
}

// NoteGroup emits every note of c, stacking all but the first onto it. When
// the chord is shorter than its longest note a backup follows, so the time
// cursor ends at the longest note either way.
func (r *Render) NoteGroup(c model.Chord) []*etree.Element {
	res := make([]*etree.Element, 0, len(c.Notes)+1)
	for i, n := range c.Notes {
		res = append(res, r.Note(n, i > 0))
	}
	if backup := chord.Backup(c); backup > 0 {
		b := etree.NewElement("backup")
		b.CreateElement("duration").SetText(strconv.Itoa(backup))
		res = append(res, b)
	}
	return res
}

func (r *Render) Rest(c model.Chord) *etree.Element {
	note := etree.NewElement("note")
	rest := note.CreateElement("rest")
	if c.Duration.Name == "whole" {
		rest.CreateAttr("measure", "yes")
	}
	note.CreateElement("duration").SetText(strconv.Itoa(c.Duration.Value))
	note.CreateElement("type").SetText(c.Duration.Name)
	note.CreateElement("staff").SetText("1")
	return note
}

// Note emits a single pitched note. stacked marks it as sounding together
// with the previous note, without advancing time.
func (r *Render) Note(n model.Note, stacked bool) *etree.Element {
	note := etree.NewElement("note")
	if stacked {
		note.CreateElement("chord")
	}

	pitch := note.CreateElement("pitch")
	pitch.CreateElement("step").SetText(n.Pitch.Step)
	pitch.CreateElement("alter").SetText(strconv.Itoa(n.Pitch.Alteration()))
	pitch.CreateElement("octave").SetText(strconv.Itoa(r.octave(n.Pitch)))

	note.CreateElement("duration").SetText(strconv.Itoa(n.Duration.Value))
	note.CreateElement("voice").SetText("1")
	note.CreateElement("type").SetText(n.Duration.Name)
	switch n.Duration.Modifier {
	case model.Dotted:
		note.CreateElement("dot")
	case model.Triplet:
		tm := note.CreateElement("time-modification")
		tm.CreateElement("actual-notes").SetText("3")
		tm.CreateElement("normal-notes").SetText("2")
	}
	note.CreateElement("staff").SetText("1")
	return note
}

func (r *Render) octave(p model.Pitch) int {
	octave := p.Octave + r.shift
	if octave < 0 {
		return 0
	}
	return octave
}
