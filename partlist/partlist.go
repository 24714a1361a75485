// Package partlist assembles the part roster of a score-partwise document
// and the attributes block (divisions, key, time, clef) of its measures.
package partlist

import (
	"sort"
	"strconv"

	"github.com/beevik/etree"
	"github.com/jsphweid/scorexml/model"
)

type Instrument struct {
	Name    string
	Sound   string
	Channel int
	Program int
	Volume  int
	Pan     int
}

// Piano is the instrument every recognized staff is rendered with.
var Piano = Instrument{
	Name:    "Piano",
	Sound:   "keyboard.piano",
	Channel: 1,
	Program: 1,
	Volume:  100,
	Pan:     0,
}

// PartID is the identifier of the staff at index, "P1" for the first one.
// The merger matches parts across pages by this value.
func PartID(index int) string {
	return "P" + strconv.Itoa(index+1)
}

func BuildPartRoster(staffCount int, inst Instrument) *etree.Element {
	partList := etree.NewElement("part-list")
	for i := 0; i < staffCount; i++ {
		id := PartID(i)
		instrumentID := id + "-I1"

		scorePart := partList.CreateElement("score-part")
		scorePart.CreateAttr("id", id)
		scorePart.CreateElement("part-name")

		scoreInstrument := scorePart.CreateElement("score-instrument")
		scoreInstrument.CreateAttr("id", instrumentID)
		scoreInstrument.CreateElement("instrument-name").SetText(inst.Name)
		scoreInstrument.CreateElement("instrument-sound").SetText(inst.Sound)

		midiInstrument := scorePart.CreateElement("midi-instrument")
		midiInstrument.CreateAttr("id", instrumentID)
		setInt(midiInstrument, "midi-channel", inst.Channel)
		setInt(midiInstrument, "midi-program", inst.Program)
		setInt(midiInstrument, "volume", inst.Volume)
		setInt(midiInstrument, "pan", inst.Pan)
	}
	return partList
}

// AttributesFor returns the attributes block of measure, creating it on
// first use. A measure never gets more than one.
func AttributesFor(measure *etree.Element) *etree.Element {
	if attributes := measure.SelectElement("attributes"); attributes != nil {
		return attributes
	}
	return measure.CreateElement("attributes")
}

func ApplyClef(attributes *etree.Element, clef model.Clef, divisions int) {
	setInt(attributes, "divisions", divisions)
	setInt(child(attributes, "key"), "fifths", clef.Fifths)
	c := child(attributes, "clef")
	child(c, "sign").SetText(clef.Sign)
	setInt(c, "line", clef.Line)
	sortAttributes(attributes)
}

func ApplyTimeSignature(attributes *etree.Element, ts model.TimeSignature) {
	t := child(attributes, "time")
	setInt(t, "beats", ts.Numerator)
	setInt(t, "beat-type", ts.Denominator)
	sortAttributes(attributes)
}

var attributeOrder = map[string]int{
	"footnote":      0,
	"level":         1,
	"divisions":     2,
	"key":           3,
	"time":          4,
	"staves":        5,
	"part-symbol":   6,
	"instruments":   7,
	"clef":          8,
	"staff-details": 9,
	"transpose":     10,
	"directive":     11,
	"measure-style": 12,
}

// sortAttributes restores schema order after a clef and a time signature
// were applied in either order.
func sortAttributes(attributes *etree.Element) {
	children := attributes.ChildElements()
	sort.SliceStable(children, func(i, j int) bool {
		return rank(children[i].Tag) < rank(children[j].Tag)
	})
	for _, c := range children {
		attributes.RemoveChild(c)
	}
	for _, c := range children {
		attributes.AddChild(c)
	}
}

func rank(tag string) int {
	if r, ok := attributeOrder[tag]; ok {
		return r
	}
	return len(attributeOrder)
}

func child(parent *etree.Element, tag string) *etree.Element {
	if c := parent.SelectElement(tag); c != nil {
		return c
	}
	return parent.CreateElement(tag)
}

func setInt(parent *etree.Element, tag string, v int) {
	child(parent, tag).SetText(strconv.Itoa(v))
}
